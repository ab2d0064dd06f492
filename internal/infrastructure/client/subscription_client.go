package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

// SubscriptionClient talks to the platform's subscription service. It
// implements ports.SubscriptionProvider.
type SubscriptionClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewSubscriptionClient(baseURL string, timeout time.Duration, log zerolog.Logger) *SubscriptionClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SubscriptionClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Status fetches the authoritative subscription tier for the member owning
// the token.
func (c *SubscriptionClient) Status(ctx context.Context, token string) (domain.SubscriptionStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/subscription/status", nil)
	if err != nil {
		return domain.SubscriptionStatus{}, fmt.Errorf("subscription status: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.SubscriptionStatus{}, fmt.Errorf("subscription service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.SubscriptionStatus{}, remoteError(resp)
	}

	var status domain.SubscriptionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return domain.SubscriptionStatus{}, fmt.Errorf("decode response: %w", err)
	}
	if !status.Plan.Valid() {
		status.Plan = domain.PlanFree
	}
	return status, nil
}
