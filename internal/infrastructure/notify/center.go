package notify

import (
	"context"
	"sync"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

const defaultHistory = 50

// Center is the sink the device UI polls: a bounded in-memory history of the
// most recent notifications, newest first.
type Center struct {
	mu      sync.RWMutex
	history []domain.Notification
	max     int
}

// NewCenter creates a Center retaining up to max notifications.
// If max <= 0, defaultHistory is used.
func NewCenter(max int) *Center {
	if max <= 0 {
		max = defaultHistory
	}
	return &Center{max: max}
}

// Emit implements Sink.
func (c *Center) Emit(_ context.Context, n domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, n)
	if len(c.history) > c.max {
		c.history = c.history[len(c.history)-c.max:]
	}
}

// Recent returns up to limit notifications, newest first. A limit <= 0
// returns the full retained history.
func (c *Center) Recent(limit int) []domain.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := len(c.history)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.Notification, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, c.history[i])
	}
	return out
}
