package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitpulse/session-agent/internal/api/metrics"
	"github.com/fitpulse/session-agent/internal/core/domain"
	"github.com/fitpulse/session-agent/internal/core/ports"
)

// SessionManager holds the single session owned by this process. It is the
// only writer to the session state and to the two persisted storage keys;
// every other component reads through Snapshot or an observer.
type SessionManager struct {
	store    ports.SessionStore
	auth     ports.AuthProvider
	subs     ports.SubscriptionProvider
	notifier ports.Notifier
	log      zerolog.Logger

	mu        sync.RWMutex
	identity  *domain.Identity
	loading   bool
	observers map[int]func(domain.Snapshot)
	nextObs   int

	// tasks tracks the detached validation and reconciliation goroutines so
	// shutdown (and tests) can wait for them.
	tasks sync.WaitGroup
}

func NewSessionManager(store ports.SessionStore, auth ports.AuthProvider, subs ports.SubscriptionProvider, notifier ports.Notifier, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		store:     store,
		auth:      auth,
		subs:      subs,
		notifier:  notifier,
		log:       log,
		loading:   true,
		observers: make(map[int]func(domain.Snapshot)),
	}
}

// Start runs the one-time rehydration pass: load the persisted identity and
// token, optimistically adopt them, then validate the token against the auth
// service in the background. Loading flips to false exactly once, after the
// validation attempt resolves (or immediately when there is nothing to
// validate).
func (m *SessionManager) Start(ctx context.Context) {
	blob, blobErr := m.store.ReadIdentity(ctx)
	token, tokenErr := m.store.ReadToken(ctx)

	if blobErr != nil || tokenErr != nil {
		if !errors.Is(blobErr, domain.ErrNoSession) && blobErr != nil {
			m.log.Warn().Err(blobErr).Msg("reading persisted identity failed, starting anonymous")
		}
		if !errors.Is(tokenErr, domain.ErrNoSession) && tokenErr != nil {
			m.log.Warn().Err(tokenErr).Msg("reading persisted token failed, starting anonymous")
		}
		// The two keys are written together; a lone survivor is as good as
		// no session at all.
		if (blobErr == nil) != (tokenErr == nil) {
			m.clearPersisted(ctx)
		}
		m.setState(nil, false)
		return
	}

	var identity domain.Identity
	if err := json.Unmarshal(blob, &identity); err != nil || token == "" {
		m.log.Warn().Err(err).Msg("persisted identity blob unreadable, clearing session")
		m.clearPersisted(ctx)
		m.setState(nil, false)
		return
	}

	identity.Token = token
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}
	if !identity.Plan.Valid() {
		identity.Plan = domain.PlanFree
	}

	// Provisionally trusted until the auth service confirms it. Loading
	// stays true so UI gates can hold back protected content.
	m.setState(&identity, true)

	if tokenExpired(token) {
		// A bearer token that is a JWT and already expired cannot pass
		// server validation; skip the doomed round-trip.
		m.log.Info().Msg("persisted token already expired, logging out")
		metrics.ValidationsTotal.WithLabelValues("expired").Inc()
		m.clearPersisted(ctx)
		m.setState(nil, false)
		return
	}

	m.tasks.Add(1)
	go m.validate(ctx, token)
}

// validate confirms the provisional identity against the auth service.
func (m *SessionManager) validate(ctx context.Context, token string) {
	defer m.tasks.Done()

	confirmed, err := m.auth.CurrentUser(ctx, token)
	if err != nil {
		// Invalid or expired token: silent logout, the member simply ends
		// up anonymous without a user-facing error.
		m.log.Info().Err(err).Msg("persisted token rejected by auth service")
		metrics.ValidationsTotal.WithLabelValues("rejected").Inc()
		m.clearPersisted(ctx)
		m.setState(nil, false)
		return
	}

	metrics.ValidationsTotal.WithLabelValues("confirmed").Inc()
	confirmed.Token = token
	m.persistIdentity(ctx, confirmed)
	m.setState(confirmed, false)

	m.tasks.Add(1)
	go func() {
		defer m.tasks.Done()
		m.ReconcileSubscription(context.WithoutCancel(ctx))
	}()
}

// Login authenticates against the auth service, persists the returned
// identity and token, and kicks off a background subscription reconciliation.
// It resolves once the identity is durably set, not once reconciliation
// completes; callers must not assume the tier is final yet.
func (m *SessionManager) Login(ctx context.Context, email, password string) bool {
	identity, token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.log.Info().Err(err).Str("email", email).Msg("login failed")
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		m.notify(ctx, domain.NewNotification(domain.NotifyError, "Login Failed",
			domain.RemoteMessage(err, "Login failed")))
		return false
	}

	identity.Token = token
	m.persistIdentity(ctx, identity)
	if err := m.store.WriteToken(ctx, token); err != nil {
		m.log.Warn().Err(err).Msg("persisting token failed")
	}
	m.setState(identity, m.Snapshot().Loading)

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	m.notify(ctx, domain.NewNotification(domain.NotifySuccess, "Login Successful",
		"Welcome back, "+identity.Name))

	m.tasks.Add(1)
	go func() {
		defer m.tasks.Done()
		// The reconciliation outlives the login call; detach it from the
		// caller's cancellation (an HTTP request context dies as soon as the
		// handler responds).
		m.ReconcileSubscription(context.WithoutCancel(ctx))
	}()

	return true
}

// Signup registers a new account. A fresh account is on the free tier
// already, so no reconciliation is triggered.
func (m *SessionManager) Signup(ctx context.Context, name, email, password string) bool {
	identity, token, err := m.auth.Register(ctx, name, email, password)
	if err != nil {
		m.log.Info().Err(err).Str("email", email).Msg("signup failed")
		metrics.SignupsTotal.WithLabelValues("failure").Inc()
		m.notify(ctx, domain.NewNotification(domain.NotifyError, "Registration Failed",
			domain.RemoteMessage(err, "Registration failed")))
		return false
	}

	identity.Token = token
	m.persistIdentity(ctx, identity)
	if err := m.store.WriteToken(ctx, token); err != nil {
		m.log.Warn().Err(err).Msg("persisting token failed")
	}
	m.setState(identity, m.Snapshot().Loading)

	metrics.SignupsTotal.WithLabelValues("success").Inc()
	m.notify(ctx, domain.NewNotification(domain.NotifySuccess, "Account Created",
		"Welcome to FitPulse, "+identity.Name))

	return true
}

// Logout clears the session state and both storage keys. Idempotent: logging
// out while anonymous still emits the informational notification.
func (m *SessionManager) Logout(ctx context.Context) {
	m.clearPersisted(ctx)
	m.setState(nil, m.Snapshot().Loading)
	m.notify(ctx, domain.NewNotification(domain.NotifyInfo, "Logged Out", "You have been logged out"))
}

// ReconcileSubscription refreshes the locally held tier from the
// subscription service. Only transitions crossing the free boundary notify
// the member; other changes apply silently. Failures leave the previously
// known tier authoritative.
func (m *SessionManager) ReconcileSubscription(ctx context.Context) {
	current := m.Snapshot().Identity
	if current == nil {
		return
	}

	status, err := m.subs.Status(ctx, current.Token)
	if err != nil {
		m.log.Warn().Err(err).Msg("subscription check failed, keeping known tier")
		metrics.ReconciliationsTotal.WithLabelValues("error").Inc()
		return
	}

	plan := status.Plan
	if !plan.Valid() {
		plan = domain.PlanFree
	}
	if plan == current.Plan {
		metrics.ReconciliationsTotal.WithLabelValues("unchanged").Inc()
		return
	}

	previous := current.Plan
	updated := current.Clone()
	updated.Plan = plan
	m.persistIdentity(ctx, updated)
	m.setState(updated, m.Snapshot().Loading)
	metrics.ReconciliationsTotal.WithLabelValues("changed").Inc()

	switch {
	case previous == domain.PlanFree && plan.Paid():
		m.notify(ctx, domain.NewNotification(domain.NotifyPlanActivated, "Subscription Activated",
			"Your "+string(plan)+" plan is now active"))
	case previous.Paid() && plan == domain.PlanFree:
		m.notify(ctx, domain.NewNotification(domain.NotifyPlanEnded, "Subscription Ended",
			"Your subscription has ended"))
	}
}

// UpdateIdentity shallow-merges the patch into the current identity and
// re-persists the blob. A token in the patch is additionally written to the
// token key, so subsequent calls always carry the freshest token even if the
// blob write lags.
func (m *SessionManager) UpdateIdentity(ctx context.Context, patch domain.IdentityPatch) {
	current := m.Snapshot().Identity
	if current == nil {
		return
	}

	merged := patch.Apply(*current)
	if patch.Token != nil {
		if err := m.store.WriteToken(ctx, *patch.Token); err != nil {
			m.log.Warn().Err(err).Msg("persisting refreshed token failed")
		}
	}
	m.persistIdentity(ctx, &merged)
	m.setState(&merged, m.Snapshot().Loading)
}

// IsAdmin reports whether the signed-in member has the admin role.
func (m *SessionManager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil && m.identity.Role == domain.RoleAdmin
}

// Snapshot returns a copy of the current session state.
func (m *SessionManager) Snapshot() domain.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.Snapshot{Identity: m.identity.Clone(), Loading: m.loading}
}

// Subscribe registers an observer called after every state change.
func (m *SessionManager) Subscribe(fn func(domain.Snapshot)) func() {
	m.mu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// Close waits for detached background work to finish.
func (m *SessionManager) Close() {
	m.tasks.Wait()
}

func (m *SessionManager) setState(identity *domain.Identity, loading bool) {
	m.mu.Lock()
	m.identity = identity
	m.loading = loading
	snapshot := domain.Snapshot{Identity: identity.Clone(), Loading: loading}
	observers := make([]func(domain.Snapshot), 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	m.mu.Unlock()

	if identity != nil {
		metrics.SessionAuthenticated.Set(1)
	} else {
		metrics.SessionAuthenticated.Set(0)
	}

	// Observers run outside the lock so they may call back into the manager.
	for _, fn := range observers {
		fn(snapshot)
	}
}

func (m *SessionManager) persistIdentity(ctx context.Context, identity *domain.Identity) {
	blob, err := json.Marshal(identity)
	if err != nil {
		m.log.Error().Err(err).Msg("serializing identity failed")
		return
	}
	if err := m.store.WriteIdentity(ctx, blob); err != nil {
		m.log.Warn().Err(err).Msg("persisting identity failed")
	}
}

func (m *SessionManager) clearPersisted(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("clearing persisted session failed")
	}
}

func (m *SessionManager) notify(ctx context.Context, n domain.Notification) {
	if m.notifier == nil {
		return
	}
	m.notifier.Notify(ctx, n)
}
