// Package metrics defines and registers all custom Prometheus metrics for the
// FitPulse session agent. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fitpulse_session"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// SignupsTotal counts registration attempts by outcome.
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of registration attempts, labelled by result.",
	},
	[]string{"result"},
)

// ValidationsTotal counts startup token validations.
// Label:
//   - result: "confirmed" (auth service accepted the persisted token),
//     "rejected" (auth service refused it), or "expired" (local expiry peek
//     short-circuited the network call)
var ValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validations_total",
		Help:      "Total number of startup token validations, labelled by result.",
	},
	[]string{"result"},
)

// ReconciliationsTotal counts subscription tier reconciliations.
// Label:
//   - outcome: "changed", "unchanged", or "error"
var ReconciliationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciliations_total",
		Help:      "Total number of subscription reconciliations, labelled by outcome.",
	},
	[]string{"outcome"},
)

// NotificationsTotal counts notifications delivered to sinks.
// Label:
//   - kind: notification kind (success, error, info, plan_activated, plan_ended)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications emitted, labelled by kind.",
	},
	[]string{"kind"},
)

// SessionAuthenticated is 1 while a member is signed in, 0 otherwise.
var SessionAuthenticated = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "authenticated",
		Help:      "Whether a member is currently signed in (1) or the session is anonymous (0).",
	},
)
