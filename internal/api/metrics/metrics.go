// Package metrics defines and registers all custom Prometheus metrics for the
// Growthzi dashboard. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/growthzi/dashboard/internal/core/domain"
)

const namespace = "dashboard"

// ── Navigation ────────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard decisions.
// Label:
//   - outcome: "render", "login", "deny" or "loading"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// SessionTransitionsTotal counts published session states.
// Label:
//   - state: "loading", "anonymous" or "authenticated"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by resulting state.",
	},
	[]string{"state"},
)

// ── Backend ───────────────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the website-generation backend.
// Labels:
//   - operation: logical call name (e.g. "auth.login", "websites.generate")
//   - status: HTTP status code, or "transport_error" when no response arrived
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend API requests.",
		// generation calls an AI model and can take many seconds
		Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
	},
	[]string{"operation", "status"},
)

// ── Sites & roles ─────────────────────────────────────────────────────────────

// WebsitesGeneratedTotal counts generation attempts.
// Label:
//   - result: "ok" or "error"
var WebsitesGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "websites_generated_total",
		Help:      "Total number of website generation attempts, by result.",
	},
	[]string{"result"},
)

// RoleChangesTotal counts role assignments made from the admin panel.
// Label:
//   - role: the role assigned
var RoleChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_changes_total",
		Help:      "Total number of role assignments, by assigned role.",
	},
	[]string{"role"},
)

// BackendObserver feeds BackendRequestDuration from the backend client.
type BackendObserver struct{}

func (BackendObserver) ObserveBackendRequest(operation string, status int, elapsed time.Duration) {
	label := "transport_error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	BackendRequestDuration.WithLabelValues(operation, label).Observe(elapsed.Seconds())
}

// SessionState names a snapshot for SessionTransitionsTotal.
func SessionState(s domain.Snapshot) string {
	switch {
	case !s.Resolved():
		return s.Phase.String()
	case s.Authenticated():
		return "authenticated"
	default:
		return "anonymous"
	}
}

// TrackSession counts every snapshot received on ch until it is closed.
func TrackSession(ch <-chan domain.Snapshot) {
	for snap := range ch {
		SessionTransitionsTotal.WithLabelValues(SessionState(snap)).Inc()
	}
}
