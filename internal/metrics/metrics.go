// Package metrics defines Prometheus metrics for the session client.
//
// All metrics are registered with the default Prometheus registry so any
// promhttp handler in the process serves them.
//
// Metric naming follows Prometheus conventions:
//   - session_client_ prefix for all custom metrics
//   - _total suffix for counters
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label values
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"

	OutcomeRefreshed = "refreshed"
	OutcomeLoggedOut = "logged_out"
)

var (
	// LoginsTotal counts login attempts by result (success, rejected, error).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_client_logins_total",
			Help: "Total number of login attempts by result.",
		},
		[]string{"result"},
	)

	// SignupsTotal counts signup attempts by result.
	SignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_client_signups_total",
			Help: "Total number of signup attempts by result.",
		},
		[]string{"result"},
	)

	// SessionEndsTotal counts sessions ended by reason (logout, expired, unauthorized, restore).
	SessionEndsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_client_session_ends_total",
			Help: "Total number of sessions ended by reason.",
		},
		[]string{"reason"},
	)

	// RecoveriesTotal counts 401 recovery runs by outcome (refreshed, logged_out).
	RecoveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_client_recoveries_total",
			Help: "Total number of 401 recovery runs by outcome.",
		},
		[]string{"outcome"},
	)

	// QueuedUnauthorizedTotal counts 401 responses that waited on a recovery already in flight.
	QueuedUnauthorizedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "session_client_queued_unauthorized_total",
			Help: "Total number of 401 responses coalesced into an in-flight recovery.",
		},
	)

	// Authenticated is 1 while a session is authenticated.
	Authenticated = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_client_authenticated",
			Help: "Whether a session is currently authenticated.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		LoginsTotal,
		SignupsTotal,
		SessionEndsTotal,
		RecoveriesTotal,
		QueuedUnauthorizedTotal,
		Authenticated,
	)
}

func RecordLogin(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

func RecordSignup(result string) {
	SignupsTotal.WithLabelValues(result).Inc()
}

// RecordSessionStart marks the session authenticated
func RecordSessionStart() {
	Authenticated.Set(1)
}

// RecordSessionEnd marks the session anonymous and counts the reason
func RecordSessionEnd(reason string) {
	Authenticated.Set(0)
	SessionEndsTotal.WithLabelValues(reason).Inc()
}

func RecordRecovery(outcome string) {
	RecoveriesTotal.WithLabelValues(outcome).Inc()
}

func RecordQueuedUnauthorized() {
	QueuedUnauthorizedTotal.Inc()
}
