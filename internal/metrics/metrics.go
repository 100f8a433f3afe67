// Package metrics exposes Prometheus counters for the core's operations
// and an optional standalone /metrics listener. The product itself has no
// network surface; this listener is observability plumbing only.
package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	registrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "userboard_registrations_total", Help: "Count of successful registrations"},
	)
	validationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "userboard_validation_failures_total", Help: "Count of field validation failures"},
		[]string{"field"},
	)
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "userboard_logins_total", Help: "Count of login attempts"},
		[]string{"result"},
	)
	usersDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "userboard_users_deleted_total", Help: "Count of deleted users"},
	)
	usersUpdatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "userboard_users_updated_total", Help: "Count of updated users"},
	)
)

func init() {
	prometheus.MustRegister(
		registrationsTotal,
		validationFailuresTotal,
		loginsTotal,
		usersDeletedTotal,
		usersUpdatedTotal,
	)
}

// ObserveRegistration records a successful registration.
func ObserveRegistration() { registrationsTotal.Inc() }

// ObserveValidationFailures records one failure per failing field.
func ObserveValidationFailures(fields []string) {
	for _, f := range fields {
		validationFailuresTotal.WithLabelValues(f).Inc()
	}
}

// ObserveLogin records a login attempt; result is "ok" or "rejected".
func ObserveLogin(result string) { loginsTotal.WithLabelValues(result).Inc() }

// ObserveUserDeleted records a user deletion.
func ObserveUserDeleted() { usersDeletedTotal.Inc() }

// ObserveUserUpdated records a user update.
func ObserveUserUpdated() { usersUpdatedTotal.Inc() }

// Serve starts the metrics listener on addr and blocks. Intended to run
// in its own goroutine when metrics are enabled.
func Serve(addr, path string, logger zerolog.Logger) error {
	r := chi.NewRouter()
	r.Handle(path, promhttp.Handler())

	logger.Info().Str("addr", addr).Str("path", path).Msg("metrics listener started")
	return http.ListenAndServe(addr, r)
}
