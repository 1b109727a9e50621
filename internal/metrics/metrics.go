package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labreserva",
			Name:      "reservations_created_total",
			Help:      "Reservations persisted, recurrence instances included.",
		},
	)

	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labreserva",
			Name:      "reservation_conflicts_total",
			Help:      "Reservation requests rejected for interval overlap.",
		},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "labreserva",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationsCreated, reservationConflicts, logins)
	})
}

// AddReservationsCreated counts persisted reservations.
func AddReservationsCreated(n int) {
	reservationsCreated.Add(float64(n))
}

// IncReservationConflict counts a rejected overlapping request.
func IncReservationConflict() {
	reservationConflicts.Inc()
}

// IncLogin counts a login attempt with an "ok" or "failed" outcome label.
func IncLogin(outcome string) {
	logins.WithLabelValues(outcome).Inc()
}
