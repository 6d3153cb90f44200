package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess  = "success"
	StatusConflict = "conflict"
	StatusError    = "error"
)

var (
	seatTemplateWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_template_writes_total",
			Help: "Bus seat template writes by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	tripSeatPriceWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_seat_price_writes_total",
			Help: "Trip seat price set writes by save path and outcome",
		},
		[]string{"path", "status"},
	)

	generatedSeats = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generated_seats_total",
			Help: "Seats produced by the grid generator",
		},
	)

	busCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_cache_lookups_total",
			Help: "Bus cache lookups by result",
		},
		[]string{"result"},
	)
)

// SeatTemplateWrite records a bus seat template write
func SeatTemplateWrite(operation, status string) {
	seatTemplateWrites.WithLabelValues(operation, status).Inc()
}

// TripSeatPriceWrite records a trip seat price write
func TripSeatPriceWrite(path, status string) {
	tripSeatPriceWrites.WithLabelValues(path, status).Inc()
}

// SeatsGenerated records seats created by the grid generator
func SeatsGenerated(n int) {
	generatedSeats.Add(float64(n))
}

// BusCacheLookup records a cache hit or miss
func BusCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	busCacheLookups.WithLabelValues(result).Inc()
}

// StatusFor maps a write error to a status label
func StatusFor(err error, conflict bool) string {
	switch {
	case err == nil:
		return StatusSuccess
	case conflict:
		return StatusConflict
	default:
		return StatusError
	}
}
