package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SettlementStepDuration tracks latency of each settlement fan-out step.
	SettlementStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "settlement_step_duration_seconds",
			Help: "Duration of settlement fan-out steps in seconds",
			Buckets: []float64{
				0.001, 0.005, 0.01, 0.025, 0.05,
				0.1, 0.25, 0.5, 1.0, 2.5, 5.0,
			},
		},
		[]string{"step", "result"}, // result: success or failure
	)

	// OrdersSettled counts settlement events that actually ran the fan-out.
	OrdersSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_settled_total",
			Help: "Number of orders settled by event type",
		},
		[]string{"event"},
	)

	// PaymentCaptures counts gateway capture attempts per channel.
	PaymentCaptures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_captures_total",
			Help: "Payment capture attempts by channel and result",
		},
		[]string{"channel", "result"},
	)
)

// RecordSettlementStep records one fan-out step observation.
func RecordSettlementStep(step, result string, seconds float64) {
	SettlementStepDuration.WithLabelValues(step, result).Observe(seconds)
}
