package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barstrat_orders_submitted_total",
			Help: "Total number of orders submitted (by strategy, side and type).",
		},
		[]string{"strategy", "side", "type"},
	)

	OrdersCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barstrat_orders_cancelled_total",
			Help: "Pending stop orders cancelled by strategy.",
		},
		[]string{"strategy"},
	)

	ProtectiveExits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barstrat_protective_exits_total",
			Help: "Positions closed by stop-loss, take-profit or trailing stop.",
		},
		[]string{"strategy", "reason"},
	)

	PositionsOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "barstrat_positions_open",
			Help: "Signed position size per strategy.",
		},
		[]string{"strategy"},
	)

	CandlesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barstrat_candles_processed_total",
			Help: "Candles dispatched to strategies.",
		},
		[]string{"strategy"},
	)

	EquityGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "barstrat_equity",
			Help: "Current equity of the executor (paper or live).",
		},
	)
)

func init() {
	prometheus.MustRegister(OrdersSubmitted, OrdersCancelled, ProtectiveExits,
		PositionsOpen, CandlesProcessed, EquityGauge)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
