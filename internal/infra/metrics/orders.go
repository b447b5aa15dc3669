package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		ordersTotal,
		ordersRevenueTotal,
	)
}

var (
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Orders by status (pending/paid).",
		},
		[]string{"status"},
	)

	ordersRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_revenue_total",
			Help: "The total monetary value of paid orders, in NPR.",
		},
	)
)

func IncOrder(status string) {
	ordersTotal.WithLabelValues(norm(status)).Inc()
}

func AddOrderRevenue(amount float64) {
	ordersRevenueTotal.Add(amount)
}
