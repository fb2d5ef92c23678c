// Package metrics holds the storefront's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway names
const (
	GatewayConfigFetch  = "config_fetch"
	GatewayConfigUpdate = "config_update"
	GatewayProperties   = "properties"
	GatewayChat         = "chat"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "gateway_requests_total",
			Help:      "Calls to external services, by gateway and outcome.",
		},
		[]string{"gateway", "outcome"},
	)

	chatSendsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "chat_sends_dropped_total",
			Help:      "Chat sends ignored because another send was in flight.",
		},
	)

	categoryLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "category_loads_total",
			Help:      "Per-category property loads, by outcome.",
		},
		[]string{"outcome"},
	)
)

// ObserveGateway records one gateway call
func ObserveGateway(gateway string, err error) {
	gatewayRequestsTotal.WithLabelValues(gateway, outcome(err)).Inc()
}

// ChatSendDropped records a send rejected by the in-flight guard
func ChatSendDropped() {
	chatSendsDroppedTotal.Inc()
}

// CategoryLoad records one per-category property load
func CategoryLoad(err error) {
	categoryLoadsTotal.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
