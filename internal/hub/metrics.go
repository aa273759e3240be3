// Prometheus collectors for hub activity. Labels are kept to the bounded
// category set to avoid cardinality growth from user ids.
package hub

import "github.com/prometheus/client_golang/prometheus"

var (
	// pushesTotal counts push calls by event category.
	pushesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_pushes_total",
			Help: "Total number of notification pushes.",
		},
		[]string{"category"},
	)

	// liveDeliveries counts events handed to a live channel.
	liveDeliveries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_live_deliveries_total",
			Help: "Events delivered to a connected live channel.",
		},
	)

	// liveDrops counts events dropped because a channel buffer was full.
	liveDrops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_live_drops_total",
			Help: "Events dropped due to a full live channel buffer.",
		},
	)

	// durableFailures counts failed durable notification writes.
	durableFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_durable_write_failures_total",
			Help: "Durable notification writes that returned an error.",
		},
	)

	// channelsConnected gauges currently registered live channels.
	channelsConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_channels_connected",
			Help: "Currently registered live channels.",
		},
	)
)

func init() {
	prometheus.MustRegister(pushesTotal, liveDeliveries, liveDrops, durableFailures, channelsConnected)
}
