package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lingmeet",
		Subsystem: "relay",
		Name:      "connections",
		Help:      "Number of live signaling connections.",
	})
	metricRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lingmeet",
		Subsystem: "relay",
		Name:      "rooms",
		Help:      "Number of rooms with at least one member.",
	})
	metricRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lingmeet",
		Subsystem: "relay",
		Name:      "messages_relayed_total",
		Help:      "Signaling messages forwarded to target connections.",
	}, []string{"type"})
	metricDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lingmeet",
		Subsystem: "relay",
		Name:      "messages_dropped_total",
		Help:      "Signaling messages dropped because the target was offline.",
	})
)
