package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "swrouter"

// Metrics holds the Prometheus collectors the router updates while handling
// traffic. Construct with NewMetrics; the zero value is not usable.
type Metrics struct {
	FramesDropped    *prometheus.CounterVec
	ARPRepliesSent   prometheus.Counter
	ARPRequestsSent  prometheus.Counter
	ARPTimeouts      prometheus.Counter
	ICMPSent         *prometheus.CounterVec
	PacketsForwarded prometheus.Counter
}

// NewMetrics registers the router's collectors against reg and returns them.
// A nil reg registers against prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		FramesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "frames_dropped_total",
			Help:      "Total Ethernet frames dropped, by reason.",
		}, []string{"reason"}),
		ARPRepliesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "arp_replies_sent_total",
			Help:      "Total ARP replies sent in response to requests for owned addresses.",
		}),
		ARPRequestsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "arp_requests_sent_total",
			Help:      "Total ARP requests transmitted, including retries.",
		}),
		ARPTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "arp_timeouts_total",
			Help:      "Total ARP resolutions that exhausted their retry budget.",
		}),
		ICMPSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "icmp_sent_total",
			Help:      "Total ICMP messages generated, by type.",
		}, []string{"type"}),
		PacketsForwarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "packets_forwarded_total",
			Help:      "Total IPv4 packets forwarded to a next hop.",
		}),
	}
}
