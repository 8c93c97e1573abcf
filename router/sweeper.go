package router

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRetryInterval is the interval at which an unresolved ARP request is
// retransmitted, and the period of the sweeper's tick. The reference router
// fixes both to one second.
const DefaultRetryInterval = time.Second

// MaxARPRetries is the number of times an ARP request is sent, the first
// transmission included, before the resolution is abandoned and every frame queued on it is
// answered with an ICMP Host Unreachable.
const MaxARPRetries = 5

// RunSweeper drives the router's 1Hz ARP maintenance loop: invalidating
// expired cache entries, retransmitting due ARP requests, and failing
// requests that have exhausted their retry budget. It blocks until ctx is
// canceled, and is meant to run in its own goroutine for the lifetime of
// the Router.
func (rt *Router) RunSweeper(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rt.clock.After(DefaultRetryInterval):
			rt.sweepOnce()
		}
	}
}

func (rt *Router) sweepOnce() {
	now := rt.clock.Now()
	result := rt.arp.Sweep(now, DefaultRetryInterval, MaxARPRetries)
	for _, req := range result.Due {
		ifc, ok := rt.reg.ByName(req.Iface)
		if !ok {
			rt.warn("arp retry for unknown interface", slog.String("iface", req.Iface))
			continue
		}
		if err := rt.sendARPRequest(ifc, req.IP); err != nil {
			rt.warn("arp retry send failed", slog.String("iface", req.Iface), slog.String("err", err.Error()))
		}
	}
	for _, req := range result.Exhausted {
		rt.debug("arp resolution exhausted", slog.String("iface", req.Iface), slog.Int("pending", len(req.Pending)))
		rt.handleExhausted(req)
	}
}
