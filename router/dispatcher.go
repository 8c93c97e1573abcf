// Package router implements an IPv4 software router operating at the
// Ethernet frame level: it owns a set of network interfaces, a static
// routing table, and an ARP resolution subsystem, and dispatches inbound
// frames to local delivery, ARP handling, or longest-prefix-match
// forwarding.
//
// The dispatcher never verifies the checksum of an inbound IPv4 header:
// like the reference router it is modeled on, it accepts datagrams as
// delivered and only recomputes checksums on traffic it originates or
// forwards. IPv6, fragmentation, dynamic routing, NAT/filtering, and
// gratuitous/proxy ARP are all out of scope.
package router

import (
	"log/slog"
	"net/netip"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/soypat/swrouter"
	"github.com/soypat/swrouter/arp"
	"github.com/soypat/swrouter/ethernet"
	"github.com/soypat/swrouter/ipv4"
	"github.com/soypat/swrouter/ipv4/icmpv4"
)

// FrameSender is the router's only outbound collaborator: something capable
// of transmitting a raw Ethernet frame out a named interface. A frame
// transport that reads inbound frames off the wire and calls [Router.HandleFrame]
// is a separate, external concern; this package only ever produces frames
// and hands them to a FrameSender.
type FrameSender interface {
	SendFrame(iface string, frame []byte) error
}

// Config configures a [Router]. Registry, Routes, ARP and Sender are
// required; Clock, Logger and MetricsRegisterer are optional.
type Config struct {
	Registry *Registry
	Routes   *RouteTable
	ARP      *arp.Table
	Sender   FrameSender

	// Clock provides the router's notion of wall-clock time, used for ARP
	// entry TTLs and request retry/timeout. Defaults to
	// clockwork.NewRealClock(); tests should inject a clockwork.FakeClock.
	Clock clockwork.Clock

	Logger *slog.Logger

	// MetricsRegisterer is the Prometheus registerer the router's counters
	// are registered against. Defaults to prometheus.DefaultRegisterer.
	MetricsRegisterer prometheus.Registerer
}

// Router dispatches received Ethernet frames: classifying them as ARP or
// IPv4, replying to or resolving ARP requests, and delivering or forwarding
// IPv4 traffic per its routing table.
type Router struct {
	reg     *Registry
	routes  *RouteTable
	arp     *arp.Table
	sender  FrameSender
	clock   clockwork.Clock
	metrics *Metrics
	idSeed  uint16
	logger
}

// New constructs a Router from cfg. Registry, Routes, ARP and Sender must be non-nil.
func New(cfg Config) *Router {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Router{
		reg:     cfg.Registry,
		routes:  cfg.Routes,
		arp:     cfg.ARP,
		sender:  cfg.Sender,
		clock:   clock,
		metrics: NewMetrics(cfg.MetricsRegisterer),
		idSeed:  0x2f6b,
		logger:  logger{log: cfg.Logger},
	}
}

// HandleFrame is the router's top-level ingress entry point, the Go
// equivalent of the reference router's sr_handlepacket: it classifies raw,
// received off ifaceName, as ARP or IPv4 and dispatches accordingly.
// Anything shorter than an Ethernet header, or of any other EtherType, is
// silently dropped, matching the reference behavior exactly.
func (rt *Router) HandleFrame(ifaceName string, raw []byte) error {
	efrm, err := ethernet.NewFrame(raw)
	if err != nil {
		rt.countDrop("short")
		return swrouter.ErrPacketDrop
	}
	var v swrouter.Validator
	efrm.ValidateSize(&v)
	if v.HasError() {
		rt.countDrop("malformed_ethernet")
		return swrouter.ErrPacketDrop
	}
	now := rt.clock.Now()
	switch efrm.EtherTypeOrSize() {
	case ethernet.TypeARP:
		return rt.handleARP(ifaceName, efrm, now)
	case ethernet.TypeIPv4:
		return rt.handleIPv4(ifaceName, efrm, now)
	default:
		rt.countDrop("unhandled_ethertype")
		return swrouter.ErrPacketDrop
	}
}

func (rt *Router) countDrop(reason string) {
	rt.metrics.FramesDropped.WithLabelValues(reason).Inc()
}

//
// ARP handling.
//

func (rt *Router) handleARP(ifaceName string, efrm ethernet.Frame, now time.Time) error {
	afrm, err := arp.NewFrame(efrm.Payload())
	if err != nil {
		rt.countDrop("short_arp")
		return swrouter.ErrPacketDrop
	}
	var v swrouter.Validator
	afrm.ValidateSize(&v)
	if v.HasError() {
		rt.countDrop("malformed_arp")
		return swrouter.ErrPacketDrop
	}
	senderHW, senderIP := afrm.Sender4()
	_, targetIP := afrm.Target4()

	switch afrm.Operation() {
	case arp.OpRequest:
		ifc, ok := rt.reg.ByAddr(netip.AddrFrom4(*targetIP))
		if !ok {
			rt.countDrop("arp_not_for_us")
			return swrouter.ErrPacketDrop
		}
		rt.trace("arp request for owned address", slog.String("iface", ifc.Name))
		return rt.sendARPReply(ifc, *senderHW, *senderIP)
	case arp.OpReply:
		req := rt.arp.Insert(*senderIP, *senderHW, now)
		if req == nil {
			return nil // unsolicited reply: learned opportunistically, nothing queued on it
		}
		rt.flushPending(req, *senderHW)
		return nil
	default:
		rt.countDrop("arp_bad_op")
		return swrouter.ErrPacketDrop
	}
}

// flushPending sends every frame that was queued waiting on req's
// resolution, now that hw has been learned.
func (rt *Router) flushPending(req *arp.Request, hw [6]byte) {
	for _, pf := range req.Pending {
		pfFrm, err := ethernet.NewFrame(pf.Buf)
		if err != nil {
			continue
		}
		*pfFrm.DestinationHardwareAddr() = hw
		if err := rt.sender.SendFrame(pf.Iface, pf.Buf); err != nil {
			rt.warn("send failed after arp resolve", slog.String("iface", pf.Iface), slog.String("err", err.Error()))
		} else {
			rt.metrics.PacketsForwarded.Inc()
		}
	}
}

func (rt *Router) sendARPReply(ifc Interface, targetHW [6]byte, targetIP [4]byte) error {
	buf := make([]byte, 14+28)
	efrm, _ := ethernet.NewFrame(buf)
	*efrm.DestinationHardwareAddr() = targetHW
	*efrm.SourceHardwareAddr() = ifc.HWAddr
	efrm.SetEtherType(ethernet.TypeARP)

	afrm, _ := arp.NewFrame(efrm.Payload())
	afrm.SetHardware(1, 6)
	afrm.SetProtocol(ethernet.TypeIPv4, 4)
	afrm.SetOperation(arp.OpReply)
	senderHW, senderIP := afrm.Sender4()
	*senderHW = ifc.HWAddr
	*senderIP = ifc.Addr.As4()
	tHW, tIP := afrm.Target4()
	*tHW = targetHW
	*tIP = targetIP

	err := rt.sender.SendFrame(ifc.Name, buf)
	if err == nil {
		rt.metrics.ARPRepliesSent.Inc()
	}
	return err
}

func (rt *Router) sendARPRequest(ifc Interface, targetIP [4]byte) error {
	buf := make([]byte, 14+28)
	efrm, _ := ethernet.NewFrame(buf)
	*efrm.DestinationHardwareAddr() = ethernet.BroadcastAddr()
	*efrm.SourceHardwareAddr() = ifc.HWAddr
	efrm.SetEtherType(ethernet.TypeARP)

	afrm, _ := arp.NewFrame(efrm.Payload())
	afrm.SetHardware(1, 6)
	afrm.SetProtocol(ethernet.TypeIPv4, 4)
	afrm.SetOperation(arp.OpRequest)
	senderHW, senderIP := afrm.Sender4()
	*senderHW = ifc.HWAddr
	*senderIP = ifc.Addr.As4()
	_, tIP := afrm.Target4()
	*tIP = targetIP

	err := rt.sender.SendFrame(ifc.Name, buf)
	if err == nil {
		rt.metrics.ARPRequestsSent.Inc()
	}
	return err
}

// queueForARP enqueues buf to be sent out egress once nextHop resolves,
// eagerly transmitting the first ARP request if this is a brand-new
// resolution (I2: the dispatcher, not the sweeper, sends the first request).
func (rt *Router) queueForARP(egress Interface, nextHop [4]byte, buf []byte, now time.Time) error {
	created := rt.arp.Enqueue(nextHop, egress.Name, arp.PendingFrame{Buf: buf, Iface: egress.Name})
	if created {
		if err := rt.sendARPRequest(egress, nextHop); err != nil {
			rt.warn("arp request send failed", slog.String("iface", egress.Name), slog.String("err", err.Error()))
		}
		rt.arp.MarkSent(nextHop, now)
	}
	return swrouter.ErrARPPending
}

//
// IPv4 handling.
//

func (rt *Router) handleIPv4(ifaceName string, efrm ethernet.Frame, now time.Time) error {
	ifrm, err := ipv4.NewFrame(efrm.Payload())
	if err != nil {
		rt.countDrop("short_ipv4")
		return swrouter.ErrPacketDrop
	}
	var v swrouter.Validator
	ifrm.ValidateSize(&v)
	if v.HasError() {
		rt.countDrop("malformed_ipv4")
		return swrouter.ErrPacketDrop
	}
	// No checksum verification on receive: accepted as delivered, per the
	// reference router, which disables this check because every known
	// client correctly computes its own outbound checksum.
	dst := netip.AddrFrom4(*ifrm.DestinationAddr())
	if ifc, ok := rt.reg.ByAddr(dst); ok {
		return rt.handleLocalIPv4(ifc, efrm, ifrm, now)
	}
	return rt.forwardIPv4(efrm, ifrm, now)
}

func (rt *Router) handleLocalIPv4(ifc Interface, efrm ethernet.Frame, ifrm ipv4.Frame, now time.Time) error {
	if ifrm.Protocol() == swrouter.IPProtoICMP {
		icmpFrm, err := icmpv4.NewFrame(ifrm.Payload())
		if err == nil && icmpFrm.Type() == icmpv4.TypeEcho {
			buildEchoReply(efrm.RawData(), ifc.HWAddr)
			err := rt.sender.SendFrame(ifc.Name, efrm.RawData())
			if err == nil {
				rt.metrics.ICMPSent.WithLabelValues("echo_reply").Inc()
			}
			return err
		}
	}
	// Anything else addressed to us (UDP/TCP with no listener, or non-echo
	// ICMP) gets a port unreachable, matching the reference router: it has
	// no transport-layer stack of its own to deliver into.
	return rt.sendICMPError(icmpv4.TypeDestinationUnreachable, uint8(icmpv4.CodePortUnreachable), ifrm, now, true)
}

func (rt *Router) forwardIPv4(efrm ethernet.Frame, ifrm ipv4.Frame, now time.Time) error {
	if ifrm.TTL() <= 1 {
		return rt.sendICMPError(icmpv4.TypeTimeExceeded, uint8(icmpv4.CodeExceededInTransit), ifrm, now, true)
	}
	dst := netip.AddrFrom4(*ifrm.DestinationAddr())
	route, ok := rt.routes.Lookup(dst)
	if !ok {
		return rt.sendICMPError(icmpv4.TypeDestinationUnreachable, uint8(icmpv4.CodeNetUnreachable), ifrm, now, true)
	}
	egress, ok := rt.reg.ByName(route.Iface)
	if !ok {
		rt.countDrop("route_to_unknown_iface")
		return swrouter.ErrUnknownInterface
	}

	ifrm.SetTTL(ifrm.TTL() - 1)
	ifrm.SetCRC(0)
	ifrm.SetCRC(ifrm.CalculateHeaderCRC())
	*efrm.SourceHardwareAddr() = egress.HWAddr
	efrm.SetEtherType(ethernet.TypeIPv4)

	nextHop := route.NextHop(dst)
	if entry, ok := rt.arp.Lookup(nextHop.As4()); ok {
		*efrm.DestinationHardwareAddr() = entry.HWAddr
		err := rt.sender.SendFrame(egress.Name, efrm.RawData())
		if err == nil {
			rt.metrics.PacketsForwarded.Inc()
		}
		return err
	}
	return rt.queueForARP(egress, nextHop.As4(), efrm.RawData(), now)
}

// sendICMPError builds and sends a Destination Unreachable or Time Exceeded
// message addressed to orig's source, quoting orig. It performs its own
// routing table and ARP cache lookup to find the return path, exactly like
// the reference router's send_icmp_t3.
//
// When allowQueue is false -- used only for the ICMP generated after an ARP
// resolution times out -- an ARP miss on the return path causes the message
// to be dropped instead of queued, so a second unresolvable destination can
// never cascade into an unbounded chain of host-unreachable generation.
func (rt *Router) sendICMPError(t icmpv4.Type, code uint8, orig ipv4.Frame, now time.Time, allowQueue bool) error {
	origSrc := netip.AddrFrom4(*orig.SourceAddr())
	route, ok := rt.routes.Lookup(origSrc)
	if !ok {
		rt.countDrop("icmp_error_no_return_route")
		return swrouter.ErrPacketDrop
	}
	egress, ok := rt.reg.ByName(route.Iface)
	if !ok {
		rt.countDrop("icmp_error_unknown_iface")
		return swrouter.ErrPacketDrop
	}
	nextHop := route.NextHop(origSrc)

	quoted := orig.RawData()
	if int(orig.TotalLength()) <= len(quoted) {
		quoted = quoted[:orig.TotalLength()]
	}

	typeLabel := icmpTypeLabel(t)
	if entry, hit := rt.arp.Lookup(nextHop.As4()); hit {
		buf := rt.buildICMPError(t, code, egress.Addr, origSrc, egress.HWAddr, entry.HWAddr, quoted)
		err := rt.sender.SendFrame(egress.Name, buf)
		if err == nil {
			rt.metrics.ICMPSent.WithLabelValues(typeLabel).Inc()
		}
		return err
	}
	if !allowQueue {
		rt.debug("drop icmp error: return path unresolved", slog.String("iface", egress.Name))
		rt.countDrop("icmp_error_return_path_unresolved")
		return swrouter.ErrPacketDrop
	}
	buf := rt.buildICMPError(t, code, egress.Addr, origSrc, egress.HWAddr, [6]byte{}, quoted)
	rt.metrics.ICMPSent.WithLabelValues(typeLabel).Inc()
	return rt.queueForARP(egress, nextHop.As4(), buf, now)
}

func icmpTypeLabel(t icmpv4.Type) string {
	switch t {
	case icmpv4.TypeDestinationUnreachable:
		return "destination_unreachable"
	case icmpv4.TypeTimeExceeded:
		return "time_exceeded"
	default:
		return "other"
	}
}

// handleExhausted answers every frame still queued on an ARP resolution
// that ran out of retries with an ICMP Host Unreachable, the Go equivalent
// of send_icmp_host_unreachable, then discards the frames: ownership of the
// queued packets passed to this function when the sweeper unlinked the
// Request, and none of them will ever be sent now.
func (rt *Router) handleExhausted(req *arp.Request) {
	rt.metrics.ARPTimeouts.Inc()
	for _, pf := range req.Pending {
		efrm, err := ethernet.NewFrame(pf.Buf)
		if err != nil {
			continue
		}
		ifrm, err := ipv4.NewFrame(efrm.Payload())
		if err != nil {
			continue
		}
		rt.sendICMPError(icmpv4.TypeDestinationUnreachable, uint8(icmpv4.CodeHostUnreachable), ifrm, rt.clock.Now(), false)
	}
}
