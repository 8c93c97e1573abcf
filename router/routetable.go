package router

import "net/netip"

// Route is a single static IPv4 routing table entry. Packets whose
// destination matches Dest/Mask are sent out Iface, either directly
// (Gateway is the zero/unspecified address) or via Gateway as next hop.
type Route struct {
	Dest    netip.Addr
	Mask    netip.Addr
	Gateway netip.Addr
	Iface   string
}

// NextHop returns the address ARP should resolve to reach dst via this
// route: the configured gateway, or dst itself when the route is directly
// connected (no gateway).
func (r Route) NextHop(dst netip.Addr) netip.Addr {
	if r.Gateway.IsValid() && !r.Gateway.IsUnspecified() {
		return r.Gateway
	}
	return dst
}

// RouteTable is a static, linearly-scanned IPv4 routing table, resolved by
// longest prefix match. It carries no notion of dynamic routing protocols;
// routes are installed once at configuration time.
type RouteTable struct {
	routes []Route
}

// NewRouteTable returns a RouteTable seeded with routes.
func NewRouteTable(routes ...Route) *RouteTable {
	return &RouteTable{routes: append([]Route(nil), routes...)}
}

// Lookup returns the longest-prefix-match route for dst. Masks are compared
// as unsigned host-order 32-bit integers, so a /24 (mask 0xffffff00) is
// always preferred over a /16 (mask 0xffff0000) whenever both match,
// regardless of table order.
func (rt *RouteTable) Lookup(dst netip.Addr) (Route, bool) {
	if !dst.Is4() {
		return Route{}, false
	}
	var best Route
	var bestMask uint32
	found := false
	dstN := beUint32(dst.As4())
	for _, r := range rt.routes {
		if !r.Dest.Is4() || !r.Mask.Is4() {
			continue
		}
		destN := beUint32(r.Dest.As4())
		maskN := beUint32(r.Mask.As4())
		if dstN&maskN != destN&maskN {
			continue
		}
		if !found || maskN > bestMask {
			best, bestMask, found = r, maskN, true
		}
	}
	return best, found
}

func beUint32(b [4]byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
