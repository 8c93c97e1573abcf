package router

import "net/netip"

// Interface is a network interface owned by the router: a name used to
// address it for sending/receiving frames, its hardware (MAC) address, and
// the IPv4 address assigned to it on its locally-connected subnet.
type Interface struct {
	Name   string
	HWAddr [6]byte
	Addr   netip.Addr
}

// Registry holds every interface the router owns. It answers the two
// questions the dispatcher asks on every packet: "is this destination
// address mine" and "which interface is this".
//
// Registry is read-mostly: the interface set is expected to be configured
// once at startup, so lookups are not synchronized. Callers that reconfigure
// interfaces at runtime must provide their own external synchronization.
type Registry struct {
	ifaces []Interface
}

// NewRegistry returns a Registry seeded with ifaces.
func NewRegistry(ifaces ...Interface) *Registry {
	return &Registry{ifaces: append([]Interface(nil), ifaces...)}
}

// ByName returns the interface registered under name.
func (r *Registry) ByName(name string) (Interface, bool) {
	for _, ifc := range r.ifaces {
		if ifc.Name == name {
			return ifc, true
		}
	}
	return Interface{}, false
}

// ByAddr returns the interface owning addr.
func (r *Registry) ByAddr(addr netip.Addr) (Interface, bool) {
	for _, ifc := range r.ifaces {
		if ifc.Addr == addr {
			return ifc, true
		}
	}
	return Interface{}, false
}

// All returns every registered interface. The returned slice must not be modified.
func (r *Registry) All() []Interface { return r.ifaces }
