package swrouter

import "errors"

// Sentinel errors common to frame classification and router dispatch.
// Components compare against these with errors.Is so that wrapping with
// extra context (interface name, source address, etc.) never breaks a
// caller's error-kind check.
var (
	// ErrPacketDrop indicates a frame was silently discarded, the default
	// disposition for anything the router does not recognize or does not
	// own, mirroring the reference router's silent drop of unknown frames.
	ErrPacketDrop = errors.New("packet dropped")

	// ErrBadCRC indicates a checksum mismatch was found where one was checked.
	ErrBadCRC = errors.New("incorrect checksum")

	// ErrZeroSource indicates a frame arrived with an all-zero source address
	// where a nonzero source is required for correct processing.
	ErrZeroSource = errors.New("zero source address")

	// ErrZeroDestination indicates a frame arrived with an all-zero
	// destination address where a nonzero destination is expected.
	ErrZeroDestination = errors.New("zero destination address")

	// ErrNoRoute indicates the routing table has no entry, longest prefix
	// or otherwise, matching a destination address.
	ErrNoRoute = errors.New("no matching route")

	// ErrTTLExceeded indicates a datagram arrived at or below the minimum
	// TTL and cannot be forwarded further.
	ErrTTLExceeded = errors.New("ttl exceeded")

	// ErrARPPending indicates the next-hop hardware address is not yet
	// known and resolution has been queued.
	ErrARPPending = errors.New("arp resolution pending")

	// ErrARPExhausted indicates an ARP request was retried the maximum
	// number of times without a reply.
	ErrARPExhausted = errors.New("arp retries exhausted")

	// ErrUnknownInterface indicates a lookup by name or address found no
	// matching registered interface.
	ErrUnknownInterface = errors.New("unknown interface")
)
