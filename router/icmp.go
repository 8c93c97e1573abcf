package router

import (
	"net/netip"

	"github.com/soypat/swrouter"
	"github.com/soypat/swrouter/ethernet"
	"github.com/soypat/swrouter/internal"
	"github.com/soypat/swrouter/ipv4"
	"github.com/soypat/swrouter/ipv4/icmpv4"
)

// defaultTTL is the TTL stamped on every datagram the router originates
// itself (echo replies and ICMP errors), matching the reference router's
// fixed TTL=64 on self-generated traffic.
const defaultTTL = 64

// nextID advances rt's IPv4 Identification counter for router-originated
// ICMP errors. Nothing here ever fragments, so collisions are harmless,
// but a fixed ID of zero on every Destination Unreachable/Time Exceeded
// makes the router trivially fingerprintable; a cheap xorshift counter
// avoids that for free.
func (rt *Router) nextID() uint16 {
	rt.idSeed = internal.Prand16(rt.idSeed)
	return rt.idSeed
}

// buildEchoReply turns a received echo-request frame into an echo reply
// in place and returns it: swap Ethernet and IP source/destination, reset
// TTL, flip the ICMP type, and recompute both checksums. Mirrors the
// reference router's approach of cloning the whole inbound packet and
// flipping a handful of fields rather than building a reply from scratch.
func buildEchoReply(buf []byte, replySrcHW [6]byte) []byte {
	efrm, _ := ethernet.NewFrame(buf)
	origSrcHW := *efrm.SourceHardwareAddr()
	*efrm.DestinationHardwareAddr() = origSrcHW
	*efrm.SourceHardwareAddr() = replySrcHW

	ifrm, _ := ipv4.NewFrame(efrm.Payload())
	origSrcIP, origDstIP := *ifrm.SourceAddr(), *ifrm.DestinationAddr()
	*ifrm.SourceAddr() = origDstIP
	*ifrm.DestinationAddr() = origSrcIP
	ifrm.SetTTL(defaultTTL)
	ifrm.SetCRC(0)
	ifrm.SetCRC(ifrm.CalculateHeaderCRC())

	icmpFrm, err := icmpv4.NewFrame(ifrm.Payload())
	if err != nil {
		return buf
	}
	icmpFrm.SetType(icmpv4.TypeEchoReply)
	icmpFrm.SetCode(0)
	icmpFrm.SetCRC(0)
	var crc swrouter.CRC791
	icmpFrm.CRCWrite(&crc)
	icmpFrm.SetCRC(swrouter.NeverZeroChecksum(crc.Sum16()))
	return buf
}

// buildICMPError constructs a fresh Ethernet+IPv4+ICMP frame carrying a
// Destination Unreachable or Time Exceeded message quoting origDatagram,
// the raw bytes (header plus payload) of the datagram that triggered the
// error. srcIP/srcHW are the egress interface's own address; dstIP is the
// original datagram's source, now the error's destination; dstHW is the
// next-hop hardware address, or all zeros when the frame is to be queued
// for ARP resolution.
func (rt *Router) buildICMPError(icmpType icmpv4.Type, code uint8, srcIP, dstIP netip.Addr, srcHW, dstHW [6]byte, origDatagram []byte) []byte {
	const ipHdrLen = 20
	const icmpHdrLen = 8
	quotedLen := len(origDatagram)
	if quotedLen > icmpv4.QuotedDataLen {
		quotedLen = icmpv4.QuotedDataLen
	}
	const ethHdrLen = 14 // no VLAN tag on router-originated traffic
	total := ipHdrLen + icmpHdrLen + quotedLen
	buf := make([]byte, ethHdrLen+total)

	efrm, _ := ethernet.NewFrame(buf)
	*efrm.DestinationHardwareAddr() = dstHW
	*efrm.SourceHardwareAddr() = srcHW
	efrm.SetEtherType(ethernet.TypeIPv4)

	ifrm, _ := ipv4.NewFrame(efrm.Payload())
	ifrm.SetVersionAndIHL(4, 5)
	ifrm.SetToS(0)
	ifrm.SetTotalLength(uint16(total))
	ifrm.SetID(rt.nextID())
	ifrm.SetFlags(0)
	ifrm.SetTTL(defaultTTL)
	ifrm.SetProtocol(swrouter.IPProtoICMP)
	*ifrm.SourceAddr() = srcIP.As4()
	*ifrm.DestinationAddr() = dstIP.As4()
	ifrm.SetCRC(0)
	ifrm.SetCRC(ifrm.CalculateHeaderCRC())

	icmpFrm, err := icmpv4.NewFrame(ifrm.Payload())
	if err != nil {
		return buf
	}
	icmpFrm.SetType(icmpType)
	icmpFrm.SetCode(code)
	icmpFrm.SetUnused(0)
	copy(icmpFrm.QuotedData(), origDatagram[:quotedLen])
	icmpFrm.SetCRC(0)
	var crc swrouter.CRC791
	icmpFrm.CRCWrite(&crc)
	icmpFrm.SetCRC(swrouter.NeverZeroChecksum(crc.Sum16()))
	return buf
}
