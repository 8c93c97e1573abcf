package icmpv4

import (
	"encoding/binary"
	"errors"

	"github.com/soypat/swrouter"
)

type Type uint8

const (
	TypeEchoReply Type = 0 // echo reply
	TypeEcho      Type = 8 // echo

	TypeDestinationUnreachable Type = 3 // destination unreachable
	TypeSourceQuench           Type = 4 // source quench
	TypeRedirect               Type = 5 // redirect

	TypeTimeExceeded     Type = 11 // time exceeded
	TypeParameterProblem Type = 12 // parameter problem

	TypeTimestamp      Type = 13 // timestamp
	TypeTimestampReply Type = 14 // timestamp reply

	TypeInfoRequest      Type = 15 // information request
	TypeInfoRequestReply Type = 16 // information request reply
)

type CodeTimeExceeded uint8

const (
	CodeExceededInTransit  CodeTimeExceeded = iota // TTL exceeded in transit
	CodeFragmentReassembly                         // fragment reassembly time exceeded
)

type CodeDestinationUnreachable uint8

const (
	CodeNetUnreachable     CodeDestinationUnreachable = iota // net unreachable
	CodeHostUnreachable                                      // host unreachable
	CodeProtoUnreachable                                     // protocol unreachable
	CodePortUnreachable                                      // port unreachable
	CodeFragNeededAndDFSet                                   // fragmentation needed and DF set
	CodeSourceRouteFailed                                    // source route failed
)

type CodeRedirect uint8

const (
	CodeRedirectForNetwork       CodeRedirect = iota // redirect for network
	CodeRedirectForHost                              // redirect for host
	CodeRedirectForToSAndNetwork                     // redirect for ToS+network
	CodeRedirectToSAndHost                           // redirect for ToS+host
)

var (
	errShortFrame = errors.New("icmpv4: short frame")
)

func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < 8 {
		return Frame{}, errShortFrame
	}
	return Frame{buf: buf}, nil
}

type Frame struct {
	buf []byte
}

func (frm Frame) Type() Type { return Type(frm.buf[0]) }

func (frm Frame) SetType(t Type) { frm.buf[0] = uint8(t) }

func (frm Frame) Code() uint8 { return frm.buf[1] }

func (frm Frame) SetCode(code uint8) { frm.buf[1] = code }

// CRC returns the checksum field of the frame.
func (frm Frame) CRC() uint16 {
	return binary.BigEndian.Uint16(frm.buf[2:4])
}

// SetCRC sets the checksum field of the frame.
func (frm Frame) SetCRC(crc uint16) {
	binary.BigEndian.PutUint16(frm.buf[2:4], crc)
}

// CRCWrite calculates the checksum of the ICMP packet. Treats the checksum field as zero as per RFC 792.
func (frm Frame) CRCWrite(crc *swrouter.CRC791) {
	crc.AddUint16(binary.BigEndian.Uint16(frm.buf[0:2]))
	crc.Write(frm.buf[4:])
}

func (frm Frame) payload() []byte {
	return frm.buf[4:]
}

// Unused returns the 4 bytes following the checksum, unused in Destination
// Unreachable and Time Exceeded messages (the Next-Hop MTU field of
// Fragmentation Needed messages lives here too, but that message is out of
// scope since this stack never fragments).
func (frm Frame) Unused() uint32 { return binary.BigEndian.Uint32(frm.buf[4:8]) }

// SetUnused sets the 4 bytes following the checksum. See [Frame.Unused].
func (frm Frame) SetUnused(v uint32) { binary.BigEndian.PutUint32(frm.buf[4:8], v) }

// QuotedData returns the variable-length data following the 8-byte ICMP
// header. For Destination Unreachable and Time Exceeded messages this holds
// the offending IP header plus the leading octets of its payload, per RFC 792.
func (frm Frame) QuotedData() []byte { return frm.buf[8:] }

// QuotedDataLen is the number of bytes of the original datagram (IP header
// plus payload) quoted back in a Destination Unreachable or Time Exceeded
// message: a 20-byte IPv4 header (no options expected on a quoted datagram)
// plus the first 8 bytes of its payload.
const QuotedDataLen = 28

// AppendQuotedDatagram appends up to QuotedDataLen bytes of orig (the raw
// bytes of the IPv4 datagram, header and payload, that triggered the ICMP
// error) to dst. Shorter datagrams are quoted in full.
func AppendQuotedDatagram(dst []byte, orig []byte) []byte {
	n := len(orig)
	if n > QuotedDataLen {
		n = QuotedDataLen
	}
	return append(dst, orig[:n]...)
}

// FrameDestinationUnreachable is an ICMP type-3 message: the quoted datagram
// could not be delivered further, per [CodeDestinationUnreachable].
type FrameDestinationUnreachable struct {
	Frame
}

func (frm FrameDestinationUnreachable) Code() CodeDestinationUnreachable {
	return CodeDestinationUnreachable(frm.Frame.Code())
}

func (frm FrameDestinationUnreachable) SetCode(code CodeDestinationUnreachable) {
	frm.Frame.SetCode(uint8(code))
}

// FrameTimeExceeded is an ICMP type-11 message: the quoted datagram's TTL
// reached zero before reaching its destination, per [CodeTimeExceeded].
// It shares FrameDestinationUnreachable's wire layout (type, code, checksum,
// 4 unused bytes, then the quoted datagram).
type FrameTimeExceeded struct {
	Frame
}

func (frm FrameTimeExceeded) Code() CodeTimeExceeded {
	return CodeTimeExceeded(frm.Frame.Code())
}

func (frm FrameTimeExceeded) SetCode(code CodeTimeExceeded) {
	frm.Frame.SetCode(uint8(code))
}

type FrameEcho struct {
	Frame
}

func (frm FrameEcho) Identifier() uint16 {
	return binary.BigEndian.Uint16(frm.buf[4:6])
}

func (frm FrameEcho) SetIdentifier(id uint16) {
	binary.BigEndian.PutUint16(frm.buf[4:6], id)
}

func (frm FrameEcho) SequenceNumber() uint16 {
	return binary.BigEndian.Uint16(frm.buf[6:8])
}

func (frm FrameEcho) SetSequenceNumber(seq uint16) {
	binary.BigEndian.PutUint16(frm.buf[6:8], seq)
}

func (frm FrameEcho) Data() []byte {
	return frm.buf[8:]
}

func (frm FrameEcho) RawData() []byte {
	return frm.buf
}
