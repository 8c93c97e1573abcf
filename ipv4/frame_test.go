package ipv4_test

import (
	"testing"

	"github.com/soypat/swrouter"
	"github.com/soypat/swrouter/ipv4"
)

func newTestFrame(t *testing.T, payloadLen int) ipv4.Frame {
	t.Helper()
	buf := make([]byte, 20+payloadLen)
	ifrm, err := ipv4.NewFrame(buf)
	if err != nil {
		t.Fatal(err)
	}
	ifrm.SetVersionAndIHL(4, 5)
	ifrm.SetTotalLength(uint16(len(buf)))
	ifrm.SetTTL(64)
	ifrm.SetProtocol(swrouter.IPProtoUDP)
	*ifrm.SourceAddr() = [4]byte{1, 2, 3, 4}
	*ifrm.DestinationAddr() = [4]byte{5, 6, 7, 8}
	return ifrm
}

func TestFrameFieldRoundTrip(t *testing.T) {
	ifrm := newTestFrame(t, 8)
	if v, ihl := ifrm.VersionAndIHL(); v != 4 || ihl != 5 {
		t.Errorf("VersionAndIHL() = (%d,%d), want (4,5)", v, ihl)
	}
	if ifrm.HeaderLength() != 20 {
		t.Errorf("HeaderLength() = %d, want 20", ifrm.HeaderLength())
	}
	if ifrm.TTL() != 64 {
		t.Errorf("TTL() = %d, want 64", ifrm.TTL())
	}
	if ifrm.Protocol() != swrouter.IPProtoUDP {
		t.Errorf("Protocol() = %v, want UDP", ifrm.Protocol())
	}
	if len(ifrm.Payload()) != 8 {
		t.Errorf("Payload() length = %d, want 8", len(ifrm.Payload()))
	}
}

// P6: a checksum computed by CalculateHeaderCRC, stamped, and re-summed
// verifies to zero.
func TestChecksumVerifiesToZero(t *testing.T) {
	ifrm := newTestFrame(t, 8)
	ifrm.SetCRC(0)
	cs := ifrm.CalculateHeaderCRC()
	ifrm.SetCRC(cs)

	var crc swrouter.CRC791
	crc.WriteEven(ifrm.RawData()[0:20])
	if got := crc.Sum16(); got != 0 {
		t.Fatalf("header checksum verify = %#04x, want 0", got)
	}
}

func TestChecksumChangesWithTTL(t *testing.T) {
	ifrm := newTestFrame(t, 8)
	ifrm.SetCRC(0)
	cs1 := ifrm.CalculateHeaderCRC()
	ifrm.SetTTL(ifrm.TTL() - 1)
	cs2 := ifrm.CalculateHeaderCRC()
	if cs1 == cs2 {
		t.Fatal("checksum should change when TTL changes")
	}
}

func TestNewFrameTooShort(t *testing.T) {
	_, err := ipv4.NewFrame(make([]byte, 19))
	if err == nil {
		t.Fatal("expected error for a buffer shorter than the minimum IPv4 header")
	}
}

func TestValidateSizeBadIHL(t *testing.T) {
	ifrm := newTestFrame(t, 8)
	ifrm.SetVersionAndIHL(4, 4) // IHL<5 is invalid
	var v swrouter.Validator
	ifrm.ValidateSize(&v)
	if !v.HasError() {
		t.Fatal("expected validation error for IHL < 5")
	}
}

func TestValidateSizeTotalLengthExceedsBuffer(t *testing.T) {
	ifrm := newTestFrame(t, 8)
	ifrm.SetTotalLength(9000)
	var v swrouter.Validator
	ifrm.ValidateSize(&v)
	if !v.HasError() {
		t.Fatal("expected validation error when total length exceeds the buffer")
	}
}

func TestValidateExceptCRCBadVersion(t *testing.T) {
	ifrm := newTestFrame(t, 8)
	ifrm.SetVersionAndIHL(6, 5)
	var v swrouter.Validator
	ifrm.ValidateExceptCRC(&v)
	if !v.HasError() {
		t.Fatal("expected validation error for a non-IPv4 version field")
	}
}

func TestValidateExceptCRCIgnoresInboundChecksum(t *testing.T) {
	// Non-goal per spec.md §1: inbound checksum is never checked.
	ifrm := newTestFrame(t, 8)
	ifrm.SetCRC(0xBAAD)
	var v swrouter.Validator
	ifrm.ValidateExceptCRC(&v)
	if v.HasError() {
		t.Fatalf("ValidateExceptCRC should ignore a garbage checksum, got %v", v.Err())
	}
}
