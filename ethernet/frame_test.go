package ethernet_test

import (
	"testing"

	"github.com/soypat/swrouter"
	"github.com/soypat/swrouter/ethernet"
)

func TestFrameFieldsRoundTrip(t *testing.T) {
	buf := make([]byte, 14+46)
	efrm, err := ethernet.NewFrame(buf)
	if err != nil {
		t.Fatal(err)
	}
	dst := [6]byte{0xAA, 1, 2, 3, 4, 5}
	src := [6]byte{0xBB, 6, 7, 8, 9, 10}
	*efrm.DestinationHardwareAddr() = dst
	*efrm.SourceHardwareAddr() = src
	efrm.SetEtherType(ethernet.TypeIPv4)

	if got := *efrm.DestinationHardwareAddr(); got != dst {
		t.Errorf("destination = %x, want %x", got, dst)
	}
	if got := *efrm.SourceHardwareAddr(); got != src {
		t.Errorf("source = %x, want %x", got, src)
	}
	if got := efrm.EtherTypeOrSize(); got != ethernet.TypeIPv4 {
		t.Errorf("ethertype = %v, want %v", got, ethernet.TypeIPv4)
	}
	if len(efrm.Payload()) != 46 {
		t.Errorf("payload length = %d, want 46", len(efrm.Payload()))
	}
}

func TestFrameIsBroadcast(t *testing.T) {
	buf := make([]byte, 14)
	efrm, _ := ethernet.NewFrame(buf)
	if efrm.IsBroadcast() {
		t.Fatal("all-zero destination should not read as broadcast")
	}
	*efrm.DestinationHardwareAddr() = ethernet.BroadcastAddr()
	if !efrm.IsBroadcast() {
		t.Fatal("ff:ff:ff:ff:ff:ff destination should read as broadcast")
	}
}

func TestNewFrameTooShort(t *testing.T) {
	_, err := ethernet.NewFrame(make([]byte, 13))
	if err == nil {
		t.Fatal("expected error constructing frame from a 13-byte buffer")
	}
}

func TestValidateSizePayloadSizeMismatch(t *testing.T) {
	buf := make([]byte, 14+10)
	efrm, _ := ethernet.NewFrame(buf)
	efrm.SetEtherType(ethernet.Type(20)) // interpreted as payload size, larger than buffer
	var v swrouter.Validator
	efrm.ValidateSize(&v)
	if !v.HasError() {
		t.Fatal("expected validation error for a size field exceeding buffer length")
	}
}

func TestValidateSizeEtherTypeOK(t *testing.T) {
	buf := make([]byte, 14+10)
	efrm, _ := ethernet.NewFrame(buf)
	efrm.SetEtherType(ethernet.TypeIPv4)
	var v swrouter.Validator
	efrm.ValidateSize(&v)
	if v.HasError() {
		t.Fatalf("unexpected validation error: %v", v.Err())
	}
}

func TestVLANRoundTrip(t *testing.T) {
	buf := make([]byte, 18+10)
	efrm, err := ethernet.NewFrame(buf)
	if err != nil {
		t.Fatal(err)
	}
	efrm.SetVLAN(ethernet.VLANTag(42), ethernet.TypeIPv4)
	if !efrm.IsVLAN() {
		t.Fatal("expected IsVLAN after SetVLAN")
	}
	tag, inner := efrm.VLAN()
	if tag != 42 {
		t.Errorf("VLAN tag = %d, want 42", tag)
	}
	if inner != ethernet.TypeIPv4 {
		t.Errorf("VLAN inner ethertype = %v, want IPv4", inner)
	}
	if efrm.HeaderLength() != 18 {
		t.Errorf("HeaderLength() = %d, want 18 for a VLAN frame", efrm.HeaderLength())
	}
}
