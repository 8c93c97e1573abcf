package arp_test

import (
	"testing"

	"github.com/soypat/swrouter"
	"github.com/soypat/swrouter/arp"
	"github.com/soypat/swrouter/ethernet"
)

func newRequestFrame(t *testing.T, senderHW [6]byte, senderIP, targetIP [4]byte, shw [6]byte) arp.Frame {
	t.Helper()
	buf := make([]byte, 28)
	afrm, err := arp.NewFrame(buf)
	if err != nil {
		t.Fatal(err)
	}
	afrm.SetHardware(1, 6)
	afrm.SetProtocol(ethernet.TypeIPv4, 4)
	afrm.SetOperation(arp.OpRequest)
	sHW, sIP := afrm.Sender4()
	*sHW = shw
	*sIP = senderIP
	_, tIP := afrm.Target4()
	*tIP = targetIP
	return afrm
}

func TestFrameRoundTrip(t *testing.T) {
	shw := [6]byte{0xde, 0xad, 0xbe, 0xef, 0, 1}
	sip := [4]byte{10, 0, 0, 2}
	tip := [4]byte{10, 0, 0, 1}
	afrm := newRequestFrame(t, shw, sip, tip, shw)

	if afrm.Operation() != arp.OpRequest {
		t.Errorf("Operation() = %v, want request", afrm.Operation())
	}
	gotHW, gotIP := afrm.Sender4()
	if *gotHW != shw || *gotIP != sip {
		t.Errorf("Sender4() = (%x,%x), want (%x,%x)", *gotHW, *gotIP, shw, sip)
	}
	_, gotTargetIP := afrm.Target4()
	if *gotTargetIP != tip {
		t.Errorf("Target4() proto = %x, want %x", *gotTargetIP, tip)
	}
	hwType, hwLen := afrm.Hardware()
	if hwType != 1 || hwLen != 6 {
		t.Errorf("Hardware() = (%d,%d), want (1,6)", hwType, hwLen)
	}
	protoType, protoLen := afrm.Protocol()
	if protoType != ethernet.TypeIPv4 || protoLen != 4 {
		t.Errorf("Protocol() = (%v,%d), want (IPv4,4)", protoType, protoLen)
	}
}

func TestFrameSwapTargetSender(t *testing.T) {
	shw := [6]byte{1, 2, 3, 4, 5, 6}
	sip := [4]byte{10, 0, 0, 2}
	tip := [4]byte{10, 0, 0, 1}
	afrm := newRequestFrame(t, shw, sip, tip, shw)
	afrm.SwapTargetSender()

	_, gotSenderIP := afrm.Sender4()
	if *gotSenderIP != tip {
		t.Errorf("after swap, sender proto addr = %x, want %x", *gotSenderIP, tip)
	}
	_, gotTargetIP := afrm.Target4()
	if *gotTargetIP != sip {
		t.Errorf("after swap, target proto addr = %x, want %x", *gotTargetIP, sip)
	}
}

func TestNewFrameTooShort(t *testing.T) {
	_, err := arp.NewFrame(make([]byte, 10))
	if err == nil {
		t.Fatal("expected error for a buffer shorter than a full IPv4 ARP header")
	}
}

func TestValidateSizeTooShort(t *testing.T) {
	buf := make([]byte, 28)
	afrm, err := arp.NewFrame(buf)
	if err != nil {
		t.Fatal(err)
	}
	afrm.SetHardware(1, 6)
	afrm.SetProtocol(ethernet.TypeIPv6, 16) // hlen=6, plen=16 need 8+2*(6+16)=52 bytes
	var v swrouter.Validator
	afrm.ValidateSize(&v)
	if !v.HasError() {
		t.Fatal("expected a validation error for a buffer shorter than the declared address lengths")
	}
}

func TestOperationString(t *testing.T) {
	if arp.OpRequest.String() != "request" {
		t.Errorf("OpRequest.String() = %q, want %q", arp.OpRequest.String(), "request")
	}
	if arp.OpReply.String() != "reply" {
		t.Errorf("OpReply.String() = %q, want %q", arp.OpReply.String(), "reply")
	}
	if got := arp.Operation(99).String(); got != "Operation(99)" {
		t.Errorf("unknown Operation.String() = %q, want fallback format", got)
	}
}
