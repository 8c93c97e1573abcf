package swrouter_test

import (
	"errors"
	"testing"

	"github.com/soypat/swrouter"
)

func TestValidatorFirstErrorOnly(t *testing.T) {
	var v swrouter.Validator
	errA := errors.New("a")
	errB := errors.New("b")
	v.AddError(errA)
	v.AddError(errB)
	if !errors.Is(v.Err(), errA) {
		t.Fatalf("expected first recorded error to win, got %v", v.Err())
	}
	if errors.Is(v.Err(), errB) {
		t.Fatalf("second error should have been discarded without AllowMultiErrs")
	}
}

func TestValidatorAllowMultiErrs(t *testing.T) {
	var v swrouter.Validator
	v.AllowMultiErrs = true
	errA := errors.New("a")
	errB := errors.New("b")
	v.AddError(errA)
	v.AddError(errB)
	joined := v.Err()
	if !errors.Is(joined, errA) || !errors.Is(joined, errB) {
		t.Fatalf("expected both errors joined, got %v", joined)
	}
}

func TestValidatorResetAndPop(t *testing.T) {
	var v swrouter.Validator
	v.AddError(errors.New("boom"))
	if !v.HasError() {
		t.Fatal("HasError should report true after AddError")
	}
	err := v.ErrPop()
	if err == nil {
		t.Fatal("ErrPop should return the recorded error")
	}
	if v.HasError() {
		t.Fatal("ErrPop should reset the validator")
	}
	if v.Err() != nil {
		t.Fatal("Err after reset should be nil")
	}
}

func TestIPProtoString(t *testing.T) {
	cases := map[swrouter.IPProto]string{
		swrouter.IPProtoICMP: "ICMP",
		swrouter.IPProtoTCP:  "TCP",
		swrouter.IPProtoUDP:  "UDP",
	}
	for proto, want := range cases {
		if got := proto.String(); got != want {
			t.Errorf("IPProto(%d).String() = %q, want %q", proto, got, want)
		}
	}
	if got := swrouter.IPProto(253).String(); got != "IPProto(253)" {
		t.Errorf("unknown IPProto.String() = %q, want fallback format", got)
	}
}
