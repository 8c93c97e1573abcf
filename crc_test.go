package swrouter_test

import (
	"testing"

	"github.com/soypat/swrouter"
)

func TestCRC791KnownVector(t *testing.T) {
	// RFC 1071 §3 worked example.
	data := []byte{0x00, 0x01, 0xf2, 0x03, 0xf4, 0xf5, 0xf6, 0xf7}
	var crc swrouter.CRC791
	crc.WriteEven(data)
	got := crc.Sum16()
	const want = 0x220d
	if got != want {
		t.Fatalf("Sum16()=%#04x, want %#04x", got, want)
	}
}

func TestCRC791ZeroesToAllOnes(t *testing.T) {
	var crc swrouter.CRC791
	crc.WriteEven(make([]byte, 20))
	if got := crc.Sum16(); got != 0xffff {
		t.Fatalf("checksum of all-zero header = %#04x, want 0xffff (ones'-complement of 0)", got)
	}
}

func TestCRC791HeaderVerifiesToZero(t *testing.T) {
	// Build an arbitrary 20-byte header, stamp its checksum, then confirm
	// summing header+checksum together folds to zero (P6).
	hdr := []byte{
		0x45, 0x00, 0x00, 0x3c, 0x1c, 0x46, 0x40, 0x00,
		0x40, 0x06, 0x00, 0x00, 0xac, 0x10, 0x0a, 0x63,
		0xac, 0x10, 0x0a, 0x0c,
	}
	var crc swrouter.CRC791
	crc.WriteEven(hdr[0:10])
	crc.WriteEven(hdr[12:20])
	sum := crc.Sum16()
	hdr[10] = byte(sum >> 8)
	hdr[11] = byte(sum)

	var verify swrouter.CRC791
	verify.WriteEven(hdr)
	if got := verify.Sum16(); got != 0 {
		t.Fatalf("checksum over header+CRC = %#04x, want 0", got)
	}
}

func TestCRC791WriteOddLength(t *testing.T) {
	var a, b swrouter.CRC791
	a.Write([]byte{0x01, 0x02, 0x03})
	b.WriteEven([]byte{0x01, 0x02, 0x03, 0x00})
	if a.Sum16() != b.Sum16() {
		t.Fatalf("odd-length Write should zero-pad like an explicit trailing zero byte: got %#04x vs %#04x", a.Sum16(), b.Sum16())
	}
}

func TestNeverZeroChecksum(t *testing.T) {
	if got := swrouter.NeverZeroChecksum(0); got != 0xffff {
		t.Fatalf("NeverZeroChecksum(0) = %#04x, want 0xffff", got)
	}
	if got := swrouter.NeverZeroChecksum(0x1234); got != 0x1234 {
		t.Fatalf("NeverZeroChecksum(0x1234) = %#04x, want unchanged", got)
	}
}
