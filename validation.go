package swrouter

import "errors"

// ValidateFlags configures optional, stricter validation behavior shared by
// the wire-format subpackages (ethernet, arp, ipv4, icmpv4).
type ValidateFlags uint8

const (
	// ValidateEvilBit causes IPv4 validation to reject packets with the
	// RFC 3514 evil bit set. Off by default, since almost no deployed
	// stack sets or checks it.
	ValidateEvilBit ValidateFlags = 1 << iota
)

// Validator accumulates validation errors across one or more frame-level
// ValidateSize/ValidateExceptCRC calls. The zero value is ready to use.
//
// A Validator is not safe for concurrent use; callers validate one frame
// at a time and call ResetErr (or ErrPop) before reusing it for the next.
type Validator struct {
	Flags ValidateFlags

	// AllowMultiErrs causes AddError to accumulate every error reported
	// instead of keeping only the first. Most callers want the first
	// error, which is almost always the most actionable one.
	AllowMultiErrs bool

	accum []error
}

// AddError records a validation failure. Unless AllowMultiErrs is set,
// only the first error reported since the last reset is kept.
func (v *Validator) AddError(err error) {
	if len(v.accum) != 0 && !v.AllowMultiErrs {
		return
	}
	v.accum = append(v.accum, err)
}

// HasError reports whether any error has been recorded since the last reset.
func (v *Validator) HasError() bool { return len(v.accum) != 0 }

// Err returns the accumulated validation error, or nil if none was recorded.
// Multiple errors are joined with errors.Join.
func (v *Validator) Err() error {
	switch len(v.accum) {
	case 0:
		return nil
	case 1:
		return v.accum[0]
	default:
		return errors.Join(v.accum...)
	}
}

// ResetErr clears all accumulated errors, preparing the Validator for reuse.
func (v *Validator) ResetErr() { v.accum = v.accum[:0] }

// ErrPop returns the accumulated error, if any, and resets the Validator.
func (v *Validator) ErrPop() error {
	err := v.Err()
	v.ResetErr()
	return err
}
