package arp

import "strconv"

// String implements fmt.Stringer. Hand-written rather than stringer-generated
// (this environment cannot run `go generate`): Operation only has two named
// values, so a two-case switch stands in for a generated lookup table.
func (op Operation) String() string {
	switch op {
	case OpRequest:
		return "request"
	case OpReply:
		return "reply"
	default:
		return "Operation(" + strconv.Itoa(int(op)) + ")"
	}
}
