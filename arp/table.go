package arp

import (
	"sync"
	"time"
)

// Entry is a single resolved ARP cache entry: the hardware address last
// learned for an IPv4 address, and when it was learned.
type Entry struct {
	IP       [4]byte
	HWAddr   [6]byte
	Valid    bool
	Inserted time.Time
}

// PendingFrame is a queued outbound Ethernet frame waiting on ARP
// resolution of its next hop. Buf holds the full frame as it will be sent:
// only the destination hardware address is still unset.
type PendingFrame struct {
	Buf   []byte
	Iface string
}

// Request tracks a single in-flight ARP resolution. Every outbound frame
// destined for IP is coalesced onto the same Request rather than each
// triggering its own broadcast, per I1.
type Request struct {
	IP        [4]byte
	Iface     string
	Sent      time.Time
	TimesSent int
	Pending   []PendingFrame
}

// SweepResult reports the outcome of a [Table.Sweep] call. Due holds
// requests for which another ARP request must be transmitted; Exhausted
// holds requests that hit the retry limit and have already been unlinked
// from the table, each still carrying the frames that must now be answered
// with an ICMP Host Unreachable.
type SweepResult struct {
	Due       []*Request
	Exhausted []*Request
}

// Table is a fixed-capacity ARP cache combined with its pending-request
// queue, guarded by a single mutex. The reference router protects both
// structures with one process-wide reentrant lock; Go has no reentrant
// mutex, so Table instead exposes only lock-taking public methods built on
// top of unexported, lock-free "Locked" helpers, each of which assumes the
// caller already holds mu. No method ever calls another locking method.
type Table struct {
	mu       sync.Mutex
	entries  []Entry
	requests []*Request
	ttl      time.Duration
}

// NewTable returns a Table with the given fixed capacity and entry TTL.
func NewTable(capacity int, ttl time.Duration) *Table {
	return &Table{
		entries: make([]Entry, capacity),
		ttl:     ttl,
	}
}

// Lookup returns a copy of the cache entry for ip, if a valid one exists.
// Returning a copy rather than a pointer keeps callers from racing the
// sweeper, which may invalidate the same slot concurrently (I3).
// Lookup does not check the entry's age: an entry past its TTL is still
// returned until the next [Table.Sweep] invalidates it.
func (t *Table) Lookup(ip [4]byte) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lookupLocked(ip)
}

func (t *Table) lookupLocked(ip [4]byte) (Entry, bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Valid && e.IP == ip {
			return *e, true
		}
	}
	return Entry{}, false
}

// Insert records a resolved hardware address for ip and unlinks and returns
// the Request that was pending resolution for it, if any -- ownership of
// that Request (and its queued frames) passes to the caller, which must
// flush every pending frame onto the wire with hw as its destination.
//
// Insertion scans for the first invalid (free) slot. If the table is full,
// the reference implementation silently drops the new entry rather than
// evicting an existing valid one, and Insert matches that: any deterministic
// policy satisfies the "must not corrupt existing entries" requirement, and
// a full ARP cache on a small router is already a sign something upstream is
// misbehaving, not a case worth optimizing eviction for.
func (t *Table) Insert(ip [4]byte, hw [6]byte, now time.Time) *Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	req := t.unlinkRequestLocked(ip)
	t.insertLocked(ip, hw, now)
	return req
}

func (t *Table) insertLocked(ip [4]byte, hw [6]byte, now time.Time) {
	for i := range t.entries {
		if !t.entries[i].Valid {
			t.entries[i] = Entry{IP: ip, HWAddr: hw, Valid: true, Inserted: now}
			return
		}
	}
}

// Enqueue appends pending to the Request resolving ip, creating one if none
// exists yet. Created reports whether this call created the Request: the
// dispatcher must, immediately and outside the lock, transmit the first ARP
// request for iface and then call MarkSent, mirroring the reference
// router's forwarding path which fires the first request transmission
// eagerly at enqueue time instead of waiting for the next sweep.
func (t *Table) Enqueue(ip [4]byte, iface string, pending PendingFrame) (created bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.requests {
		if r.IP == ip {
			r.Pending = append(r.Pending, pending)
			return false
		}
	}
	t.requests = append(t.requests, &Request{
		IP:      ip,
		Iface:   iface,
		Pending: []PendingFrame{pending},
	})
	return true
}

// MarkSent records that an ARP request for ip was just transmitted, for use
// right after the dispatcher sends the first request of a freshly created
// Request (see [Table.Enqueue]). Retries performed by [Table.Sweep] update
// Sent/TimesSent themselves and do not need this call.
func (t *Table) MarkSent(ip [4]byte, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.requests {
		if r.IP == ip {
			r.Sent = now
			r.TimesSent++
			return
		}
	}
}

// Destroy unlinks and returns the Request pending resolution of ip, if any.
func (t *Table) Destroy(ip [4]byte) *Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unlinkRequestLocked(ip)
}

func (t *Table) unlinkRequestLocked(ip [4]byte) *Request {
	for i, r := range t.requests {
		if r.IP == ip {
			t.requests = append(t.requests[:i], t.requests[i+1:]...)
			return r
		}
	}
	return nil
}

// Sweep invalidates expired cache entries and advances every pending
// request: requests not yet due for a retry are left untouched, requests due
// for a retry have Sent/TimesSent updated and are returned in Due for the
// caller to retransmit, and requests that have reached maxRetries are
// unlinked from the table and returned in Exhausted so the caller can answer
// their queued frames with an ICMP Host Unreachable.
func (t *Table) Sweep(now time.Time, retryInterval time.Duration, maxRetries int) SweepResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.entries {
		e := &t.entries[i]
		if e.Valid && now.Sub(e.Inserted) >= t.ttl {
			*e = Entry{}
		}
	}
	var res SweepResult
	remaining := t.requests[:0]
	for _, r := range t.requests {
		if now.Sub(r.Sent) < retryInterval {
			remaining = append(remaining, r)
			continue
		}
		if r.TimesSent >= maxRetries {
			res.Exhausted = append(res.Exhausted, r)
			continue
		}
		r.Sent = now
		r.TimesSent++
		res.Due = append(res.Due, r)
		remaining = append(remaining, r)
	}
	t.requests = remaining
	return res
}

// Len returns the number of valid cache entries and pending requests, for
// diagnostics and tests.
func (t *Table) Len() (cached, pending int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.entries {
		if t.entries[i].Valid {
			cached++
		}
	}
	return cached, len(t.requests)
}
