package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/pcap"

	"github.com/soypat/swrouter/router"
)

// snapshotLen is large enough for the biggest frame this router ever
// handles: it never fragments or forwards jumbo frames.
const snapshotLen = 65536

// pcapSender implements [router.FrameSender] and the inbound side of the
// frame transport spec.md keeps external to the core: one live libpcap
// handle per configured interface, opened promiscuous so the router sees
// traffic addressed to MACs other than its own (forwarded traffic is never
// addressed to the router at the Ethernet layer on a shared segment).
type pcapSender struct {
	mu      sync.RWMutex
	handles map[string]*pcap.Handle
	log     *slog.Logger
}

func newPcapSender(ifaceNames []string, log *slog.Logger) (*pcapSender, error) {
	s := &pcapSender{handles: make(map[string]*pcap.Handle, len(ifaceNames)), log: log}
	for _, name := range ifaceNames {
		handle, err := pcap.OpenLive(name, snapshotLen, true, pcap.BlockForever)
		if err != nil {
			s.closeAll()
			return nil, fmt.Errorf("opening interface %s: %w", name, err)
		}
		s.handles[name] = handle
	}
	return s, nil
}

func (s *pcapSender) closeAll() {
	for _, h := range s.handles {
		h.Close()
	}
}

// SendFrame implements [router.FrameSender].
func (s *pcapSender) SendFrame(iface string, frame []byte) error {
	s.mu.RLock()
	handle, ok := s.handles[iface]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("pcap: no open handle for interface %s", iface)
	}
	return handle.WritePacketData(frame)
}

// Run reads frames off every configured interface concurrently and hands
// them to rt.HandleFrame until ctx is canceled.
func (s *pcapSender) Run(ctx context.Context, rt *router.Router) {
	var wg sync.WaitGroup
	for name, handle := range s.handles {
		wg.Add(1)
		go func(name string, handle *pcap.Handle) {
			defer wg.Done()
			src := gopacket.NewPacketSource(handle, handle.LinkType())
			packets := src.Packets()
			for {
				select {
				case <-ctx.Done():
					return
				case packet, ok := <-packets:
					if !ok {
						return
					}
					raw := packet.Data()
					if err := rt.HandleFrame(name, raw); err != nil {
						s.log.Debug("frame not handled", slog.String("iface", name), slog.String("err", err.Error()))
					}
				}
			}
		}(name, handle)
	}
	wg.Wait()
}

func (s *pcapSender) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeAll()
}
