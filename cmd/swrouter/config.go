package main

import (
	"fmt"
	"net"
	"net/netip"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/soypat/swrouter/arp"
	"github.com/soypat/swrouter/router"
)

// fileConfig is the top-level TOML configuration for the swrouter process.
type fileConfig struct {
	Interfaces []interfaceConfig `toml:"interface"`
	Routes     []routeConfig     `toml:"route"`
	ARP        arpConfig         `toml:"arp"`
	Metrics    metricsConfig     `toml:"metrics"`
}

type interfaceConfig struct {
	Name    string `toml:"name"`
	Address string `toml:"address"`
	HWAddr  string `toml:"hwaddr"`
}

type routeConfig struct {
	Dest      string `toml:"dest"`
	Mask      string `toml:"mask"`
	Gateway   string `toml:"gateway"`
	Interface string `toml:"interface"`
}

type arpConfig struct {
	CacheSize int    `toml:"cache_size"`
	CacheTTL  string `toml:"cache_ttl"`
}

type metricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

const (
	defaultARPCacheSize = 100
	defaultARPCacheTTL  = 15 * time.Second
	defaultMetricsAddr  = ":9100"
)

// loadConfig reads and parses path, applying defaults for any unset field.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg := &fileConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.ARP.CacheSize == 0 {
		cfg.ARP.CacheSize = defaultARPCacheSize
	}
	if cfg.ARP.CacheTTL == "" {
		cfg.ARP.CacheTTL = defaultARPCacheTTL.String()
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = defaultMetricsAddr
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (cfg *fileConfig) validate() error {
	if len(cfg.Interfaces) == 0 {
		return fmt.Errorf("at least one [[interface]] is required")
	}
	seen := make(map[string]bool, len(cfg.Interfaces))
	for i, ifc := range cfg.Interfaces {
		if ifc.Name == "" {
			return fmt.Errorf("interface[%d]: name is required", i)
		}
		if seen[ifc.Name] {
			return fmt.Errorf("interface[%d]: duplicate name %q", i, ifc.Name)
		}
		seen[ifc.Name] = true
		if _, err := netip.ParseAddr(ifc.Address); err != nil {
			return fmt.Errorf("interface[%d].address: %w", i, err)
		}
		if _, err := net.ParseMAC(ifc.HWAddr); err != nil {
			return fmt.Errorf("interface[%d].hwaddr: %w", i, err)
		}
	}
	for i, rt := range cfg.Routes {
		if _, err := netip.ParseAddr(rt.Dest); err != nil {
			return fmt.Errorf("route[%d].dest: %w", i, err)
		}
		if _, err := netip.ParseAddr(rt.Mask); err != nil {
			return fmt.Errorf("route[%d].mask: %w", i, err)
		}
		if rt.Interface == "" {
			return fmt.Errorf("route[%d]: interface is required", i)
		}
		if !seen[rt.Interface] {
			return fmt.Errorf("route[%d]: unknown interface %q", i, rt.Interface)
		}
	}
	if _, err := time.ParseDuration(cfg.ARP.CacheTTL); err != nil {
		return fmt.Errorf("arp.cache_ttl: %w", err)
	}
	return nil
}

func buildRegistry(cfg *fileConfig) (*router.Registry, error) {
	ifaces := make([]router.Interface, 0, len(cfg.Interfaces))
	for _, ifc := range cfg.Interfaces {
		addr, err := netip.ParseAddr(ifc.Address)
		if err != nil {
			return nil, err
		}
		mac, err := net.ParseMAC(ifc.HWAddr)
		if err != nil {
			return nil, err
		}
		var hw [6]byte
		copy(hw[:], mac)
		ifaces = append(ifaces, router.Interface{Name: ifc.Name, HWAddr: hw, Addr: addr})
	}
	return router.NewRegistry(ifaces...), nil
}

func buildRouteTable(cfg *fileConfig) (*router.RouteTable, error) {
	routes := make([]router.Route, 0, len(cfg.Routes))
	for _, rt := range cfg.Routes {
		dest, err := netip.ParseAddr(rt.Dest)
		if err != nil {
			return nil, err
		}
		mask, err := netip.ParseAddr(rt.Mask)
		if err != nil {
			return nil, err
		}
		var gw netip.Addr
		if rt.Gateway != "" {
			gw, err = netip.ParseAddr(rt.Gateway)
			if err != nil {
				return nil, err
			}
		}
		routes = append(routes, router.Route{Dest: dest, Mask: mask, Gateway: gw, Iface: rt.Interface})
	}
	return router.NewRouteTable(routes...), nil
}

func buildARPTable(cfg *fileConfig) (*arp.Table, error) {
	ttl, err := time.ParseDuration(cfg.ARP.CacheTTL)
	if err != nil {
		return nil, err
	}
	return arp.NewTable(cfg.ARP.CacheSize, ttl), nil
}
