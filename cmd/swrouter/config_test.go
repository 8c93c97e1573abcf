package main

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swrouter.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfig = `
[[interface]]
name = "eth0"
address = "192.0.2.1"
hwaddr = "dd:dd:dd:dd:dd:dd"

[[interface]]
name = "eth1"
address = "10.0.0.1"
hwaddr = "bb:bb:bb:bb:bb:bb"

[[route]]
dest = "10.0.1.0"
mask = "255.255.255.0"
gateway = "10.0.0.2"
interface = "eth1"

[[route]]
dest = "0.0.0.0"
mask = "0.0.0.0"
gateway = "192.0.2.254"
interface = "eth0"
`

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, validConfig)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ARP.CacheSize != defaultARPCacheSize {
		t.Errorf("CacheSize = %d, want default %d", cfg.ARP.CacheSize, defaultARPCacheSize)
	}
	if cfg.ARP.CacheTTL != defaultARPCacheTTL.String() {
		t.Errorf("CacheTTL = %q, want default %q", cfg.ARP.CacheTTL, defaultARPCacheTTL.String())
	}
	if cfg.Metrics.Listen != defaultMetricsAddr {
		t.Errorf("Metrics.Listen = %q, want default %q", cfg.Metrics.Listen, defaultMetricsAddr)
	}
}

func TestLoadConfigRejectsNoInterfaces(t *testing.T) {
	path := writeConfig(t, `[[route]]
dest = "10.0.0.0"
mask = "255.0.0.0"
interface = "eth0"
`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected an error with zero configured interfaces")
	}
}

func TestLoadConfigRejectsDuplicateInterfaceName(t *testing.T) {
	path := writeConfig(t, `
[[interface]]
name = "eth0"
address = "192.0.2.1"
hwaddr = "dd:dd:dd:dd:dd:dd"

[[interface]]
name = "eth0"
address = "10.0.0.1"
hwaddr = "bb:bb:bb:bb:bb:bb"
`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected an error for a duplicate interface name")
	}
}

func TestLoadConfigRejectsRouteToUnknownInterface(t *testing.T) {
	path := writeConfig(t, `
[[interface]]
name = "eth0"
address = "192.0.2.1"
hwaddr = "dd:dd:dd:dd:dd:dd"

[[route]]
dest = "10.0.0.0"
mask = "255.0.0.0"
interface = "eth9"
`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected an error for a route referencing an unconfigured interface")
	}
}

func TestLoadConfigRejectsBadAddress(t *testing.T) {
	path := writeConfig(t, `
[[interface]]
name = "eth0"
address = "not-an-address"
hwaddr = "dd:dd:dd:dd:dd:dd"
`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected an error for a malformed interface address")
	}
}

func TestBuildRegistryRouteTableAndARPTable(t *testing.T) {
	path := writeConfig(t, validConfig)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("buildRegistry: %v", err)
	}
	if _, ok := reg.ByName("eth0"); !ok {
		t.Error("expected eth0 in the registry")
	}
	if _, ok := reg.ByName("eth1"); !ok {
		t.Error("expected eth1 in the registry")
	}

	routes, err := buildRouteTable(cfg)
	if err != nil {
		t.Fatalf("buildRouteTable: %v", err)
	}
	dst, err := netip.ParseAddr("10.0.1.7")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := routes.Lookup(dst); !ok {
		t.Error("expected a route match for 10.0.1.7")
	}

	arpTable, err := buildARPTable(cfg)
	if err != nil {
		t.Fatalf("buildARPTable: %v", err)
	}
	cached, pending := arpTable.Len()
	if cached != 0 || pending != 0 {
		t.Errorf("fresh ARP table should start empty, got cached=%d pending=%d", cached, pending)
	}
}

func TestBuildARPTableRejectsBadTTL(t *testing.T) {
	cfg := &fileConfig{ARP: arpConfig{CacheSize: 10, CacheTTL: "not-a-duration"}}
	if _, err := buildARPTable(cfg); err == nil {
		t.Fatal("expected an error for an unparseable cache_ttl")
	}
}
