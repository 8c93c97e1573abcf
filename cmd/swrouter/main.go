// Command swrouter runs the software IPv4 router as a standalone process:
// it loads interfaces, routes, and ARP tuning from a TOML config file,
// opens a live pcap capture on each configured interface, and dispatches
// received frames through [router.Router].
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soypat/swrouter/router"
)

func main() {
	configPath := flag.String("config", "swrouter.toml", "path to TOML configuration file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	if err := run(*configPath, logger); err != nil {
		logger.Error("fatal", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	routes, err := buildRouteTable(cfg)
	if err != nil {
		return err
	}
	arpTable, err := buildARPTable(cfg)
	if err != nil {
		return err
	}

	ifaceNames := make([]string, len(cfg.Interfaces))
	for i, ifc := range cfg.Interfaces {
		ifaceNames[i] = ifc.Name
	}
	sender, err := newPcapSender(ifaceNames, logger)
	if err != nil {
		return err
	}
	defer sender.Close()

	rt := router.New(router.Config{
		Registry: reg,
		Routes:   routes,
		ARP:      arpTable,
		Sender:   sender,
		Clock:    clockwork.NewRealClock(),
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Listen, logger)
	}

	go rt.RunSweeper(ctx)

	logger.Info("swrouter started", slog.Int("interfaces", len(ifaceNames)))
	sender.Run(ctx, rt)
	logger.Info("swrouter stopped")
	return nil
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
	logger.Info("metrics listening", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", slog.String("err", err.Error()))
	}
}
