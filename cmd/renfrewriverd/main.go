// Command renfrewriverd runs the world-generation daemon: it loads the
// TOML configuration, opens the ruleset store, and serves the
// tagged-union WebSocket protocol described by the session package.
// Grounded on the teacher's root main.go api-server mode: flag parsing,
// a version/commit/date triple overridable by -ldflags, and graceful
// shutdown on SIGINT/SIGTERM guarded by a sync.Once.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/kannanvijayan/renfrew-river/config"
	"github.com/kannanvijayan/renfrew-river/rulesetstore"
	"github.com/kannanvijayan/renfrew-river/session"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Path to config file (default: platform config directory)")
		address     = flag.String("address", "", "Listen address, e.g. 127.0.0.1:8420 (overrides config)")
		rulesetsDir = flag.String("rulesets-dir", "", "Ruleset storage directory (overrides config)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("renfrewriverd %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *address != "" {
		cfg.Server.Address = *address
	}
	if *rulesetsDir != "" {
		cfg.Storage.RulesetsDir = *rulesetsDir
	}

	dir := cfg.Storage.RulesetsDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(config.GetDataPath(), dir)
	}
	store, err := rulesetstore.Open(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ruleset store at %s: %v\n", dir, err)
		os.Exit(1)
	}

	tickInterval := time.Duration(cfg.Generation.DeviceTickIntervalMs) * time.Millisecond
	mux := http.NewServeMux()
	mux.Handle("/ws", session.NewServerWithDeviceTickInterval(store, tickInterval))

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down renfrewriverd...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("renfrewriverd stopped")
			os.Exit(0)
		})
	}

	go func() {
		fmt.Printf("renfrewriverd listening on %s (rulesets: %s)\n", cfg.Server.Address, dir)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
