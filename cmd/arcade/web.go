package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-arcade/internal/logging"
	"github.com/vovakirdan/neon-arcade/internal/metrics"
	"github.com/vovakirdan/neon-arcade/internal/platform/web"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

var (
	flagHTTPAddr      string
	flagAllowedOrigin string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP/WebSocket server for browser play",
	Long: `Start an HTTP server that plays Snake over WebSocket.

Endpoints:
  GET /healthz              - Liveness
  GET /api/games            - Games and their best scores
  GET /api/scores/:game     - Top scores (?limit=1..100)
  GET /metrics              - Prometheus metrics
  GET /ws/snake             - Play session (?difficulty=easy|normal|hard|fixed)

Examples:
  arcade web
  arcade web --http :9000 --origin https://arcade.example.com`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP server address (host:port)")
	webCmd.Flags().StringVar(&flagAllowedOrigin, "origin", "", "Only accept WebSocket upgrades from this Origin")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger := logging.New(logLevel, "arcade-web")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := web.DefaultConfig()
	cfg.Address = flagHTTPAddr
	cfg.Store = store
	cfg.Logger = logger
	cfg.Metrics = metrics.New()
	cfg.AllowedOrigin = flagAllowedOrigin

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting arcade web server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := web.New(cfg).ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
