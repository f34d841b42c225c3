/*
main.go - Application entry point

PURPOSE:
  Starts the payroll ledger HTTP server. Handles configuration, dependency
  injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (YAML file, .env, PAYROLL_* environment)
  3. Open the storage backend and load the ledger
  4. Create API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML configuration file (optional)
  -addr    Listen address, overrides the configuration
  -data    Ledger path, overrides the configuration

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (server.shutdown_timeout)
  3. Close the storage backend
  4. Exit

EXAMPLES:
  # JSON ledger in the working directory
  ./server

  # SQLite ledger on another port
  PAYROLL_STORAGE=sqlite ./server -data=./data/payroll.db -addr=:3000

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration sources and precedence
  - store/open.go: Backend selection
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/payroll-ledger/api"
	"github.com/warp/payroll-ledger/auth"
	"github.com/warp/payroll-ledger/config"
	"github.com/warp/payroll-ledger/store"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML configuration file")
	addr := flag.String("addr", "", "HTTP listen address")
	dataPath := flag.String("data", "", "ledger file or database path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dataPath != "" {
		cfg.Storage.Path = *dataPath
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}

	log, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		logrus.Fatal(err)
	}

	// Initialize ledger
	ledger, closeStore, err := store.OpenLedger(context.Background(), cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open storage")
	}
	defer closeStore()

	handler := api.NewHandler(ledger, auth.NewAuthenticator(ledger), log)
	router := api.NewRouter(handler, api.RouterOptions{CORSOrigins: cfg.Server.CORSOrigins})

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Server.Addr,
			"backend": cfg.Storage.Backend,
			"path":    cfg.Storage.Path,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}
