// Package main - Entry point for the solar proposal HTTP server
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"solar-proposal/api"
	"solar-proposal/core/engine"
	"solar-proposal/core/reference"
	"solar-proposal/internal/config"
	"solar-proposal/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file (JSON)")
	envFile := flag.String("env-file", ".env", "file of SOLAR_* overrides")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	if err := run(*cfgPath, *envFile, *addr); err != nil {
		logging.Error("server failed", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
}

func run(cfgPath, envFile, addr string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	provider, err := reference.Load(cfg.Reference.Path)
	if err != nil {
		return err
	}

	eng, err := engine.New(provider, cfg.Engine, engine.WithLogger(logging.Named("engine")))
	if err != nil {
		return err
	}

	server := api.NewServer(eng, cfg.Server, logging.Named("http"), version)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version),
			zap.String("reference_snapshot", provider.SnapshotHash()))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
