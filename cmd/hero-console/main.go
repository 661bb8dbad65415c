package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/me/heroconsole/internal/config"
	"github.com/me/heroconsole/internal/logging"
	"github.com/me/heroconsole/internal/server"
	"github.com/me/heroconsole/internal/store"
)

const sessionCleanupInterval = 10 * time.Minute

func main() {
	def := config.DefaultConsoleConfig()

	flags := pflag.NewFlagSet("hero-console", pflag.ExitOnError)
	flags.String("addr", def.Addr, "Listen address")
	flags.String("api-url", def.APIURL, "Hero Records API base URL")
	flags.String("db", def.DBPath, "Session database path (default ~/.hero/console.db)")
	flags.String("log-level", def.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", def.LogFormat, "Log format (text, json)")
	flags.Bool("secure-cookies", def.SecureCookies, "Mark session cookies Secure (serve over HTTPS)")
	flags.Int("page-size", def.PageSize, "Default table page size")
	flags.Duration("request-timeout", def.RequestTimeout, "Per-call API timeout")
	flags.Duration("session-ttl", def.SessionTTL, "Browser session lifetime")
	configFile := flags.String("config", "", "Path to config file (default ./hero.yaml if present)")
	debug := flags.Bool("debug", false, "Shorthand for --log-level=debug")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "hero-console"})

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve database path: %v\n", err)
		os.Exit(1)
	}

	// Open store and run migrations.
	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", dbPath)

	srv := server.New(cfg, st, logger)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.StartSessionCleanup(ctx, sessionCleanupInterval)

	go func() {
		logger.Info("console starting", "addr", cfg.Addr, "api", cfg.APIURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
