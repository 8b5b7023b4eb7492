package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/groupsched/internal/config"
	"github.com/me/groupsched/internal/logging"
	"github.com/me/groupsched/internal/server"
	"github.com/me/groupsched/internal/store"
)

func main() {
	cfg := config.DefaultServerConfig()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Database path (default $GROUPSCHED_DB or ~/.groupsched/groupsched.db)")
	flag.IntVar(&cfg.MaxTicks, "max-ticks", cfg.MaxTicks, "Largest horizon, in ticks, one request may simulate")
	flag.IntVar(&cfg.MaxActive, "max-active", cfg.MaxActive, "Simulations allowed to run at once (0 = unlimited)")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	noStore := flag.Bool("no-store", false, "Do not persist runs")

	flag.Parse()

	logger := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Debug: *debug}.Logger(os.Stderr)

	var opts []server.Option
	if !*noStore {
		dbPath, err := config.ResolveDBPath(cfg.DBPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

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
		opts = append(opts, server.WithStore(st))
	}

	srv := server.New(cfg, logger, opts...)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "max_ticks", cfg.MaxTicks)
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
