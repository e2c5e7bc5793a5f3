package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/questify/questify/internal/api"
	"github.com/questify/questify/internal/config"
	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/ratelimit"
	"github.com/questify/questify/internal/store"
	"github.com/questify/questify/internal/web"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web site and JSON API",
		Long: `Run the Questify web site and JSON API.

Settings come from the config file, then .env and QUESTIFY_* environment
variables, then flags. A postgres:// database URL selects PostgreSQL,
anything else is a SQLite file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("db") {
				cfg.Database, _ = flags.GetString("db")
			}
			if flags.Changed("addr") {
				cfg.Addr, _ = flags.GetString("addr")
			}
			if flags.Changed("log") {
				cfg.LogFile, _ = flags.GetString("log")
			}
			if flags.Changed("base-url") {
				cfg.BaseURL, _ = flags.GetString("base-url")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", envOr("QUESTIFY_CONFIG", "questify.yaml"), "YAML config file (optional)")
	cmd.Flags().StringP("db", "d", "", "SQLite path or postgres:// URL")
	cmd.Flags().StringP("addr", "a", "", "listen address")
	cmd.Flags().StringP("log", "l", "", "also append logs to this file")
	cmd.Flags().String("base-url", "", "public URL used in share links")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	closeLog, err := setupLogger(os.Stdout, os.Stderr, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return err
	}
	slog.Info("database ready", "dialect", database.Dialect)

	secret := cfg.JWTSecret
	if secret == "" {
		// Generated on first run and kept in the settings table.
		secret, err = store.GetJWTSecret(ctx, database)
		if err != nil {
			return fmt.Errorf("loading JWT secret: %w", err)
		}
	}

	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	handler, err := newHandler(database, secret, cfg.BaseURL, limiter)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		limiter.Run(ctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		slog.Info("server started", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
		return nil
	})

	err = g.Wait()
	slog.Info("server stopped, closing database")
	return err
}

// newHandler mounts the API under /api/ and the web pages everywhere else,
// behind the access log.
func newHandler(database *db.DB, secret, baseURL string, limiter *ratelimit.Limiter) (http.Handler, error) {
	webRouter, err := web.NewRouter(database, secret, baseURL, limiter)
	if err != nil {
		return nil, fmt.Errorf("setting up web router: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(database, secret, limiter))
	mux.Handle("/", webRouter)
	return api.LoggingMiddleware(mux), nil
}
