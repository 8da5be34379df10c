package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitalcheck/vitalcheck/internal/api"
	"github.com/vitalcheck/vitalcheck/internal/auth"
	"github.com/vitalcheck/vitalcheck/internal/config"
	"github.com/vitalcheck/vitalcheck/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var (
		configPath string
		uiDir      string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP assessment server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, uiDir)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (defaults apply when empty)")
	cmd.Flags().StringVar(&uiDir, "ui-dir", "", "serve static UI files from this directory; overrides server.ui_dir")
	return cmd
}

func runServe(ctx context.Context, configPath, uiDir string) error {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("vitalcheck starting", "version", version, "config", configPath)

	cfg, err := loadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		return err
	}
	if uiDir != "" {
		cfg.Server.UIDir = uiDir
	}
	level.Set(cfg.Server.Level())

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"metrics", cfg.Server.Metrics.Enabled,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.HTTPPort))
	if err != nil {
		slog.Error("HTTP listen failed", "port", cfg.Server.HTTPPort, "err", err)
		return fmt.Errorf("http server: %w", err)
	}
	return serve(ctx, ln, cfg, configPath, level)
}

// serve runs the API on ln until ctx is cancelled, then shuts down
// gracefully. When configPath is set, the file is watched for hot reloads.
func serve(ctx context.Context, ln net.Listener, cfg *config.Config, configPath string, level *slog.LevelVar) error {
	var reg *metrics.Registry
	if cfg.Server.Metrics.Enabled {
		reg = metrics.New()
	}

	guard := auth.NewGuard(authSettings(cfg.Server.Auth))
	if reg != nil {
		guard.OnReject = func(*http.Request) { reg.ObserveRejection(metrics.ReasonUnauthorized) }
	}

	handler := api.New(api.Options{
		Metrics:        reg,
		Guard:          guard,
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		RequestTimeout: cfg.Server.RequestTimeout,
		UIDir:          cfg.Server.UIDir,
		Version:        version,
	})

	if configPath != "" {
		rl := &reloader{level: level, guard: guard, prev: cfg.Server}
		go func() {
			if err := config.Watch(ctx, configPath, func(updated *config.Config) { rl.apply(updated) }); err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		slog.Error("HTTP server stopped", "err", err)
		return fmt.Errorf("http server: %w", err)
	}

	slog.Info("vitalcheck shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}

// reloader applies the hot-reloadable part of a new config: log level and
// auth mode/key. Everything else needs a restart.
type reloader struct {
	level *slog.LevelVar
	guard *auth.Guard
	prev  config.ServerConfig
}

// apply reports whether updated changed a startup-only field relative to
// the previous reload.
func (rl *reloader) apply(updated *config.Config) bool {
	next := updated.Server
	rl.level.Set(next.Level())

	// The CORS allow-list names the header chosen at startup.
	s := authSettings(next.Auth)
	s.Header = rl.guard.Settings().Header
	rl.guard.Update(s)

	slog.Info("config hot-reloaded", "log_level", next.LogLevel, "auth_mode", next.Auth.Mode)

	restart := restartNeeded(rl.prev, next)
	if restart {
		slog.Warn("config: some changes only apply after a restart")
	}
	rl.prev = next
	return restart
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

func authSettings(a config.AuthConfig) auth.Settings {
	return auth.Settings{Mode: a.Mode, Header: a.Header, Key: a.Key()}
}

// restartNeeded reports whether next differs from prev in a field that is
// only read at startup.
func restartNeeded(prev, next config.ServerConfig) bool {
	if prev.HTTPPort != next.HTTPPort ||
		prev.Auth.Header != next.Auth.Header ||
		prev.ReadTimeout != next.ReadTimeout ||
		prev.WriteTimeout != next.WriteTimeout ||
		prev.RequestTimeout != next.RequestTimeout ||
		prev.MaxBodyBytes != next.MaxBodyBytes ||
		prev.Metrics != next.Metrics ||
		len(prev.CORS.AllowedOrigins) != len(next.CORS.AllowedOrigins) {
		return true
	}
	for i := range prev.CORS.AllowedOrigins {
		if prev.CORS.AllowedOrigins[i] != next.CORS.AllowedOrigins[i] {
			return true
		}
	}
	return false
}
