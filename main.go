package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/snackerbot/server/internal/bot/dispatch"
	"github.com/snackerbot/server/internal/bot/format"
	"github.com/snackerbot/server/internal/bot/graph"
	"github.com/snackerbot/server/internal/bot/httpapi"
	"github.com/snackerbot/server/internal/bot/menus"
	"github.com/snackerbot/server/internal/bot/model"
	"github.com/snackerbot/server/internal/bot/repo"
	"github.com/snackerbot/server/internal/bot/vendor"
	"github.com/snackerbot/server/internal/console"
	"github.com/snackerbot/server/internal/core"
	logx "github.com/snackerbot/server/pkg/logger"
	pkgredis "github.com/snackerbot/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the bot, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config

	Vendor  model.VendorConfig
	Refresh model.RefreshConfig
	Tokens  model.TokenConfig
	HTTP    model.HTTPConfig
}

// app is the wired object graph shared by every subcommand.
type app struct {
	cache      *menus.Cache
	refresher  *menus.Refresher
	dispatcher *dispatch.Dispatcher
	close      func()
}

func loadConfig() (AppConfig, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Could not load .env file: %v\n", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}

func buildApp(ctx context.Context, cfg AppConfig) (*app, error) {
	loc := time.Local
	if cfg.Refresh.Timezone != "" {
		l, err := time.LoadLocation(cfg.Refresh.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid MENU_TIMEZONE %q: %w", cfg.Refresh.Timezone, err)
		}
		loc = l
	}

	cache := menus.NewCache(time.Now, loc)
	fetcher := vendor.NewSodexoClient(cfg.Vendor, nil)
	refresher := menus.NewRefresher(cache, fetcher, model.Halls(), cfg.Refresh.Concurrency)

	runner, err := graph.BuildSelectionGraph(ctx, graph.Config{Cache: cache, Refresher: refresher})
	if err != nil {
		return nil, fmt.Errorf("build selection graph: %w", err)
	}

	closeFn := func() {}
	var tokens model.TokenRepository = repo.NewInlineTokenRepository()
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialise Redis client: %w", err)
		}
		logx.Info().Msg("Connected to Redis, choice tokens are stored server-side")
		tokens = repo.NewRedisTokenRepository(rdb, cfg.Tokens.TTL)
		closeFn = func() { _ = rdb.Close() }
	}

	return &app{
		cache:      cache,
		refresher:  refresher,
		dispatcher: dispatch.New(runner, tokens, refresher, format.MenuEmbed),
		close:      closeFn,
	}, nil
}

func (a *app) warm(ctx context.Context, enabled bool) {
	if !enabled {
		return
	}
	a.refresher.Refresh(ctx, a.cache.Today())
}

func newRootCmd() *cobra.Command {
	var cfg AppConfig

	root := &cobra.Command{
		Use:           "snackerbot",
		Short:         "Daily dining hall menus, one question at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			cfg = loaded
			logx.Init(logx.LoggerOpts{
				Environment: core.ParseEnvironment(cfg.Environment),
				Level:       cfg.LogLevel,
				Output:      cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	chat := &cobra.Command{
		Use:   "chat",
		Short: "Browse menus from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()
			a.warm(ctx, cfg.Refresh.WarmOnStart)

			return console.NewSession(a.dispatcher, cmd.OutOrStdout()).Run(ctx, cmd.InOrStdin())
		},
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the menu flow and manual refresh over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()
			a.warm(ctx, cfg.Refresh.WarmOnStart)

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           httpapi.NewHandler(a.dispatcher, a.cache).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				logx.Info().Str("addr", cfg.HTTP.Addr).Msg("HTTP server listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logx.Info().Msg("Shutting down HTTP server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch today's menus once and print the outcome per hall",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			report := a.refresher.Refresh(ctx, a.cache.Today())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Menus for %s\n", report.Date)
			for _, o := range report.Outcomes {
				status := "ok"
				if !o.OK {
					status = "failed: " + o.Message
				}
				fmt.Fprintf(out, "  %-26s %s (%s)\n", o.Hall.DisplayName(), status, o.Duration.Round(time.Millisecond))
			}
			return nil
		},
	}

	root.AddCommand(chat, serve, refresh)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logx.Error().Err(err).Msg("snackerbot failed")
		stop()
		os.Exit(1)
	}
}
