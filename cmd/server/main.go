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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	router "github.com/dkeye/botsocket/internal/adapters/http"
	"github.com/dkeye/botsocket/internal/config"
	"github.com/dkeye/botsocket/pkg/domain"
	"github.com/dkeye/botsocket/pkg/socketbot"
)

func NewServerCommand() *cobra.Command {
	var (
		configFile string
		env        string
	)

	cmd := &cobra.Command{
		Use:   "botsocket",
		Short: "Echo bot served over WebSocket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configFile == "" {
				configFile = config.FileFor(env)
			}
			return run(cmd.Context(), configFile)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default config/config.<env>.yaml)")
	cmd.Flags().StringVarP(&env, "env", "e", "", "config environment, falls back to CONFIG_ENV then dev")
	return cmd
}

func run(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	r := router.SetupRouter(cfg)
	bot, err := socketbot.New(socketbot.Settings{
		ID:                cfg.BotID,
		Server:            r,
		Path:              cfg.Path,
		ReadLimit:         cfg.ReadLimit,
		PingPeriod:        cfg.PingPeriod,
		SendBuffer:        cfg.SendBuffer,
		RateLimit:         socketbot.RateLimit{Limit: cfg.RateLimit.Limit, Interval: cfg.RateLimit.Interval},
		KickSlowConsumers: cfg.KickSlowConsumers,
	})
	if err != nil {
		return err
	}
	router.RegisterAPI(r, bot)

	bot.OnUpdate(func(b *socketbot.Bot, u domain.Update) {
		if u.Message.Text == "" {
			return
		}
		if _, err := b.Reply(ctx, u, u.Message.Text); err != nil {
			log.Error().Err(err).Str("user", u.Sender.ID).Msg("reply failed")
		}
	})
	bot.OnError(func(b *socketbot.Bot, err error) {
		log.Warn().Err(err).Str("bot", b.ID()).Msg("bad inbound message")
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	log.Info().Str("addr", addr).Str("path", cfg.Path).Msg("botsocket server started")
	return serve(ctx, srv, bot.Close)
}

// serve runs srv until ctx is done or the listener fails. onShutdown runs
// before the server drains in both cases.
func serve(ctx context.Context, srv *http.Server, onShutdown func()) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			serveErr = fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
	}

	onShutdown()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if serveErr == nil {
		log.Info().Msg("Server exited gracefully")
	}
	return serveErr
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := NewServerCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
