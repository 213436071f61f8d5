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
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	router "github.com/dkeye/Huddle/internal/adapters/http"
	"github.com/dkeye/Huddle/internal/adapters/rtc"
	signaling "github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/dkeye/Huddle/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "huddle",
		Short:         "Huddle signaling and media coordination server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				log.Error().Err(err).Msg("failed to load config")
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	flags := cmd.Flags()
	flags.Int("port", 8080, "HTTP listen port")
	flags.String("mode", "release", "gin mode: release or debug")
	flags.String("log-level", "info", "zerolog level")
	flags.String("config-env", "", "selects config/config.<env>.yaml, overrides CONFIG_ENV")
	return cmd
}

func setupLogger(level string) zerolog.Level {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return lvl
}

func engineOptions(cfg *config.Config, level zerolog.Level) rtc.Options {
	return rtc.Options{
		ListenIP:        cfg.ListenIP,
		AnnouncedIP:     cfg.AnnouncedIP,
		MinPort:         cfg.RTCMinPort,
		MaxPort:         cfg.RTCMaxPort,
		ICETCPPort:      cfg.ICETCPPort,
		IncludeLoopback: cfg.IncludeLoopback,
		LogLevel:        level,
		Codecs: lo.Map(cfg.Codecs, func(c config.Codec, _ int) rtc.Codec {
			return rtc.Codec{
				Kind:        domain.MediaKind(c.Kind),
				MimeType:    c.MimeType,
				ClockRate:   c.ClockRate,
				Channels:    c.Channels,
				PayloadType: c.PayloadType,
				FmtpLine:    c.Fmtp,
			}
		}),
	}
}

func run(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := setupLogger(cfg.LogLevel)

	engine := rtc.NewEngine(engineOptions(cfg, level))
	if err := engine.Init(ctx); err != nil {
		log.Error().Err(err).Msg("media engine init failed")
		return fmt.Errorf("media engine init: %w", err)
	}

	media := app.NewMediaFacade(engine, cfg.InitialOutgoingBitrate)
	reg := app.NewRegistry(media)
	rooms := app.NewRoomIndex(cfg.RoomCapacity)
	hub := signaling.NewHub(rooms, app.SimplePolicy{})
	sessions := orch.NewSessions()

	o := &orch.Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Media:    media,
		Signal:   hub,
		Sessions: sessions,
		CapsRetry: app.RetryPolicy{
			MaxRetries: cfg.CapsRetryAttempts,
			BaseDelay:  cfg.CapsRetryBaseDelay,
			Retryable:  func(err error) bool { return errors.Is(err, domain.ErrEngineUnavailable) },
		},
		JoinLimiter:        app.NewRoomRateLimiter(cfg.JoinRateLimit, cfg.JoinRateInterval),
		NegotiationTimeout: cfg.NegotiationTimeout,
	}

	ctrl := signaling.NewSignalWSController(o, hub, cfg.ReadLimit, cfg.PingPeriod)
	api := &router.API{
		Registry:    reg,
		Rooms:       rooms,
		Sessions:    sessions,
		Engine:      engine,
		EngineStats: func() any { return engine.Stats() },
	}

	r := router.SetupRouter(ctx, cfg, ctrl, api)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Huddle server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("server error")
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	for _, sid := range sessions.IDs() {
		o.Disconnect(sid)
	}
	if err := engine.Close(); err != nil {
		log.Warn().Err(err).Msg("media engine close")
	}
	log.Info().Msg("Server exited gracefully")
	return serveErr
}
