// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     bot
// Description: Bot process running event stream and health endpoint
// Author:      Mike Stoffels
// Created:     2026-10-05
// License:     MIT
// ============================================================================

// Package bot assembles the traQ bot: pattern engine, command handler,
// websocket event stream and the health endpoint, run together until the
// context ends.
package bot

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	mdwerror "github.com/msto63/rexbot/foundation/core/error"
	"github.com/msto63/rexbot/internal/bot/handler"
	"github.com/msto63/rexbot/internal/bot/store"
	"github.com/msto63/rexbot/internal/bot/traq"
	"github.com/msto63/rexbot/pkg/core/config"
	"github.com/msto63/rexbot/pkg/core/health"
	"github.com/msto63/rexbot/pkg/core/logging"
	"github.com/msto63/rexbot/pkg/core/version"
	"github.com/msto63/rexbot/pkg/pattern"
)

// Bot is a running bot instance
type Bot struct {
	cfg     *config.Config
	engine  *pattern.Engine
	stream  *traq.Stream
	handler *handler.Handler
	health  *health.Registry
	logger  *logging.Logger
}

// New assembles a bot from configuration. The store stays owned by the
// caller.
func New(cfg *config.Config, st store.PatternStore) *Bot {
	logger := logging.New("bot")

	engine := pattern.NewEngine(pattern.Options{
		Limits: pattern.Limits{
			MaxPatternLength: cfg.Pattern.MaxPatternLength,
			MaxDepth:         cfg.Pattern.MaxDepth,
			MaxOutputLength:  cfg.Pattern.MaxOutputLength,
		},
		CacheSize: cfg.Pattern.CacheSize,
		CacheTTL:  cfg.Pattern.CacheTTL.Duration,
		Logger:    logging.New("pattern"),
	})

	client := traq.NewClient(traq.Config{
		BaseURL:     cfg.Bot.APIURL,
		AccessToken: cfg.Bot.AccessToken,
		BotID:       cfg.Bot.BotID,
		Timeout:     cfg.Bot.RequestTimeout.Duration,
	})

	hcfg := handler.DefaultConfig()
	hcfg.Prefix = cfg.Bot.CommandPrefix
	hcfg.BotUserID = cfg.Bot.BotUserID
	hcfg.MaxReplyLength = cfg.Bot.MaxReplyLength
	hcfg.Locale = cfg.Bot.Locale
	hcfg.Logger = logging.New("handler")
	h := handler.New(hcfg, engine, st, client)

	stream := traq.NewStream(traq.StreamConfig{
		URL:                  cfg.Bot.WSURL,
		AccessToken:          cfg.Bot.AccessToken,
		ReconnectInterval:    cfg.Bot.ReconnectInterval.Duration,
		MaxReconnectInterval: cfg.Bot.MaxReconnectInterval.Duration,
		Logger:               logging.New("traq-stream"),
	}, h)

	registry := health.NewRegistry(cfg.General.Name, version.Bot)
	registry.Register("store", health.PingCheck(st))
	registry.Register("traq-stream", health.ConnectionCheck(stream.Connected))

	return &Bot{
		cfg:     cfg,
		engine:  engine,
		stream:  stream,
		handler: h,
		health:  registry,
		logger:  logger,
	}
}

// Health returns the health registry
func (b *Bot) Health() *health.Registry {
	return b.health
}

// Run blocks until ctx is done or the health server fails
func (b *Bot) Run(ctx context.Context) error {
	defer b.engine.Close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return b.stream.Run(ctx)
	})

	if b.cfg.Health.Enabled {
		ln, err := net.Listen("tcp", b.cfg.Health.Address())
		if err != nil {
			return mdwerror.Wrap(err, "failed to listen for health endpoint").
				WithCode(mdwerror.CodeServiceInitialization).
				WithOperation("bot.Run").
				WithDetail("address", b.cfg.Health.Address())
		}
		g.Go(func() error {
			return b.serveHealth(ctx, ln)
		})
	}

	b.logger.Info("Bot started",
		"name", b.cfg.General.Name,
		"version", version.Bot,
		"prefix", b.cfg.Bot.CommandPrefix,
		"health", b.cfg.Health.Enabled,
	)

	err := g.Wait()
	b.logger.Info("Bot stopped")
	return err
}

func (b *Bot) serveHealth(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           b.health.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	b.logger.Info("Health endpoint listening", "address", ln.Addr().String())
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return mdwerror.Wrap(err, "health endpoint failed").
			WithCode(mdwerror.CodeNetworkError).
			WithOperation("bot.serveHealth")
	}
	return nil
}
