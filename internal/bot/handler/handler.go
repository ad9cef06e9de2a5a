// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     handler
// Description: Executes chat commands against engine, store and traQ API
// Author:      Mike Stoffels
// Created:     2026-10-05
// License:     MIT
// ============================================================================

// Package handler executes bot commands. It receives decoded traQ events,
// tokenizes the message text, runs the command and posts the reply into
// the channel the message came from. No failure is fatal: every error is
// turned into a reply.
package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/rexbot/foundation/core/error"
	"github.com/msto63/rexbot/foundation/core/i18n"
	"github.com/msto63/rexbot/foundation/utils/stringx"
	"github.com/msto63/rexbot/internal/bot/command"
	"github.com/msto63/rexbot/internal/bot/store"
	"github.com/msto63/rexbot/internal/bot/traq"
	"github.com/msto63/rexbot/pkg/core/logging"
	"github.com/msto63/rexbot/pkg/pattern"
	"github.com/msto63/rexbot/pkg/pattern/generator"
)

// API is the part of the traQ client the handler needs
type API interface {
	PostMessage(ctx context.Context, channelID, content string, embed bool) (*traq.Message, error)
	JoinChannel(ctx context.Context, channelID string) error
	LeaveChannel(ctx context.Context, channelID string) error
}

// errNotOwner is returned when removing a pattern saved by someone else
var errNotOwner = errors.New("pattern belongs to another user")

// Config configures a Handler
type Config struct {
	Prefix    string
	BotUserID string
	// MaxReplyLength in grapheme clusters, 0 = unlimited
	MaxReplyLength int
	// ListLimit bounds the number of keys shown by list
	ListLimit int
	// Timeout per command, 0 = none
	Timeout time.Duration
	Logger  *logging.Logger
	// Source for generation, nil = default source
	Source generator.Source
	// Locale of the replies, falls back to DefaultLocale when unknown
	Locale string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Prefix:         "/",
		MaxReplyLength: 10000,
		ListLimit:      50,
		Timeout:        30 * time.Second,
		Locale:         DefaultLocale,
	}
}

// Handler executes commands. It implements traq.EventHandler.
type Handler struct {
	cfg    Config
	parser *command.Parser
	engine *pattern.Engine
	store  store.PatternStore
	api    API
	msgs   *i18n.Manager
	logger *logging.Logger
}

// New creates a handler. It panics if the embedded reply catalog is broken.
func New(cfg Config, engine *pattern.Engine, st store.PatternStore, api API) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("handler")
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = DefaultConfig().ListLimit
	}

	msgs, err := catalog()
	if err != nil {
		panic("handler: reply catalog: " + err.Error())
	}
	if cfg.Locale != "" && cfg.Locale != msgs.DefaultLocale() {
		if view, err := msgs.WithLocale(cfg.Locale); err == nil {
			msgs = view
		} else {
			logger.Warn("Unknown reply locale, using default", "locale", cfg.Locale, "default", msgs.DefaultLocale())
		}
	}

	return &Handler{
		msgs:   msgs,
		cfg:    cfg,
		parser: command.NewParser(cfg.Prefix, cfg.BotUserID),
		engine: engine,
		store:  st,
		api:    api,
		logger: logger,
	}
}

// MessageCreated handles a message in a channel
func (h *Handler) MessageCreated(ctx context.Context, ev *traq.MessageEvent) {
	h.handleMessage(ctx, &ev.Message)
}

// DirectMessageCreated handles a direct message
func (h *Handler) DirectMessageCreated(ctx context.Context, ev *traq.MessageEvent) {
	h.handleMessage(ctx, &ev.Message)
}

// Joined logs that the bot joined a channel
func (h *Handler) Joined(_ context.Context, ev *traq.ChannelEvent) {
	h.logger.Info("Joined channel", "channel_id", ev.Channel.ID, "channel", ev.Channel.Path)
}

// Left logs that the bot left a channel
func (h *Handler) Left(_ context.Context, ev *traq.ChannelEvent) {
	h.logger.Info("Left channel", "channel_id", ev.Channel.ID, "channel", ev.Channel.Path)
}

func (h *Handler) handleMessage(ctx context.Context, msg *traq.Message) {
	if msg.User.Bot {
		return
	}

	cmd, err := h.parser.Parse(msg.Text)
	if errors.Is(err, command.ErrNotCommand) {
		return
	}

	logger := h.logger.With(
		"request_id", uuid.NewString(),
		"channel_id", msg.ChannelID,
		"user", msg.User.Name,
	)

	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
		defer cancel()
	}

	var reply string
	if err != nil {
		logger.Info("Command rejected", "error", err)
		reply = h.describe(err)
	} else {
		logger.Info("Command received", "command", cmd.Kind.String(), "key", cmd.Key)
		reply, err = h.Execute(ctx, cmd, msg)
		if err != nil {
			logger.Warn("Command failed", "command", cmd.Kind.String(), "error", err)
			reply = h.describe(err)
		}
	}

	if reply == "" {
		return
	}
	if _, err := h.api.PostMessage(ctx, msg.ChannelID, h.truncate(reply), false); err != nil {
		logger.Error("Failed to post reply", "error", err)
	}
}

// Execute runs cmd for msg and returns the reply text
func (h *Handler) Execute(ctx context.Context, cmd command.Command, msg *traq.Message) (string, error) {
	switch cmd.Kind {
	case command.KindGenerate:
		return h.generate(cmd.Pattern)
	case command.KindSave:
		return h.save(ctx, cmd, msg)
	case command.KindCall:
		return h.call(ctx, cmd.Key)
	case command.KindRemove:
		return h.remove(ctx, cmd.Key, msg.User.ID)
	case command.KindList:
		return h.list(ctx)
	case command.KindJoin:
		if err := h.api.JoinChannel(ctx, msg.ChannelID); err != nil {
			return "", mdwerror.Wrap(err, "join failed").
				WithCode(mdwerror.CodeExternalServiceError).
				WithOperation("handler.Join")
		}
		return "", nil
	case command.KindLeave:
		if err := h.api.LeaveChannel(ctx, msg.ChannelID); err != nil {
			return "", mdwerror.Wrap(err, "leave failed").
				WithCode(mdwerror.CodeExternalServiceError).
				WithOperation("handler.Leave")
		}
		return "", nil
	case command.KindHelp:
		return h.help(), nil
	default:
		return "", command.ErrUnknownCommand
	}
}

func (h *Handler) generate(source string) (string, error) {
	out, err := h.engine.Generate(source, h.cfg.Source)
	if err != nil {
		return "", err
	}
	if out == "" {
		return h.msgs.T("reply.empty_output"), nil
	}
	return out, nil
}

func (h *Handler) save(ctx context.Context, cmd command.Command, msg *traq.Message) (string, error) {
	if _, err := h.engine.Compile(cmd.Pattern); err != nil {
		return "", err
	}

	rec := &store.Record{
		Key:      cmd.Key,
		Pattern:  cmd.Pattern,
		UserID:   msg.User.ID,
		UserName: msg.User.Name,
	}
	if err := h.store.Save(ctx, rec); err != nil {
		return "", err
	}
	return h.msgs.T("reply.saved", vars{"Key": cmd.Key}), nil
}

func (h *Handler) call(ctx context.Context, key string) (string, error) {
	rec, err := h.store.Get(ctx, key)
	if err != nil {
		return "", err
	}

	out, err := h.generate(rec.Pattern)
	if err != nil {
		return "", err
	}
	if err := h.store.RecordUse(ctx, key); err != nil {
		h.logger.Warn("Failed to record use", "key", key, "error", err)
	}
	return out, nil
}

func (h *Handler) remove(ctx context.Context, key, userID string) (string, error) {
	removed, err := h.store.Remove(ctx, key, userID)
	if err != nil {
		return "", err
	}
	if removed {
		return h.msgs.T("reply.removed", vars{"Key": key}), nil
	}

	// Nothing deleted: either unknown or owned by someone else
	if _, err := h.store.Get(ctx, key); err != nil {
		return "", err
	}
	return "", mdwerror.Wrap(errNotOwner, "remove rejected").
		WithCode(mdwerror.CodeForbidden).
		WithOperation("handler.Remove").
		WithDetail("key", key)
}

func (h *Handler) list(ctx context.Context) (string, error) {
	recs, err := h.store.List(ctx, h.cfg.ListLimit)
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return h.msgs.T("reply.list_empty"), nil
	}

	var b strings.Builder
	b.WriteString(h.msgs.T("reply.list_header"))
	b.WriteByte('\n')
	for _, r := range recs {
		b.WriteString("- `")
		b.WriteString(r.Key)
		b.WriteString("`: `")
		b.WriteString(r.Pattern)
		b.WriteString("` (@")
		b.WriteString(r.UserName)
		b.WriteString(")\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// truncate shortens s to the reply limit in grapheme clusters
func (h *Handler) truncate(s string) string {
	if h.cfg.MaxReplyLength <= 0 {
		return s
	}
	return stringx.Truncate(s, h.cfg.MaxReplyLength, "…")
}
