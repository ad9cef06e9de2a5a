// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     traq
// Description: Bot websocket event stream with reconnect
// Author:      Mike Stoffels
// Created:     2026-10-04
// License:     MIT
// ============================================================================

package traq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/msto63/rexbot/pkg/core/logging"
)

// EventHandler receives decoded bot events. Methods may be called
// concurrently.
type EventHandler interface {
	MessageCreated(ctx context.Context, ev *MessageEvent)
	DirectMessageCreated(ctx context.Context, ev *MessageEvent)
	Joined(ctx context.Context, ev *ChannelEvent)
	Left(ctx context.Context, ev *ChannelEvent)
}

// StreamConfig configures the websocket event stream
type StreamConfig struct {
	URL                  string
	AccessToken          string
	ReconnectInterval    time.Duration
	MaxReconnectInterval time.Duration
	// MaxConcurrentEvents bounds in-flight handler calls
	MaxConcurrentEvents int
	Logger              *logging.Logger
}

// Stream reads events from the traQ bot websocket and dispatches them
type Stream struct {
	cfg       StreamConfig
	dialer    *websocket.Dialer
	handler   EventHandler
	logger    *logging.Logger
	connected atomic.Bool

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewStream creates a stream dispatching to handler
func NewStream(cfg StreamConfig, handler EventHandler) *Stream {
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = time.Second
	}
	if cfg.MaxReconnectInterval < cfg.ReconnectInterval {
		cfg.MaxReconnectInterval = cfg.ReconnectInterval
	}
	if cfg.MaxConcurrentEvents <= 0 {
		cfg.MaxConcurrentEvents = 16
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("traq-stream")
	}
	return &Stream{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		handler: handler,
		logger:  logger,
	}
}

// Connected reports whether the websocket is currently open
func (s *Stream) Connected() bool {
	return s.connected.Load()
}

// Run connects and processes events until ctx is done, reconnecting
// with exponential backoff. It returns nil on cancellation.
func (s *Stream) Run(ctx context.Context) error {
	backoff := s.cfg.ReconnectInterval
	for {
		established, err := s.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if established {
			backoff = s.cfg.ReconnectInterval
		}
		s.logger.Warn("websocket disconnected", "error", err, "retry_in", backoff.String())

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		backoff = min(backoff*2, s.cfg.MaxReconnectInterval)
	}
}

// session runs one connection until it fails or ctx ends. established
// reports whether the handshake succeeded.
func (s *Stream) session(ctx context.Context) (established bool, err error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.cfg.AccessToken)

	conn, resp, err := s.dialer.DialContext(ctx, s.cfg.URL, header)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("failed to connect (status %d): %w", resp.StatusCode, err)
		}
		return false, fmt.Errorf("failed to connect: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	s.connected.Store(true)
	s.logger.Info("websocket connected", "url", s.cfg.URL)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		stop()
		s.connected.Store(false)
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
		conn.Close()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrentEvents)

	var readErr error
	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			readErr = err
			break
		}
		if frame.Type == EventPing {
			continue
		}
		g.Go(func() error {
			s.dispatch(gctx, &frame)
			return nil
		})
	}
	// Handlers in flight finish before the next session starts
	_ = g.Wait()

	if ctx.Err() != nil {
		return true, ctx.Err()
	}
	return true, fmt.Errorf("read failed: %w", readErr)
}

func (s *Stream) dispatch(ctx context.Context, frame *Frame) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panicked", "type", frame.Type, "req_id", frame.ReqID, "panic", fmt.Sprint(r))
		}
	}()

	switch frame.Type {
	case EventMessageCreated, EventDirectMessageCreated:
		var ev MessageEvent
		if err := json.Unmarshal(frame.Body, &ev); err != nil {
			s.logger.Warn("failed to decode event", "type", frame.Type, "error", err)
			return
		}
		ev.ReqID = frame.ReqID
		if frame.Type == EventDirectMessageCreated {
			ev.Direct = true
			s.handler.DirectMessageCreated(ctx, &ev)
			return
		}
		s.handler.MessageCreated(ctx, &ev)
	case EventJoined, EventLeft:
		var ev ChannelEvent
		if err := json.Unmarshal(frame.Body, &ev); err != nil {
			s.logger.Warn("failed to decode event", "type", frame.Type, "error", err)
			return
		}
		ev.ReqID = frame.ReqID
		if frame.Type == EventJoined {
			s.handler.Joined(ctx, &ev)
			return
		}
		s.handler.Left(ctx, &ev)
	default:
		s.logger.Debug("ignoring event", "type", frame.Type)
	}
}

// Close closes the current connection, if any. Run reconnects unless
// its context is done.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
