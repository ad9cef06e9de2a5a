package traq

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type recordingHandler struct {
	mu       sync.Mutex
	messages []*MessageEvent
	joined   []*ChannelEvent
	left     []*ChannelEvent
	done     chan struct{}
	want     int
}

func newRecordingHandler(want int) *recordingHandler {
	return &recordingHandler{done: make(chan struct{}), want: want}
}

func (h *recordingHandler) record(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn()
	if len(h.messages)+len(h.joined)+len(h.left) == h.want {
		close(h.done)
	}
}

func (h *recordingHandler) MessageCreated(_ context.Context, ev *MessageEvent) {
	h.record(func() { h.messages = append(h.messages, ev) })
}

func (h *recordingHandler) DirectMessageCreated(_ context.Context, ev *MessageEvent) {
	h.record(func() { h.messages = append(h.messages, ev) })
}

func (h *recordingHandler) Joined(_ context.Context, ev *ChannelEvent) {
	h.record(func() { h.joined = append(h.joined, ev) })
}

func (h *recordingHandler) Left(_ context.Context, ev *ChannelEvent) {
	h.record(func() { h.left = append(h.left, ev) })
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestStreamDispatchesEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	frames := []string{
		`{"type":"PING","reqId":"r0","body":{}}`,
		`{"type":"MESSAGE_CREATED","reqId":"r1","body":{"message":{"id":"m1","user":{"id":"u1","name":"alice","bot":false},"channelId":"c1","text":"/rand a"}}}`,
		`{"type":"DIRECT_MESSAGE_CREATED","reqId":"r2","body":{"message":{"id":"m2","user":{"id":"u2","name":"bob"},"channelId":"c2","text":"/rand b"}}}`,
		`{"type":"JOINED","reqId":"r3","body":{"channel":{"id":"c3","name":"gps"}}}`,
		`{"type":"LEFT","reqId":"r4","body":{"channel":{"id":"c4","name":"random"}}}`,
		`{"type":"STAMP_CREATED","reqId":"r5","body":{}}`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// Keep the connection open until the client goes away
		conn.ReadMessage()
	}))
	defer server.Close()

	handler := newRecordingHandler(4)
	stream := NewStream(StreamConfig{
		URL:               wsURL(server),
		AccessToken:       "token",
		ReconnectInterval: 10 * time.Millisecond,
	}, handler)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- stream.Run(ctx) }()

	select {
	case <-handler.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for events")
	}
	if !stream.Connected() {
		t.Error("expected stream to report connected")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if stream.Connected() {
		t.Error("expected stream to report disconnected")
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if len(handler.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(handler.messages))
	}
	var direct, public int
	for _, m := range handler.messages {
		if m.Direct {
			direct++
			if m.Message.ID != "m2" || m.ReqID != "r2" {
				t.Errorf("unexpected direct message: %+v", m)
			}
		} else {
			public++
			if m.Message.User.Name != "alice" || m.Message.Text != "/rand a" {
				t.Errorf("unexpected message: %+v", m)
			}
		}
	}
	if direct != 1 || public != 1 {
		t.Errorf("expected one direct and one public message, got %d/%d", direct, public)
	}
	if len(handler.joined) != 1 || handler.joined[0].Channel.ID != "c3" {
		t.Errorf("unexpected joined events: %+v", handler.joined)
	}
	if len(handler.left) != 1 || handler.left[0].Channel.ID != "c4" {
		t.Errorf("unexpected left events: %+v", handler.left)
	}
}

func TestStreamReconnects(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var mu sync.Mutex
	connects := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mu.Lock()
		connects++
		n := connects
		mu.Unlock()

		msg := `{"type":"MESSAGE_CREATED","reqId":"r","body":{"message":{"id":"m","channelId":"c"}}}`
		conn.WriteMessage(websocket.TextMessage, []byte(msg))
		if n == 1 {
			// Drop the first connection to force a reconnect
			conn.Close()
			return
		}
		defer conn.Close()
		conn.ReadMessage()
	}))
	defer server.Close()

	handler := newRecordingHandler(2)
	stream := NewStream(StreamConfig{
		URL:                  wsURL(server),
		ReconnectInterval:    10 * time.Millisecond,
		MaxReconnectInterval: 50 * time.Millisecond,
	}, handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stream.Run(ctx)

	select {
	case <-handler.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reconnect")
	}

	mu.Lock()
	defer mu.Unlock()
	if connects < 2 {
		t.Errorf("expected at least 2 connections, got %d", connects)
	}
}

func TestStreamRunReturnsOnCancelWhileDisconnected(t *testing.T) {
	stream := NewStream(StreamConfig{
		URL:               "ws://127.0.0.1:1/ws",
		ReconnectInterval: time.Hour,
	}, newRecordingHandler(1))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- stream.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if stream.Close() != nil {
		t.Error("Close on idle stream should succeed")
	}
}
