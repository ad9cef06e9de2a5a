package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/rexbot/internal/bot/store"
	"github.com/msto63/rexbot/internal/bot/traq"
	"github.com/msto63/rexbot/pkg/core/config"
	"github.com/msto63/rexbot/pkg/core/health"
)

const testChannel = "0190f0b4-0c7a-7d4e-9b1f-3a5c2e8d1f00"

func TestBotRepliesToCommand(t *testing.T) {
	posted := make(chan traq.PostMessageRequest, 1)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/channels/"+testChannel+"/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req traq.PostMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		posted <- req
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer api.Close()

	upgrader := websocket.Upgrader{}
	ws := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		frame := `{"type":"MESSAGE_CREATED","reqId":"r1","body":{"message":{"id":"m1","user":{"id":"u1","name":"alice"},"channelId":"` + testChannel + `","text":"/rand ab{2}"}}}`
		conn.WriteMessage(websocket.TextMessage, []byte(frame))
		conn.ReadMessage()
	}))
	defer ws.Close()

	st, err := store.New(store.Config{Path: filepath.Join(t.TempDir(), "bot.db")})
	require.NoError(t, err)
	defer st.Close()

	cfg := config.Default()
	cfg.Bot.AccessToken = "token"
	cfg.Bot.BotID = "bot"
	cfg.Bot.WSURL = "ws" + strings.TrimPrefix(ws.URL, "http")
	cfg.Bot.APIURL = api.URL
	cfg.Health.Enabled = false

	b := New(cfg, st)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	select {
	case req := <-posted:
		assert.Equal(t, "abb", req.Content)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reply")
	}

	report := b.Health().Check(context.Background())
	assert.Equal(t, health.StatusHealthy, report.Status)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not stop")
	}

	report = b.Health().Check(context.Background())
	assert.Equal(t, health.StatusDegraded, report.Status)
}

func TestBotHealthEndpoint(t *testing.T) {
	st, err := store.New(store.Config{Path: filepath.Join(t.TempDir(), "bot.db")})
	require.NoError(t, err)
	defer st.Close()

	cfg := config.Default()
	cfg.Bot.WSURL = "ws://127.0.0.1:1/ws"
	cfg.Bot.ReconnectInterval.Duration = time.Hour

	server := httptest.NewServer(New(cfg, st).Health().Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Stream never connected: degraded but still served as 200
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(health.StatusDegraded), body["status"])
}
