package traq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testChannel = "0190f0b4-0c7a-7d4e-9b1f-3a5c2e8d1f00"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		BaseURL:     server.URL + "/",
		AccessToken: "secret",
		BotID:       "bot-1",
		Timeout:     5 * time.Second,
	})
}

func TestNewClient(t *testing.T) {
	client := NewClient(DefaultConfig())
	if client.baseURL != "https://q.trap.jp/api/v3" {
		t.Errorf("unexpected base URL: %s", client.baseURL)
	}
	if client.httpClient.Timeout != 10*time.Second {
		t.Errorf("unexpected timeout: %v", client.httpClient.Timeout)
	}
}

func TestPostMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/channels/"+testChannel+"/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header: %q", got)
		}

		var req PostMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Content != "aaa" || !req.Embed {
			t.Errorf("unexpected request: %+v", req)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Message{ID: "m1", ChannelID: testChannel, Text: req.Content})
	})

	msg, err := client.PostMessage(context.Background(), testChannel, "aaa", true)
	if err != nil {
		t.Fatalf("PostMessage failed: %v", err)
	}
	if msg.ID != "m1" || msg.Text != "aaa" {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestPostMessageAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := client.PostMessage(context.Background(), testChannel, "x", false)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Body != "forbidden" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestInvalidChannelID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	if _, err := client.PostMessage(context.Background(), "general", "x", false); !errors.Is(err, ErrInvalidChannelID) {
		t.Errorf("PostMessage: expected ErrInvalidChannelID, got %v", err)
	}
	if err := client.JoinChannel(context.Background(), "general"); !errors.Is(err, ErrInvalidChannelID) {
		t.Errorf("JoinChannel: expected ErrInvalidChannelID, got %v", err)
	}
}

func TestJoinAndLeaveChannel(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var req botActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.ChannelID != testChannel {
			t.Errorf("unexpected channel id: %s", req.ChannelID)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.JoinChannel(context.Background(), testChannel); err != nil {
		t.Fatalf("JoinChannel failed: %v", err)
	}
	if err := client.LeaveChannel(context.Background(), testChannel); err != nil {
		t.Fatalf("LeaveChannel failed: %v", err)
	}

	want := []string{"/bots/bot-1/actions/join", "/bots/bot-1/actions/leave"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("unexpected paths: %v", paths)
	}
}

func TestBotActionWithoutBotID(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if err := client.JoinChannel(context.Background(), testChannel); err == nil {
		t.Error("expected error without bot id")
	}
}
