// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     traq
// Description: REST client and websocket event stream of the traQ bot API
// Author:      Mike Stoffels
// Created:     2026-10-04
// License:     MIT
// ============================================================================

package traq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidChannelID is returned for channel ids that are not UUIDs
var ErrInvalidChannelID = errors.New("invalid channel id")

// APIError is a non-2xx response of the traQ API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("traQ API returned status %d: %s", e.StatusCode, e.Body)
}

// Client is the traQ REST API client
type Client struct {
	baseURL    string
	token      string
	botID      string
	httpClient *http.Client
}

// Config holds client configuration
type Config struct {
	BaseURL     string
	AccessToken string
	BotID       string
	Timeout     time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://q.trap.jp/api/v3",
		Timeout: 10 * time.Second,
	}
}

// NewClient creates a new traQ client
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AccessToken,
		botID:   cfg.BotID,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// PostMessageRequest is the body of POST /channels/{id}/messages
type PostMessageRequest struct {
	Content string `json:"content"`
	Embed   bool   `json:"embed"`
}

// botActionRequest is the body of POST /bots/{id}/actions/join|leave
type botActionRequest struct {
	ChannelID string `json:"channelId"`
}

// PostMessage posts content to a channel. With embed set, mentions in
// content are expanded by the server.
func (c *Client) PostMessage(ctx context.Context, channelID, content string, embed bool) (*Message, error) {
	if err := validateChannelID(channelID); err != nil {
		return nil, err
	}

	var msg Message
	err := c.do(ctx, http.MethodPost, "/channels/"+channelID+"/messages",
		PostMessageRequest{Content: content, Embed: embed}, &msg)
	if err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	return &msg, nil
}

// JoinChannel lets the bot join a channel
func (c *Client) JoinChannel(ctx context.Context, channelID string) error {
	return c.botAction(ctx, "join", channelID)
}

// LeaveChannel lets the bot leave a channel
func (c *Client) LeaveChannel(ctx context.Context, channelID string) error {
	return c.botAction(ctx, "leave", channelID)
}

func (c *Client) botAction(ctx context.Context, action, channelID string) error {
	if err := validateChannelID(channelID); err != nil {
		return err
	}
	if c.botID == "" {
		return fmt.Errorf("failed to %s channel: bot id not configured", action)
	}

	err := c.do(ctx, http.MethodPost, "/bots/"+c.botID+"/actions/"+action,
		botActionRequest{ChannelID: channelID}, nil)
	if err != nil {
		return fmt.Errorf("failed to %s channel: %w", action, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func validateChannelID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidChannelID, id)
	}
	return nil
}
