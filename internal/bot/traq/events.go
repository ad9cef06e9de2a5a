package traq

import (
	"encoding/json"
	"time"
)

// Event types sent by the traQ bot websocket
const (
	EventPing                 = "PING"
	EventJoined               = "JOINED"
	EventLeft                 = "LEFT"
	EventMessageCreated       = "MESSAGE_CREATED"
	EventDirectMessageCreated = "DIRECT_MESSAGE_CREATED"
)

// Frame is one websocket event frame
type Frame struct {
	Type  string          `json:"type"`
	ReqID string          `json:"reqId"`
	Body  json.RawMessage `json:"body"`
}

// User is the author of a message
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	IconID      string `json:"iconId"`
	Bot         bool   `json:"bot"`
}

// Embedded is a mention or link embedded in a message
type Embedded struct {
	Raw  string `json:"raw"`
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Message is a posted chat message
type Message struct {
	ID        string     `json:"id"`
	User      User       `json:"user"`
	ChannelID string     `json:"channelId"`
	Text      string     `json:"text"`
	PlainText string     `json:"plainText"`
	Embedded  []Embedded `json:"embedded"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Channel is the subject of JOINED and LEFT
type Channel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	ParentID  string    `json:"parentId"`
	Creator   User      `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MessageEvent is the body of MESSAGE_CREATED and DIRECT_MESSAGE_CREATED
type MessageEvent struct {
	EventTime time.Time `json:"eventTime"`
	Message   Message   `json:"message"`
	// Direct is set for DIRECT_MESSAGE_CREATED
	Direct bool `json:"-"`
	// ReqID of the frame, for log correlation
	ReqID string `json:"-"`
}

// ChannelEvent is the body of JOINED and LEFT
type ChannelEvent struct {
	EventTime time.Time `json:"eventTime"`
	Channel   Channel   `json:"channel"`
	ReqID     string    `json:"-"`
}
