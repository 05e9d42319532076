package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusArchived  SessionStatus = "archived"
)

// Message is one turn half inside a conversation. Immutable once appended.
// Metadata is only present on assistant messages.
type Message struct {
	ID        MessageID        `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Timestamp Timestamp        `json:"timestamp"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// MessageMetadata describes how an assistant message was produced.
type MessageMetadata struct {
	Model          string      `json:"model"`
	TokensUsed     int         `json:"tokens_used"`
	Temperature    float64     `json:"temperature"`
	ResponseTimeMs int64       `json:"response_time_ms"`
	SummaryType    SummaryType `json:"summary_type"`
}

// SessionMetadata accumulates monotonically over the session's lifetime.
// PrimaryIntent is sticky: set once from the first qualifying turn, never
// overwritten. TopicsDiscussed has set semantics (no duplicates).
type SessionMetadata struct {
	TotalMessages   int      `json:"total_messages"`
	TotalTokensUsed int      `json:"total_tokens_used"`
	TotalDurationMs int64    `json:"total_duration_ms"`
	TopicsDiscussed []string `json:"topics_discussed"`
	PrimaryIntent   string   `json:"primary_intent,omitempty"`
}

// ConversationSession is the persisted record of a multi-turn chat.
// At most one session per SessionKey is active at a time.
type ConversationSession struct {
	ID            uuid.UUID       `json:"id"`
	SessionKey    SessionKey      `json:"session_key"`
	StartedAt     Timestamp       `json:"started_at"`
	LastMessageAt Timestamp       `json:"last_message_at"`
	Status        SessionStatus   `json:"status"`
	Messages      []Message       `json:"messages"`
	Metadata      SessionMetadata `json:"metadata"`
}

// NewConversationSession creates an empty active session for a key.
func NewConversationSession(key SessionKey, now time.Time) *ConversationSession {
	return &ConversationSession{
		ID:            uuid.New(),
		SessionKey:    key,
		StartedAt:     now,
		LastMessageAt: now,
		Status:        StatusActive,
		Messages:      []Message{},
	}
}

// Append adds a message and refreshes LastMessageAt.
func (c *ConversationSession) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.LastMessageAt = msg.Timestamp
}

func (c *ConversationSession) Complete() {
	c.Status = StatusCompleted
}

func (c *ConversationSession) Archive() {
	c.Status = StatusArchived
}
