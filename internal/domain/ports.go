package domain

import (
	"context"

	"github.com/google/uuid"
)

// Turn is one half of a prior exchange, passed to the model as history.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// LLMClient defines how the core application talks to a language model service.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, history []Turn) (string, error)
}

// TaskStore defines task persistence.
type TaskStore interface {
	// SaveTask persists the task, assigning an ID when absent, and returns
	// the stored record.
	SaveTask(ctx context.Context, task *Task) (*Task, error)
	FindTaskByID(ctx context.Context, id TaskID) (*Task, error)
	FindTasksByDate(ctx context.Context, date string) ([]*Task, error)
	FindTasksByDateRange(ctx context.Context, from, to string) ([]*Task, error)
	DeleteTask(ctx context.Context, id TaskID) error
}

// ConversationStore defines conversation session persistence.
type ConversationStore interface {
	SaveConversation(ctx context.Context, conv *ConversationSession) (*ConversationSession, error)
	// FindActiveBySessionKey returns (nil, nil) when no active session exists
	// for the key.
	FindActiveBySessionKey(ctx context.Context, key SessionKey) (*ConversationSession, error)
	FindConversationByID(ctx context.Context, id uuid.UUID) (*ConversationSession, error)
	FindRecentConversations(ctx context.Context, limit int) ([]*ConversationSession, error)
}

// ChatBackend produces the user-visible reply for a chat message.
// Exactly one implementation is wired at startup.
type ChatBackend interface {
	Chat(ctx context.Context, message string, history []Turn, contextTasks []*Task) (string, error)
}

// Summarizer is one summary strategy over a date-scoped task set.
// Implementations never fail: the model-backed strategy degrades to a
// template fallback instead of returning an error.
type Summarizer interface {
	Summarize(ctx context.Context, cmd SummarizeCommand) SummaryResult
}
