package llm

import (
	"context"
	"time"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

// maxHistoryTurns bounds how much prior conversation is replayed per call.
const maxHistoryTurns = 10

// ChatBot adapts an LLMClient to the ChatBackend port: today's tasks go into
// the system prompt, history is truncated to the most recent turns.
type ChatBot struct {
	client domain.LLMClient
	now    func() time.Time
}

func NewChatBot(client domain.LLMClient) *ChatBot {
	return &ChatBot{
		client: client,
		now:    time.Now,
	}
}

func (b *ChatBot) Chat(
	ctx context.Context,
	message string,
	history []domain.Turn,
	contextTasks []*domain.Task,
) (string, error) {
	system := BuildChatSystemPrompt(contextTasks, b.now().Format("2006-01-02"))

	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	return b.client.Complete(ctx, system, message, history)
}
