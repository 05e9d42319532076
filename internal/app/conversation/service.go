package conversation

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/upotato200/caltodo-agent/internal/domain"
	"github.com/upotato200/caltodo-agent/internal/observability"
)

// Service folds completed chat exchanges into persisted conversation
// sessions with derived usage, topic and intent metadata.
type Service struct {
	store       domain.ConversationStore
	model       string
	temperature float64
	now         func() time.Time

	// one writer per session key within this process. Without it, two
	// concurrent turns for a key with no active session would both miss the
	// lookup and each create a session.
	mu    sync.Mutex
	locks map[domain.SessionKey]*sync.Mutex
}

func NewService(store domain.ConversationStore, model string, temperature float64) *Service {
	return &Service{
		store:       store,
		model:       model,
		temperature: temperature,
		now:         time.Now,
		locks:       make(map[domain.SessionKey]*sync.Mutex),
	}
}

func (s *Service) lockFor(key domain.SessionKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// RecordTurn appends one user/assistant exchange to the active session for
// key, creating the session on first use, and accumulates session metadata.
//
// Recording is pure bookkeeping: every failure is logged and swallowed here,
// never surfaced, so the reply the provider already produced reaches the
// caller regardless of persistence outcome.
func (s *Service) RecordTurn(
	ctx context.Context,
	key domain.SessionKey,
	userMessage, assistantResponse string,
	responseTime time.Duration,
) {
	log := observability.LoggerFromContext(ctx).With("session_key", key)

	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	conv, err := s.store.FindActiveBySessionKey(ctx, key)
	if err != nil {
		log.Error("failed to look up active session", "error", err)
		return
	}

	now := s.now()
	if conv == nil {
		conv = domain.NewConversationSession(key, now)
	}

	conv.Append(domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		Role:      domain.RoleUser,
		Content:   userMessage,
		Timestamp: now,
	})
	conv.Append(domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		Role:      domain.RoleAssistant,
		Content:   assistantResponse,
		Timestamp: now,
		Metadata: &domain.MessageMetadata{
			Model:          s.model,
			TokensUsed:     EstimateTokens(userMessage + assistantResponse),
			Temperature:    s.temperature,
			ResponseTimeMs: responseTime.Milliseconds(),
			SummaryType:    DetectSummaryType(userMessage),
		},
	})

	s.accumulate(&conv.Metadata, userMessage, responseTime)

	if _, err := s.store.SaveConversation(ctx, conv); err != nil {
		log.Error("failed to save conversation", "error", err)
		return
	}

	log.Info("conversation saved",
		"session_id", conv.ID,
		"total_messages", conv.Metadata.TotalMessages)
}

// accumulate applies one turn's worth of metadata. TotalMessages grows by
// exactly 2 per turn; token accounting counts only the user message here,
// the full-exchange estimate lives on the assistant message.
func (s *Service) accumulate(md *domain.SessionMetadata, userMessage string, responseTime time.Duration) {
	md.TotalMessages += 2
	md.TotalTokensUsed += EstimateTokens(userMessage)
	md.TotalDurationMs += responseTime.Milliseconds()

	for _, topic := range ExtractTopics(userMessage) {
		if !slices.Contains(md.TopicsDiscussed, topic) {
			md.TopicsDiscussed = append(md.TopicsDiscussed, topic)
		}
	}

	// sticky: the first qualifying turn decides the intent for the session
	if md.PrimaryIntent == "" {
		md.PrimaryIntent = DetectIntent(userMessage)
	}
}
