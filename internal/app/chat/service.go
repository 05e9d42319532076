package chat

import (
	"context"
	"time"

	"github.com/upotato200/caltodo-agent/internal/domain"
	"github.com/upotato200/caltodo-agent/internal/observability"
)

type Input struct {
	SessionKey   domain.SessionKey
	Message      string
	History      []domain.Turn
	ContextTasks []*domain.Task
}

// Recorder is the conversation bookkeeping hook. It must swallow its own
// failures; Chat calls it fire-and-forget once the backend has answered.
type Recorder interface {
	RecordTurn(ctx context.Context, key domain.SessionKey, userMessage, assistantResponse string, responseTime time.Duration)
}

// Service runs one chat turn: backend first, bookkeeping second.
type Service struct {
	backend  domain.ChatBackend
	recorder Recorder
	now      func() time.Time
}

func NewService(backend domain.ChatBackend, recorder Recorder) *Service {
	return &Service{
		backend:  backend,
		recorder: recorder,
		now:      time.Now,
	}
}

// Chat returns the backend's reply, or a *domain.ProviderError classifying
// the failure. Once the backend has succeeded the reply is returned
// unconditionally: session recording happens after, and its outcome cannot
// affect the response.
func (s *Service) Chat(ctx context.Context, in Input) (string, error) {
	log := observability.LoggerFromContext(ctx).With("session_key", in.SessionKey)
	log.Info("processing chat message")

	start := s.now()
	reply, err := s.backend.Chat(ctx, in.Message, in.History, in.ContextTasks)
	if err != nil {
		classified := domain.ClassifyProviderError(err)
		log.Error("chat backend failed",
			"kind", domain.ProviderKind(classified), "error", err)
		return "", classified
	}
	elapsed := s.now().Sub(start)

	if s.recorder != nil {
		s.recorder.RecordTurn(ctx, in.SessionKey, in.Message, reply, elapsed)
	}

	log.Info("chat response generated", "elapsed_ms", elapsed.Milliseconds())
	return reply, nil
}
