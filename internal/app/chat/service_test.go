package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upotato200/caltodo-agent/internal/app/chat"
	"github.com/upotato200/caltodo-agent/internal/app/conversation"
	"github.com/upotato200/caltodo-agent/internal/domain"
)

type stubBackend struct {
	reply string
	err   error
	calls int
}

func (s *stubBackend) Chat(_ context.Context, _ string, _ []domain.Turn, _ []*domain.Task) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubRecorder struct {
	key       domain.SessionKey
	user      string
	assistant string
	calls     int
}

func (s *stubRecorder) RecordTurn(_ context.Context, key domain.SessionKey, user, assistant string, _ time.Duration) {
	s.calls++
	s.key = key
	s.user = user
	s.assistant = assistant
}

// brokenStore fails every operation, simulating an unavailable session
// database.
type brokenStore struct{}

func (brokenStore) SaveConversation(context.Context, *domain.ConversationSession) (*domain.ConversationSession, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) FindActiveBySessionKey(context.Context, domain.SessionKey) (*domain.ConversationSession, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) FindConversationByID(context.Context, uuid.UUID) (*domain.ConversationSession, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) FindRecentConversations(context.Context, int) ([]*domain.ConversationSession, error) {
	return nil, errors.New("connection refused")
}

func TestChatReturnsReplyAndRecordsTurn(t *testing.T) {
	backend := &stubBackend{reply: "내일은 한가해요."}
	recorder := &stubRecorder{}
	svc := chat.NewService(backend, recorder)

	reply, err := svc.Chat(context.Background(), chat.Input{
		SessionKey: "session-x",
		Message:    "내일 일정?",
	})
	require.NoError(t, err)
	assert.Equal(t, "내일은 한가해요.", reply)

	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, domain.SessionKey("session-x"), recorder.key)
	assert.Equal(t, "내일 일정?", recorder.user)
	assert.Equal(t, "내일은 한가해요.", recorder.assistant)
}

func TestChatReturnsReplyWhenSessionPersistenceFails(t *testing.T) {
	// the provider answered; a broken session store must not take the
	// answer away from the caller
	backend := &stubBackend{reply: "회의는 3시입니다."}
	recorder := conversation.NewService(brokenStore{}, "test-model", 0.2)
	svc := chat.NewService(backend, recorder)

	reply, err := svc.Chat(context.Background(), chat.Input{
		SessionKey: "session-x",
		Message:    "회의 몇 시야?",
	})
	require.NoError(t, err)
	assert.Equal(t, "회의는 3시입니다.", reply)
}

func TestChatClassifiesBackendErrors(t *testing.T) {
	cases := []struct {
		errText string
		want    domain.ProviderErrorKind
	}{
		{"openai: insufficient_quota for project", domain.KindQuotaExceeded},
		{"http status 429 returned", domain.KindRateLimited},
		{"request timeout after 30s", domain.KindTimedOut},
		{"context deadline exceeded", domain.KindTimedOut},
		{"401 Unauthorized", domain.KindUnauthorized},
		{"connection reset by peer", domain.KindGeneric},
	}

	for _, tc := range cases {
		backend := &stubBackend{err: errors.New(tc.errText)}
		recorder := &stubRecorder{}
		svc := chat.NewService(backend, recorder)

		_, err := svc.Chat(context.Background(), chat.Input{SessionKey: "k", Message: "hi"})
		require.Error(t, err, tc.errText)

		var pe *domain.ProviderError
		require.ErrorAs(t, err, &pe, tc.errText)
		assert.Equal(t, tc.want, pe.Kind, tc.errText)

		// no turn is recorded for a failed backend call
		assert.Zero(t, recorder.calls, tc.errText)
	}
}

func TestFallbackBackendAlwaysAnswers(t *testing.T) {
	svc := chat.NewService(chat.NewFallback(), &stubRecorder{})

	reply, err := svc.Chat(context.Background(), chat.Input{SessionKey: "k", Message: "아무거나"})
	require.NoError(t, err)
	assert.Contains(t, reply, "AI 서비스가 비활성화")
}
