package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

// ConversationStore is an in-memory implementation of
// domain.ConversationStore.
type ConversationStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*domain.ConversationSession
	order []uuid.UUID // insertion order
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		byID: make(map[uuid.UUID]*domain.ConversationSession),
	}
}

func cloneConversation(c *domain.ConversationSession) *domain.ConversationSession {
	out := *c
	out.Messages = slices.Clone(c.Messages)
	out.Metadata.TopicsDiscussed = slices.Clone(c.Metadata.TopicsDiscussed)
	return &out
}

func (s *ConversationStore) SaveConversation(_ context.Context, conv *domain.ConversationSession) (*domain.ConversationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[conv.ID]; !exists {
		s.order = append(s.order, conv.ID)
	}
	s.byID[conv.ID] = cloneConversation(conv)

	return cloneConversation(conv), nil
}

func (s *ConversationStore) FindActiveBySessionKey(_ context.Context, key domain.SessionKey) (*domain.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// newest first, in case older sessions for the key were never closed
	for i := len(s.order) - 1; i >= 0; i-- {
		c := s.byID[s.order[i]]
		if c.SessionKey == key && c.Status == domain.StatusActive {
			return cloneConversation(c), nil
		}
	}
	return nil, nil
}

func (s *ConversationStore) FindConversationByID(_ context.Context, id uuid.UUID) (*domain.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneConversation(c), nil
}

func (s *ConversationStore) FindRecentConversations(_ context.Context, limit int) ([]*domain.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.ConversationSession, 0, len(s.byID))
	for _, id := range s.order {
		all = append(all, s.byID[id])
	}
	slices.SortStableFunc(all, func(a, b *domain.ConversationSession) int {
		return b.LastMessageAt.Compare(a.LastMessageAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	out := make([]*domain.ConversationSession, 0, len(all))
	for _, c := range all {
		out = append(out, cloneConversation(c))
	}
	return out, nil
}
