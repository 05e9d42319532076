package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

// ErrActiveConflict is returned when another session already holds the
// active claim for a key.
var ErrActiveConflict = errors.New("another session is active for this key")

const (
	convKeyPrefix   = "conv:"
	activeKeyPrefix = "conv:active:"
	recentIndexKey  = "conv:by_last_message"
)

// ConversationStore persists sessions as TTL'd JSON documents in Redis.
//
// The active session per key is a pointer key claimed with SETNX: the first
// session to claim it wins, so at most one session can be active per key
// across processes.
type ConversationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewConversationStore(client *redis.Client, ttl time.Duration) *ConversationStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ConversationStore{client: client, ttl: ttl}
}

func convKey(id uuid.UUID) string {
	return convKeyPrefix + id.String()
}

func activeKey(key domain.SessionKey) string {
	return activeKeyPrefix + string(key)
}

func (s *ConversationStore) SaveConversation(ctx context.Context, conv *domain.ConversationSession) (*domain.ConversationSession, error) {
	val, err := json.Marshal(conv)
	if err != nil {
		return nil, fmt.Errorf("encoding conversation: %w", err)
	}

	if conv.Status == domain.StatusActive {
		ok, err := s.client.SetNX(ctx, activeKey(conv.SessionKey), conv.ID.String(), s.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("claiming active key: %w", err)
		}
		if !ok {
			holder, err := s.client.Get(ctx, activeKey(conv.SessionKey)).Result()
			if err != nil && err != redis.Nil {
				return nil, fmt.Errorf("checking active key: %w", err)
			}
			if holder != conv.ID.String() {
				return nil, ErrActiveConflict
			}
			// our own claim: refresh its TTL
			_ = s.client.Expire(ctx, activeKey(conv.SessionKey), s.ttl).Err()
		}
	} else {
		// release the claim if this session held it
		holder, err := s.client.Get(ctx, activeKey(conv.SessionKey)).Result()
		if err == nil && holder == conv.ID.String() {
			_ = s.client.Del(ctx, activeKey(conv.SessionKey)).Err()
		}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, convKey(conv.ID), val, s.ttl)
		pipe.ZAdd(ctx, recentIndexKey, redis.Z{
			Score:  float64(conv.LastMessageAt.UnixMilli()),
			Member: conv.ID.String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving conversation: %w", err)
	}

	return conv, nil
}

func (s *ConversationStore) FindActiveBySessionKey(ctx context.Context, key domain.SessionKey) (*domain.ConversationSession, error) {
	idStr, err := s.client.Get(ctx, activeKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading active key: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing active session id: %w", err)
	}

	conv, err := s.FindConversationByID(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		// claim outlived the document; drop it
		_ = s.client.Del(ctx, activeKey(key)).Err()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// refresh TTLs on read
	_ = s.client.Expire(ctx, activeKey(key), s.ttl).Err()
	_ = s.client.Expire(ctx, convKey(id), s.ttl).Err()

	return conv, nil
}

func (s *ConversationStore) FindConversationByID(ctx context.Context, id uuid.UUID) (*domain.ConversationSession, error) {
	val, err := s.client.Get(ctx, convKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading conversation: %w", err)
	}

	var conv domain.ConversationSession
	if err := json.Unmarshal([]byte(val), &conv); err != nil {
		return nil, fmt.Errorf("decoding conversation: %w", err)
	}
	return &conv, nil
}

func (s *ConversationStore) FindRecentConversations(ctx context.Context, limit int) ([]*domain.ConversationSession, error) {
	if limit <= 0 {
		limit = 20
	}

	ids, err := s.client.ZRevRange(ctx, recentIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading recency index: %w", err)
	}

	out := make([]*domain.ConversationSession, 0, len(ids))
	for _, idStr := range ids {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		conv, err := s.FindConversationByID(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			// expired document still indexed
			_ = s.client.ZRem(ctx, recentIndexKey, idStr).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, nil
}

func (s *ConversationStore) Close() error {
	return s.client.Close()
}
