package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

// Store implements domain.TaskStore and domain.ConversationStore on
// Firestore.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (CALTODO_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) tasksCol() *firestore.CollectionRef {
	return s.client.Collection("tasks")
}

func (s *Store) taskDocRef(id domain.TaskID) *firestore.DocumentRef {
	return s.tasksCol().Doc(string(id))
}

func (s *Store) conversationsCol() *firestore.CollectionRef {
	return s.client.Collection("conversations")
}

func (s *Store) conversationDocRef(id uuid.UUID) *firestore.DocumentRef {
	return s.conversationsCol().Doc(id.String())
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type taskDoc struct {
	Text      string    `firestore:"text"`
	Done      bool      `firestore:"done"`
	Date      string    `firestore:"date"`
	CreatedAt time.Time `firestore:"created_at"`
}

type messageDoc struct {
	ID        string    `firestore:"id"`
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	Timestamp time.Time `firestore:"timestamp"`

	Model          string  `firestore:"model,omitempty"`
	TokensUsed     int     `firestore:"tokens_used,omitempty"`
	Temperature    float64 `firestore:"temperature,omitempty"`
	ResponseTimeMs int64   `firestore:"response_time_ms,omitempty"`
	SummaryType    string  `firestore:"summary_type,omitempty"`
}

type conversationDoc struct {
	SessionKey    string       `firestore:"session_key"`
	StartedAt     time.Time    `firestore:"started_at"`
	LastMessageAt time.Time    `firestore:"last_message_at"`
	Status        string       `firestore:"status"`
	Messages      []messageDoc `firestore:"messages"`

	TotalMessages   int      `firestore:"total_messages"`
	TotalTokensUsed int      `firestore:"total_tokens_used"`
	TotalDurationMs int64    `firestore:"total_duration_ms"`
	TopicsDiscussed []string `firestore:"topics_discussed"`
	PrimaryIntent   string   `firestore:"primary_intent,omitempty"`
}

func toConversationDoc(conv *domain.ConversationSession) conversationDoc {
	msgs := make([]messageDoc, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		doc := messageDoc{
			ID:        string(m.ID),
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
		if m.Metadata != nil {
			doc.Model = m.Metadata.Model
			doc.TokensUsed = m.Metadata.TokensUsed
			doc.Temperature = m.Metadata.Temperature
			doc.ResponseTimeMs = m.Metadata.ResponseTimeMs
			doc.SummaryType = string(m.Metadata.SummaryType)
		}
		msgs = append(msgs, doc)
	}

	return conversationDoc{
		SessionKey:      string(conv.SessionKey),
		StartedAt:       conv.StartedAt,
		LastMessageAt:   conv.LastMessageAt,
		Status:          string(conv.Status),
		Messages:        msgs,
		TotalMessages:   conv.Metadata.TotalMessages,
		TotalTokensUsed: conv.Metadata.TotalTokensUsed,
		TotalDurationMs: conv.Metadata.TotalDurationMs,
		TopicsDiscussed: conv.Metadata.TopicsDiscussed,
		PrimaryIntent:   conv.Metadata.PrimaryIntent,
	}
}

func fromConversationDoc(id uuid.UUID, doc conversationDoc) *domain.ConversationSession {
	msgs := make([]domain.Message, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		msg := domain.Message{
			ID:        domain.MessageID(m.ID),
			Role:      domain.Role(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
		if m.Role == string(domain.RoleAssistant) {
			msg.Metadata = &domain.MessageMetadata{
				Model:          m.Model,
				TokensUsed:     m.TokensUsed,
				Temperature:    m.Temperature,
				ResponseTimeMs: m.ResponseTimeMs,
				SummaryType:    domain.SummaryType(m.SummaryType),
			}
		}
		msgs = append(msgs, msg)
	}

	return &domain.ConversationSession{
		ID:            id,
		SessionKey:    domain.SessionKey(doc.SessionKey),
		StartedAt:     doc.StartedAt,
		LastMessageAt: doc.LastMessageAt,
		Status:        domain.SessionStatus(doc.Status),
		Messages:      msgs,
		Metadata: domain.SessionMetadata{
			TotalMessages:   doc.TotalMessages,
			TotalTokensUsed: doc.TotalTokensUsed,
			TotalDurationMs: doc.TotalDurationMs,
			TopicsDiscussed: doc.TopicsDiscussed,
			PrimaryIntent:   doc.PrimaryIntent,
		},
	}
}

// ─────────────────────────────────────────
// TaskStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	doc := taskDoc{
		Text:      task.Text,
		Done:      task.Done,
		Date:      task.Date,
		CreatedAt: time.Now(),
	}

	if task.ID == "" {
		ref := s.tasksCol().NewDoc()
		if _, err := ref.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("firestore SaveTask create: %w", err)
		}
		out := *task
		out.ID = domain.TaskID(ref.ID)
		return &out, nil
	}

	update := map[string]interface{}{
		"text": task.Text,
		"done": task.Done,
		"date": task.Date,
	}
	if _, err := s.taskDocRef(task.ID).Set(ctx, update, firestore.MergeAll); err != nil {
		return nil, fmt.Errorf("firestore SaveTask update: %w", err)
	}
	out := *task
	return &out, nil
}

func (s *Store) FindTaskByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	snap, err := s.taskDocRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("firestore FindTaskByID: %w", err)
	}

	var doc taskDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore FindTaskByID decode: %w", err)
	}

	return &domain.Task{
		ID:   id,
		Text: doc.Text,
		Done: doc.Done,
		Date: doc.Date,
	}, nil
}

func (s *Store) FindTasksByDate(ctx context.Context, date string) ([]*domain.Task, error) {
	q := s.tasksCol().Where("date", "==", date).OrderBy("created_at", firestore.Asc)
	return s.collectTasks(ctx, q, "FindTasksByDate")
}

func (s *Store) FindTasksByDateRange(ctx context.Context, from, to string) ([]*domain.Task, error) {
	q := s.tasksCol().
		Where("date", ">=", from).
		Where("date", "<=", to).
		OrderBy("date", firestore.Asc)
	return s.collectTasks(ctx, q, "FindTasksByDateRange")
}

func (s *Store) collectTasks(ctx context.Context, q firestore.Query, op string) ([]*domain.Task, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Task
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore %s: %w", op, err)
		}

		var doc taskDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode taskDoc: %w", err)
		}

		out = append(out, &domain.Task{
			ID:   domain.TaskID(snap.Ref.ID),
			Text: doc.Text,
			Done: doc.Done,
			Date: doc.Date,
		})
	}
	return out, nil
}

func (s *Store) DeleteTask(ctx context.Context, id domain.TaskID) error {
	if _, err := s.taskDocRef(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteTask: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// ConversationStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveConversation(ctx context.Context, conv *domain.ConversationSession) (*domain.ConversationSession, error) {
	if _, err := s.conversationDocRef(conv.ID).Set(ctx, toConversationDoc(conv)); err != nil {
		return nil, fmt.Errorf("firestore SaveConversation: %w", err)
	}
	return conv, nil
}

func (s *Store) FindActiveBySessionKey(ctx context.Context, key domain.SessionKey) (*domain.ConversationSession, error) {
	q := s.conversationsCol().
		Where("session_key", "==", string(key)).
		Where("status", "==", string(domain.StatusActive)).
		OrderBy("started_at", firestore.Desc).
		Limit(1)

	iter := q.Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("firestore FindActiveBySessionKey: %w", err)
	}

	return s.decodeConversation(snap)
}

func (s *Store) FindConversationByID(ctx context.Context, id uuid.UUID) (*domain.ConversationSession, error) {
	snap, err := s.conversationDocRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore FindConversationByID: %w", err)
	}
	return s.decodeConversation(snap)
}

func (s *Store) FindRecentConversations(ctx context.Context, limit int) ([]*domain.ConversationSession, error) {
	q := s.conversationsCol().OrderBy("last_message_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.ConversationSession
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore FindRecentConversations: %w", err)
		}
		conv, err := s.decodeConversation(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, nil
}

func (s *Store) decodeConversation(snap *firestore.DocumentSnapshot) (*domain.ConversationSession, error) {
	var doc conversationDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode conversationDoc: %w", err)
	}

	id, err := uuid.Parse(snap.Ref.ID)
	if err != nil {
		return nil, fmt.Errorf("parse conversation id %q: %w", snap.Ref.ID, err)
	}

	return fromConversationDoc(id, doc), nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
