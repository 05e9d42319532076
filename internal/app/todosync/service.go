package todosync

import (
	"context"
	"errors"
	"strings"

	"github.com/upotato200/caltodo-agent/internal/domain"
	"github.com/upotato200/caltodo-agent/internal/observability"
)

// Item is one client-submitted task in a sync batch.
type Item struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
	Date string `json:"date"`
}

// Service merges client-submitted batches into the task store without
// creating semantic duplicates. (Date, Text) is the dedup key.
type Service struct {
	store domain.TaskStore
}

func NewService(store domain.TaskStore) *Service {
	return &Service{store: store}
}

// Sync processes items strictly in input order. The existing-task index for a
// date is fetched and built once, on first encounter of that date, and is NOT
// refreshed after creates: two items with the same new text for the same date
// in one batch both create records.
//
// Sync is best-effort, not all-or-nothing. A failed item is logged and
// skipped; a failed index fetch skips every item of that date.
func (s *Service) Sync(ctx context.Context, items []Item) []*domain.Task {
	log := observability.LoggerFromContext(ctx)
	log.Info("starting task sync", "requested", len(items))

	indexes := make(map[string]map[string]*domain.Task) // date -> text -> task
	failed := make(map[string]bool)                     // dates whose fetch failed

	results := make([]*domain.Task, 0, len(items))
	for _, item := range items {
		if failed[item.Date] {
			continue
		}

		index, ok := indexes[item.Date]
		if !ok {
			existing, err := s.store.FindTasksByDate(ctx, item.Date)
			if err != nil {
				log.Error("fetching existing tasks failed, skipping date",
					"date", item.Date, "error", err)
				failed[item.Date] = true
				continue
			}
			index = make(map[string]*domain.Task, len(existing))
			for _, t := range existing {
				// last write wins if the store returns duplicate texts
				index[t.Text] = t
			}
			indexes[item.Date] = index
		}

		task, err := s.syncOne(ctx, item, index[item.Text])
		if err != nil {
			log.Error("failed to sync task",
				"date", item.Date, "text", item.Text, "error", err)
			continue
		}
		results = append(results, task)
	}

	log.Info("task sync finished", "synced", len(results), "requested", len(items))
	return results
}

func (s *Service) syncOne(ctx context.Context, item Item, existing *domain.Task) (*domain.Task, error) {
	if existing == nil {
		return s.create(ctx, item)
	}
	if existing.Done != item.Done {
		updated := *existing
		updated.Done = item.Done
		return s.store.SaveTask(ctx, &updated)
	}
	return existing, nil
}

// create stores the task as not done, then issues a second write when the
// item asked for done=true. The record is momentarily persisted as done=false
// between the two writes.
func (s *Service) create(ctx context.Context, item Item) (*domain.Task, error) {
	text := strings.TrimSpace(item.Text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}
	if item.Date == "" {
		return nil, errors.New("date must not be empty")
	}

	created, err := s.store.SaveTask(ctx, &domain.Task{
		Text: text,
		Done: false,
		Date: item.Date,
	})
	if err != nil {
		return nil, err
	}

	if item.Done {
		done := *created
		done.Done = true
		return s.store.SaveTask(ctx, &done)
	}
	return created, nil
}
