package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/upotato200/caltodo-agent/internal/domain"
)

// TaskStore is an in-memory implementation of domain.TaskStore. Records are
// copied on the way in and out; date-scoped reads come back in insertion
// order. Not persistent, suitable for local mode and tests.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[domain.TaskID]*domain.Task
	order  []domain.TaskID
	nextID int64
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[domain.TaskID]*domain.Task),
	}
}

func (s *TaskStore) SaveTask(_ context.Context, task *domain.Task) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *task
	if stored.ID == "" {
		s.nextID++
		stored.ID = domain.TaskID(strconv.FormatInt(s.nextID, 10))
		s.order = append(s.order, stored.ID)
	} else if _, exists := s.tasks[stored.ID]; !exists {
		s.order = append(s.order, stored.ID)
	}

	s.tasks[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (s *TaskStore) FindTaskByID(_ context.Context, id domain.TaskID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := *t
	return &out, nil
}

func (s *TaskStore) FindTasksByDate(_ context.Context, date string) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Task
	for _, id := range s.order {
		if t, ok := s.tasks[id]; ok && t.Date == date {
			out := *t
			result = append(result, &out)
		}
	}
	return result, nil
}

func (s *TaskStore) FindTasksByDateRange(_ context.Context, from, to string) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// yyyy-MM-dd compares correctly as a string
	var result []*domain.Task
	for _, id := range s.order {
		if t, ok := s.tasks[id]; ok && t.Date >= from && t.Date <= to {
			out := *t
			result = append(result, &out)
		}
	}
	return result, nil
}

func (s *TaskStore) DeleteTask(_ context.Context, id domain.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
