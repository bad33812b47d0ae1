package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"

	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/asmamir/task-manager-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. Function fields
// override individual methods; the default behavior keeps tasks in a
// map keyed by ID and applies the list options in memory.
type MockTaskStore struct {
	CreateFn          func(ctx context.Context, task *domain.Task) error
	GetByOwnerAndIDFn func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	ListByOwnerFn     func(ctx context.Context, ownerID uuid.UUID, opts store.TaskListOptions) ([]*domain.Task, error)
	UpdateFn          func(ctx context.Context, task *domain.Task) error
	DeleteByOwnerIDFn func(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteByOwnerFn   func(ctx context.Context, ownerID uuid.UUID) error

	Tasks map[uuid.UUID]*domain.Task
}

// NewMockTaskStore creates a mock store with an initialized map.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// AddTask seeds the default in-memory state with a task.
func (m *MockTaskStore) AddTask(task *domain.Task) {
	m.Tasks[task.ID] = task
}

// Create implements the TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetByOwnerAndID implements the TaskStore interface.
func (m *MockTaskStore) GetByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	if m.GetByOwnerAndIDFn != nil {
		return m.GetByOwnerAndIDFn(ctx, ownerID, id)
	}

	task, ok := m.Tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// ListByOwner implements the TaskStore interface. The default applies
// the filter, sort, and pagination options in memory so handler tests
// can exercise the full query surface.
func (m *MockTaskStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.TaskListOptions,
) ([]*domain.Task, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID, opts)
	}

	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if opts.Completed != nil && task.Completed != *opts.Completed {
			continue
		}
		tasks = append(tasks, task)
	}

	field := opts.SortBy
	if field == "" {
		field = store.TaskSortCreatedAt
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		var less bool
		switch field {
		case store.TaskSortUpdatedAt:
			less = a.UpdatedAt.Before(b.UpdatedAt)
		case store.TaskSortDescription:
			less = a.Description < b.Description
		case store.TaskSortCompleted:
			less = !a.Completed && b.Completed
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if opts.Descending {
			return !less
		}
		return less
	})

	if opts.Skip > 0 {
		if opts.Skip >= len(tasks) {
			return []*domain.Task{}, nil
		}
		tasks = tasks[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(tasks) {
		tasks = tasks[:opts.Limit]
	}
	return tasks, nil
}

// Update implements the TaskStore interface.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	existing, ok := m.Tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// DeleteByOwnerAndID implements the TaskStore interface.
func (m *MockTaskStore) DeleteByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteByOwnerIDFn != nil {
		return m.DeleteByOwnerIDFn(ctx, ownerID, id)
	}

	task, ok := m.Tasks[id]
	if !ok || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// DeleteByOwner implements the TaskStore interface.
func (m *MockTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	if m.DeleteByOwnerFn != nil {
		return m.DeleteByOwnerFn(ctx, ownerID)
	}

	for id, task := range m.Tasks {
		if task.OwnerID == ownerID {
			delete(m.Tasks, id)
		}
	}
	return nil
}

// WithTx implements the TaskStore interface. The mock has no real
// transactions, so it returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
