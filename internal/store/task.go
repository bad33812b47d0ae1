package store

import (
	"context"
	"database/sql"

	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/google/uuid"
)

// TaskSortField names a task attribute that list results may be ordered
// by. The values match the JSON field names clients pass in sortBy.
type TaskSortField string

// Sortable task fields.
const (
	TaskSortCreatedAt   TaskSortField = "createdAt"
	TaskSortUpdatedAt   TaskSortField = "updatedAt"
	TaskSortDescription TaskSortField = "description"
	TaskSortCompleted   TaskSortField = "completed"
)

// Valid reports whether the field is a known sortable attribute.
func (f TaskSortField) Valid() bool {
	switch f {
	case TaskSortCreatedAt, TaskSortUpdatedAt, TaskSortDescription, TaskSortCompleted:
		return true
	}
	return false
}

// TaskListOptions narrows and orders an owner's task listing. The zero
// value applies no filter, no limit, no skip, and createdAt-ascending
// order.
type TaskListOptions struct {
	// Completed filters by completion state when non-nil.
	Completed *bool

	// Limit caps the number of rows returned; 0 means unlimited.
	Limit int

	// Skip drops that many rows from the start of the result.
	Skip int

	// SortBy selects the ordering attribute; empty means createdAt.
	SortBy TaskSortField

	// Descending reverses the sort order.
	Descending bool
}

// TaskStore defines the interface for task data persistence. Every read
// and write is scoped to an owner: a task that exists but belongs to a
// different user is indistinguishable from one that does not exist.
type TaskStore interface {
	// Create saves a new task. Returns validation errors from the
	// domain Task and ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByOwnerAndID retrieves the task with the given ID if it belongs
	// to the owner. Returns ErrTaskNotFound otherwise.
	GetByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// ListByOwner returns the owner's tasks narrowed and ordered by opts.
	// The result is empty, never nil, when nothing matches.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, opts TaskListOptions) ([]*domain.Task, error)

	// Update saves changes to the task's description and completion
	// state, scoped by ID and owner. Returns ErrTaskNotFound if the
	// task does not exist for that owner.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteByOwnerAndID removes the task if it belongs to the owner.
	// Returns ErrTaskNotFound otherwise.
	DeleteByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteByOwner removes every task the owner holds. Used by the
	// account-deletion cascade; deleting zero tasks is not an error.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
