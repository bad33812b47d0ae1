package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors.
var (
	ErrEmptyDescription = NewValidationError("description", "cannot be empty", ErrValidation)
	ErrEmptyOwner       = NewValidationError("owner", "cannot be empty", ErrValidation)
)

// Task is a single to-do item. OwnerID references the user that created
// it; ownership is exclusive and never changes after creation. Tasks are
// looked up by owner, never materialized on the User entity.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a Task bound to the given owner with a trimmed
// description. Completed defaults to false.
func NewTask(ownerID uuid.UUID, description string, completed bool) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Description: strings.TrimSpace(description),
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the task has an owner and a non-empty description.
func (t *Task) Validate() error {
	if t.OwnerID == uuid.Nil {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}
