// Package events provides a minimal in-process event system used to
// decouple account lifecycle operations from their side effects, such
// as transactional email.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountEventKind identifies the account lifecycle change an event
// describes.
type AccountEventKind string

// Account lifecycle events.
const (
	AccountCreated AccountEventKind = "account.created"
	AccountDeleted AccountEventKind = "account.deleted"
)

// AccountEvent announces that a user account was created or deleted.
// It carries only the fields notification handlers need; handlers never
// see the user entity itself.
type AccountEvent struct {
	ID        uuid.UUID        `json:"id"`
	Kind      AccountEventKind `json:"kind"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewAccountEvent creates an AccountEvent for the given kind and recipient.
func NewAccountEvent(kind AccountEventKind, email, name string) *AccountEvent {
	return &AccountEvent{
		ID:        uuid.New(),
		Kind:      kind,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that handle account
// events. Handler failures are the handler's own concern; emitting code
// never depends on them succeeding.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *AccountEvent) error
}

// EventEmitter defines an interface for components that emit account
// events, letting services publish without knowledge of the handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *AccountEvent) error
}
