package mocks

import (
	"context"
	"sync"

	"github.com/asmamir/task-manager-api/internal/events"
)

// MockEventEmitter implements events.EventEmitter for testing,
// recording every emitted event. Safe for use from the detached
// notification goroutines.
type MockEventEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.AccountEvent) error

	mu     sync.Mutex
	Events []*events.AccountEvent
}

// EmitEvent implements the events.EventEmitter interface.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.AccountEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, event)
	m.mu.Unlock()

	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}
	return nil
}

// Emitted returns a snapshot of the events recorded so far.
func (m *MockEventEmitter) Emitted() []*events.AccountEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.AccountEvent, len(m.Events))
	copy(out, m.Events)
	return out
}
