package sendgrid

import (
	"context"
	"log/slog"

	"github.com/asmamir/task-manager-api/internal/events"
)

// EventHandler adapts the Mailer to the account event stream, sending
// the welcome email on account creation and the goodbye email on
// deletion.
type EventHandler struct {
	mailer *Mailer
	logger *slog.Logger
}

// NewEventHandler creates an EventHandler backed by the given mailer.
func NewEventHandler(mailer *Mailer, logger *slog.Logger) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		mailer: mailer,
		logger: logger.With(slog.String("component", "mail_event_handler")),
	}
}

// HandleEvent implements events.EventHandler.
func (h *EventHandler) HandleEvent(ctx context.Context, event *events.AccountEvent) error {
	switch event.Kind {
	case events.AccountCreated:
		return h.mailer.SendWelcome(ctx, event.Email, event.Name)
	case events.AccountDeleted:
		return h.mailer.SendGoodbye(ctx, event.Email, event.Name)
	default:
		h.logger.Debug("ignoring event of unknown kind",
			slog.String("event_kind", string(event.Kind)))
		return nil
	}
}

var _ events.EventHandler = (*EventHandler)(nil)
