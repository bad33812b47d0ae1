// Package service contains business logic that spans multiple stores or
// collaborators.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/asmamir/task-manager-api/internal/events"
	"github.com/asmamir/task-manager-api/internal/service/auth"
	"github.com/asmamir/task-manager-api/internal/store"
)

// ErrUnableToLogin is returned for every login failure, whether the
// email is unknown or the password is wrong, so the response cannot be
// used to enumerate registered addresses.
var ErrUnableToLogin = errors.New("unable to login")

// notifyTimeout bounds the detached notification goroutine.
const notifyTimeout = 30 * time.Second

// AccountService orchestrates account lifecycle operations: creating an
// account with its first session, authenticating, and deleting an
// account together with everything it owns.
type AccountService struct {
	db         *sql.DB
	userStore  store.UserStore
	taskStore  store.TaskStore
	jwtService auth.JWTService
	verifier   auth.PasswordVerifier
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// NewAccountService creates an AccountService with the given dependencies.
func NewAccountService(
	db *sql.DB,
	userStore store.UserStore,
	taskStore store.TaskStore,
	jwtService auth.JWTService,
	verifier auth.PasswordVerifier,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*AccountService, error) {
	if userStore == nil || taskStore == nil || jwtService == nil || verifier == nil {
		return nil, fmt.Errorf("account service requires all dependencies")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		db:         db,
		userStore:  userStore,
		taskStore:  taskStore,
		jwtService: jwtService,
		verifier:   verifier,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "account_service")),
	}, nil
}

// Register creates a new account, opens its first session, and triggers
// the welcome notification. Returns the persisted user and the session
// token. Validation failures and duplicate emails surface unchanged
// from the domain and the store.
func (s *AccountService) Register(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, string, error) {
	user, err := domain.NewUser(name, email, password, age)
	if err != nil {
		return nil, "", err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.notify(events.AccountCreated, user.Email, user.Name)

	return user, token, nil
}

// Login authenticates by email and password and opens a new session
// alongside any existing ones. Both an unknown email and a wrong
// password yield ErrUnableToLogin with no distinguishing signal.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrUnableToLogin
		}
		return nil, "", err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", ErrUnableToLogin
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Delete removes the user and every task it owns in one transaction, so
// a crash can never leave orphaned tasks behind, then triggers the
// goodbye notification. Session tokens are removed with the user row.
func (s *AccountService) Delete(ctx context.Context, user *domain.User) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).DeleteByOwner(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete owned tasks: %w", err)
		}
		if err := s.userStore.WithTx(tx).Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(events.AccountDeleted, user.Email, user.Name)

	return nil
}

// issueToken signs a new session token and appends it to the user's
// active set, both on the entity and in the store.
func (s *AccountService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.userStore.AddToken(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("failed to record session token: %w", err)
	}
	user.Tokens = append(user.Tokens, token)
	return token, nil
}

// notify emits an account event on a detached goroutine. Delivery is
// best-effort: failures are logged by the emitter and its handlers and
// never reach the request that triggered the event.
func (s *AccountService) notify(kind events.AccountEventKind, email, name string) {
	if s.emitter == nil {
		return
	}
	event := events.NewAccountEvent(kind, email, name)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			s.logger.Warn("account notification failed",
				slog.String("event_kind", string(kind)),
				slog.String("error", err.Error()))
		}
	}()
}
