package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/asmamir/task-manager-api/internal/events"
	"github.com/asmamir/task-manager-api/internal/mocks"
	"github.com/asmamir/task-manager-api/internal/store"
)

func newTestService(
	t *testing.T,
	userStore *mocks.MockUserStore,
	taskStore *mocks.MockTaskStore,
	verifier *mocks.MockPasswordVerifier,
	emitter *mocks.MockEventEmitter,
) *AccountService {
	t.Helper()
	jwtService := &mocks.MockJWTService{Token: "issued-token"}
	svc, err := NewAccountService(nil, userStore, taskStore, jwtService, verifier, emitter, slog.Default())
	require.NoError(t, err)
	return svc
}

// waitForEvent polls the emitter until the detached notification
// goroutine has delivered, or the deadline passes.
func waitForEvent(t *testing.T, emitter *mocks.MockEventEmitter, kind events.AccountEventKind) *events.AccountEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		for _, ev := range emitter.Emitted() {
			if ev.Kind == kind {
				return ev
			}
		}
		select {
		case <-deadline:
			t.Fatalf("no %s event emitted", kind)
			return nil
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRegisterAccount(t *testing.T) {
	t.Parallel()

	t.Run("creates user, opens session, emits welcome event", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		emitter := &mocks.MockEventEmitter{}
		svc := newTestService(t, userStore, mocks.NewMockTaskStore(),
			&mocks.MockPasswordVerifier{ShouldSucceed: true}, emitter)

		user, token, err := svc.Register(context.Background(), "Alice", "alice@example.com", "sesame42", 30)
		require.NoError(t, err)

		assert.Equal(t, "issued-token", token)
		assert.Contains(t, user.Tokens, "issued-token")
		assert.Contains(t, userStore.Users, user.ID)

		ev := waitForEvent(t, emitter, events.AccountCreated)
		assert.Equal(t, "alice@example.com", ev.Email)
		assert.Equal(t, "Alice", ev.Name)
	})

	t.Run("propagates validation failure", func(t *testing.T) {
		t.Parallel()

		emitter := &mocks.MockEventEmitter{}
		svc := newTestService(t, mocks.NewMockUserStore(), mocks.NewMockTaskStore(),
			&mocks.MockPasswordVerifier{}, emitter)

		_, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "short", 30)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, emitter.Emitted())
	})

	t.Run("propagates duplicate email", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		existing, err := domain.NewUser("Alice", "alice@example.com", "sesame42", 30)
		require.NoError(t, err)
		userStore.AddUser(existing)

		svc := newTestService(t, userStore, mocks.NewMockTaskStore(),
			&mocks.MockPasswordVerifier{}, &mocks.MockEventEmitter{})

		_, _, err = svc.Register(context.Background(), "Alice Again", "alice@example.com", "sesame42", 31)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestLoginAccount(t *testing.T) {
	t.Parallel()

	seedUser := func(t *testing.T) (*mocks.MockUserStore, *domain.User) {
		t.Helper()
		userStore := mocks.NewMockUserStore()
		user, err := domain.NewUser("Alice", "alice@example.com", "sesame42", 30)
		require.NoError(t, err)
		user.Password = ""
		user.HashedPassword = "$2a$10$somethinghashed"
		userStore.AddUser(user)
		return userStore, user
	}

	t.Run("opens a new session on success", func(t *testing.T) {
		t.Parallel()

		userStore, seeded := seedUser(t)
		seeded.Tokens = []string{"older-session"}
		verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
		svc := newTestService(t, userStore, mocks.NewMockTaskStore(), verifier, &mocks.MockEventEmitter{})

		user, token, err := svc.Login(context.Background(), "alice@example.com", "sesame42")
		require.NoError(t, err)

		assert.Equal(t, "issued-token", token)
		assert.Equal(t, []string{"older-session", "issued-token"}, user.Tokens)
		assert.Equal(t, 1, verifier.CompareCallCount)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		userStore, _ := seedUser(t)
		svc := newTestService(t, userStore, mocks.NewMockTaskStore(),
			&mocks.MockPasswordVerifier{ShouldSucceed: false}, &mocks.MockEventEmitter{})

		_, _, errWrongPassword := svc.Login(context.Background(), "alice@example.com", "nope")
		_, _, errUnknownEmail := svc.Login(context.Background(), "ghost@example.com", "nope")

		assert.ErrorIs(t, errWrongPassword, ErrUnableToLogin)
		assert.ErrorIs(t, errUnknownEmail, ErrUnableToLogin)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	})

	t.Run("propagates store failure", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		userStore.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
			return nil, errors.New("connection refused")
		}
		svc := newTestService(t, userStore, mocks.NewMockTaskStore(),
			&mocks.MockPasswordVerifier{}, &mocks.MockEventEmitter{})

		_, _, err := svc.Login(context.Background(), "alice@example.com", "sesame42")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnableToLogin)
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()

	t.Run("removes tasks and user atomically, emits goodbye event", func(t *testing.T) {
		t.Parallel()

		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		userStore := mocks.NewMockUserStore()
		taskStore := mocks.NewMockTaskStore()
		user, err := domain.NewUser("Alice", "alice@example.com", "sesame42", 30)
		require.NoError(t, err)
		userStore.AddUser(user)

		owned, err := domain.NewTask(user.ID, "buy milk", false)
		require.NoError(t, err)
		taskStore.AddTask(owned)
		other, err := domain.NewTask(uuid.New(), "not hers", false)
		require.NoError(t, err)
		taskStore.AddTask(other)

		emitter := &mocks.MockEventEmitter{}
		jwtService := &mocks.MockJWTService{Token: "issued-token"}
		svc, err := NewAccountService(db, userStore, taskStore, jwtService,
			&mocks.MockPasswordVerifier{}, emitter, slog.Default())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), user))

		assert.NotContains(t, userStore.Users, user.ID)
		assert.NotContains(t, taskStore.Tasks, owned.ID)
		assert.Contains(t, taskStore.Tasks, other.ID)
		assert.NoError(t, dbMock.ExpectationsWereMet())

		ev := waitForEvent(t, emitter, events.AccountDeleted)
		assert.Equal(t, "alice@example.com", ev.Email)
	})

	t.Run("rolls back when the user delete fails", func(t *testing.T) {
		t.Parallel()

		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		userStore := mocks.NewMockUserStore()
		userStore.DeleteFn = func(ctx context.Context, id uuid.UUID) error {
			return errors.New("connection refused")
		}
		taskStore := mocks.NewMockTaskStore()
		user, err := domain.NewUser("Alice", "alice@example.com", "sesame42", 30)
		require.NoError(t, err)

		emitter := &mocks.MockEventEmitter{}
		jwtService := &mocks.MockJWTService{Token: "issued-token"}
		svc, err := NewAccountService(db, userStore, taskStore, jwtService,
			&mocks.MockPasswordVerifier{}, emitter, slog.Default())
		require.NoError(t, err)

		err = svc.Delete(context.Background(), user)
		require.Error(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
		assert.Empty(t, emitter.Emitted())
	})
}
