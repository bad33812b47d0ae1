package store

import (
	"context"
	"database/sql"

	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/google/uuid"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The plaintext Password is
	// hashed internally before writing; it never reaches the database.
	// Returns ErrEmailExists if the email is already taken and
	// validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID, including the active
	// token set but excluding the avatar blob.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's name, email, age, and password
	// hash. If a plaintext Password is set on the user it is re-hashed
	// and the stored hash replaced. Returns ErrUserNotFound if the user
	// does not exist and ErrEmailExists on a duplicate email.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID. Session tokens
	// are removed with the user. Returns ErrUserNotFound if the user
	// does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddToken appends a session token to the user's active set.
	AddToken(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveToken revokes exactly one session token. Returns
	// ErrTokenNotFound if the token is not in the user's set.
	RemoveToken(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveAllTokens revokes every session token the user holds.
	RemoveAllTokens(ctx context.Context, userID uuid.UUID) error

	// HasToken reports whether the token is in the user's active set.
	HasToken(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	// GetAvatar returns the user's stored avatar bytes.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrAvatarNotFound if the user has no avatar.
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)

	// UpdateAvatar replaces the user's avatar blob. A nil slice clears
	// the avatar. Returns ErrUserNotFound if the user does not exist.
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error

	// WithTx returns a UserStore bound to the provided transaction so
	// multiple operations can commit or roll back together.
	WithTx(tx *sql.Tx) UserStore
}
