package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/asmamir/task-manager-api/internal/store"
)

// MockUserStore implements store.UserStore for testing. Function fields
// override individual methods; the default behavior keeps users in a
// map keyed by ID.
type MockUserStore struct {
	CreateFn          func(ctx context.Context, user *domain.User) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn      func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn          func(ctx context.Context, user *domain.User) error
	DeleteFn          func(ctx context.Context, id uuid.UUID) error
	AddTokenFn        func(ctx context.Context, userID uuid.UUID, token string) error
	RemoveTokenFn     func(ctx context.Context, userID uuid.UUID, token string) error
	RemoveAllTokensFn func(ctx context.Context, userID uuid.UUID) error
	HasTokenFn        func(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	GetAvatarFn       func(ctx context.Context, userID uuid.UUID) ([]byte, error)
	UpdateAvatarFn    func(ctx context.Context, userID uuid.UUID, avatar []byte) error

	Users   map[uuid.UUID]*domain.User
	Avatars map[uuid.UUID][]byte
}

// NewMockUserStore creates a mock store with initialized maps.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users:   make(map[uuid.UUID]*domain.User),
		Avatars: make(map[uuid.UUID][]byte),
	}
}

// AddUser seeds the default in-memory state with a user.
func (m *MockUserStore) AddUser(user *domain.User) {
	m.Users[user.ID] = user
}

// Create implements the UserStore interface.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.Users[user.ID] = user
	return nil
}

// GetByID implements the UserStore interface.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	user, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByEmail implements the UserStore interface.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	if _, ok := m.Users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, existing := range m.Users {
		if id != user.ID && existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.Users[user.ID] = user
	return nil
}

// Delete implements the UserStore interface.
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, ok := m.Users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.Users, id)
	delete(m.Avatars, id)
	return nil
}

// AddToken implements the UserStore interface.
func (m *MockUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	if m.AddTokenFn != nil {
		return m.AddTokenFn(ctx, userID, token)
	}

	user, ok := m.Users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Tokens = append(user.Tokens, token)
	return nil
}

// RemoveToken implements the UserStore interface.
func (m *MockUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	if m.RemoveTokenFn != nil {
		return m.RemoveTokenFn(ctx, userID, token)
	}

	user, ok := m.Users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	for i, t := range user.Tokens {
		if t == token {
			user.Tokens = append(user.Tokens[:i], user.Tokens[i+1:]...)
			return nil
		}
	}
	return store.ErrTokenNotFound
}

// RemoveAllTokens implements the UserStore interface.
func (m *MockUserStore) RemoveAllTokens(ctx context.Context, userID uuid.UUID) error {
	if m.RemoveAllTokensFn != nil {
		return m.RemoveAllTokensFn(ctx, userID)
	}

	user, ok := m.Users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Tokens = nil
	return nil
}

// HasToken implements the UserStore interface.
func (m *MockUserStore) HasToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	if m.HasTokenFn != nil {
		return m.HasTokenFn(ctx, userID, token)
	}

	user, ok := m.Users[userID]
	if !ok {
		return false, nil
	}
	for _, t := range user.Tokens {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

// GetAvatar implements the UserStore interface.
func (m *MockUserStore) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, userID)
	}

	if _, ok := m.Users[userID]; !ok {
		return nil, store.ErrUserNotFound
	}
	data, ok := m.Avatars[userID]
	if !ok || len(data) == 0 {
		return nil, store.ErrAvatarNotFound
	}
	return data, nil
}

// UpdateAvatar implements the UserStore interface.
func (m *MockUserStore) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error {
	if m.UpdateAvatarFn != nil {
		return m.UpdateAvatarFn(ctx, userID, avatar)
	}

	if _, ok := m.Users[userID]; !ok {
		return store.ErrUserNotFound
	}
	if avatar == nil {
		delete(m.Avatars, userID)
		return nil
	}
	m.Avatars[userID] = avatar
	return nil
}

// WithTx implements the UserStore interface. The mock has no real
// transactions, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
