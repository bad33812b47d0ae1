package mocks

import (
	"context"

	"github.com/asmamir/task-manager-api/internal/domain"
)

// MockAccountManager implements api.AccountManager for handler tests.
type MockAccountManager struct {
	RegisterFn func(ctx context.Context, name, email, password string, age int) (*domain.User, string, error)
	LoginFn    func(ctx context.Context, email, password string) (*domain.User, string, error)
	DeleteFn   func(ctx context.Context, user *domain.User) error

	// DeleteCallCount tracks how many times Delete was called.
	DeleteCallCount int
}

// Register implements the api.AccountManager interface.
func (m *MockAccountManager) Register(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, string, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, name, email, password, age)
	}
	return nil, "", nil
}

// Login implements the api.AccountManager interface.
func (m *MockAccountManager) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return nil, "", nil
}

// Delete implements the api.AccountManager interface.
func (m *MockAccountManager) Delete(ctx context.Context, user *domain.User) error {
	m.DeleteCallCount++
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, user)
	}
	return nil
}
