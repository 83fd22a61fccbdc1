package auth_test

import (
	"context"

	auth "github.com/InlamningsUppgift-Moln-DistSystem/AuthService"
	"github.com/stretchr/testify/mock"
)

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user *auth.User, rawPassword string) (*auth.User, error) {
	args := m.Called(ctx, user, rawPassword)
	created, _ := args.Get(0).(*auth.User)
	return created, args.Error(1)
}

func (m *MockUserStore) CheckPassword(ctx context.Context, user *auth.User, rawPassword string) (bool, error) {
	args := m.Called(ctx, user, rawPassword)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockDispatcher implements auth.NotificationDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, msg auth.ConfirmationMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
