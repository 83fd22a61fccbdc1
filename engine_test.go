package auth_test

import (
	"context"
	"testing"

	auth "github.com/InlamningsUppgift-Moln-DistSystem/AuthService"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validPayload() auth.RegistrationPayload {
	return auth.RegistrationPayload{
		Username: "alice_01",
		Email:    "alice@example.com",
		Password: "Str0ng!Pass",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates unconfirmed user and dispatches confirmation", func(t *testing.T) {
		store := new(MockUserStore)
		dispatcher := new(MockDispatcher)
		engine := auth.NewCredentialEngine(store, dispatcher)

		store.On("FindByEmail", ctx, "alice@example.com").Return(nil, auth.ErrUserNotFound)
		store.On("FindByUsername", ctx, "alice_01").Return(nil, auth.ErrUserNotFound)
		store.On("Create", ctx, mock.AnythingOfType("*auth.User"), "Str0ng!Pass").
			Run(func(args mock.Arguments) {
				user := args.Get(1).(*auth.User)
				assert.False(t, user.EmailConfirmed)
				assert.Equal(t, "AL", user.Initials)
			}).
			Return(&auth.User{Username: "alice_01", Email: "alice@example.com"}, nil)
		dispatcher.On("Send", ctx, mock.AnythingOfType("auth.ConfirmationMessage")).
			Run(func(args mock.Arguments) {
				msg := args.Get(1).(auth.ConfirmationMessage)
				assert.Equal(t, "alice@example.com", msg.To)
				assert.Contains(t, msg.Body, "/confirm?email=alice%40example.com")
			}).
			Return(nil)

		result, err := engine.Register(ctx, validPayload())

		require.NoError(t, err)
		assert.True(t, result.Ok())
		require.NotNil(t, result.User)
		assert.Equal(t, "alice_01", result.User.Username)
		store.AssertExpectations(t)
		dispatcher.AssertExpectations(t)
	})

	t.Run("accumulates duplicate email and username together", func(t *testing.T) {
		store := new(MockUserStore)
		dispatcher := new(MockDispatcher)
		engine := auth.NewCredentialEngine(store, dispatcher)

		existing := &auth.User{Username: "alice_01", Email: "alice@example.com"}
		store.On("FindByEmail", ctx, "alice@example.com").Return(existing, nil)
		store.On("FindByUsername", ctx, "alice_01").Return(existing, nil)

		result, err := engine.Register(ctx, validPayload())

		require.NoError(t, err)
		assert.False(t, result.Ok())
		assert.ElementsMatch(t,
			[]string{auth.CodeDuplicateEmail, auth.CodeDuplicateUserName},
			codes(result.Errors),
		)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		dispatcher.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("validation failures skip creation", func(t *testing.T) {
		store := new(MockUserStore)
		dispatcher := new(MockDispatcher)
		engine := auth.NewCredentialEngine(store, dispatcher)

		store.On("FindByEmail", ctx, "bad").Return(nil, auth.ErrUserNotFound)
		store.On("FindByUsername", ctx, "ab").Return(nil, auth.ErrUserNotFound)

		result, err := engine.Register(ctx, auth.RegistrationPayload{
			Username: "ab",
			Email:    "bad",
			Password: "x",
		})

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			auth.CodeInvalidEmailFormat,
			auth.CodeWeakPassword,
			auth.CodeInvalidUsernameLength,
		}, codes(result.Errors))
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store conflict on create maps back to duplicate code", func(t *testing.T) {
		store := new(MockUserStore)
		dispatcher := new(MockDispatcher)
		engine := auth.NewCredentialEngine(store, dispatcher)

		store.On("FindByEmail", ctx, "alice@example.com").Return(nil, auth.ErrUserNotFound)
		store.On("FindByUsername", ctx, "alice_01").Return(nil, auth.ErrUserNotFound)
		store.On("Create", ctx, mock.AnythingOfType("*auth.User"), "Str0ng!Pass").
			Return(nil, auth.ErrDuplicateUserName)

		result, err := engine.Register(ctx, validPayload())

		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, auth.CodeDuplicateUserName, result.Errors[0].Code)
		dispatcher.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("dispatch failure does not fail registration", func(t *testing.T) {
		store := new(MockUserStore)
		dispatcher := new(MockDispatcher)
		engine := auth.NewCredentialEngine(store, dispatcher)

		store.On("FindByEmail", ctx, "alice@example.com").Return(nil, auth.ErrUserNotFound)
		store.On("FindByUsername", ctx, "alice_01").Return(nil, auth.ErrUserNotFound)
		store.On("Create", ctx, mock.AnythingOfType("*auth.User"), "Str0ng!Pass").
			Return(&auth.User{Username: "alice_01", Email: "alice@example.com"}, nil)
		dispatcher.On("Send", ctx, mock.AnythingOfType("auth.ConfirmationMessage")).
			Return(goerrors.New("queue unavailable", goerrors.CategoryOperation))

		result, err := engine.Register(ctx, validPayload())

		require.NoError(t, err)
		assert.True(t, result.Ok())
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("blank username fails before any store access", func(t *testing.T) {
		store := new(MockUserStore)
		engine := auth.NewCredentialEngine(store, new(MockDispatcher))

		_, err := engine.Login(ctx, auth.LoginPayload{Username: "  ", Password: "secret"})

		assert.ErrorIs(t, err, auth.ErrMissingUsername)
		store.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})

	t.Run("blank password fails before any store access", func(t *testing.T) {
		store := new(MockUserStore)
		engine := auth.NewCredentialEngine(store, new(MockDispatcher))

		_, err := engine.Login(ctx, auth.LoginPayload{Username: "alice_01", Password: ""})

		assert.ErrorIs(t, err, auth.ErrMissingPassword)
		store.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})

	t.Run("unknown account", func(t *testing.T) {
		store := new(MockUserStore)
		engine := auth.NewCredentialEngine(store, new(MockDispatcher))

		store.On("FindByUsername", ctx, "ghost").Return(nil, auth.ErrUserNotFound)

		_, err := engine.Login(ctx, auth.LoginPayload{Username: "ghost", Password: "secret"})

		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})

	t.Run("unverified email blocks login before the password check", func(t *testing.T) {
		store := new(MockUserStore)
		engine := auth.NewCredentialEngine(store, new(MockDispatcher))

		store.On("FindByUsername", ctx, "alice_01").
			Return(&auth.User{Username: "alice_01", EmailConfirmed: false}, nil)

		_, err := engine.Login(ctx, auth.LoginPayload{Username: "alice_01", Password: "correct"})

		assert.ErrorIs(t, err, auth.ErrEmailNotVerified)
		store.AssertNotCalled(t, "CheckPassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong password", func(t *testing.T) {
		store := new(MockUserStore)
		engine := auth.NewCredentialEngine(store, new(MockDispatcher))

		user := &auth.User{Username: "alice_01", EmailConfirmed: true}
		store.On("FindByUsername", ctx, "alice_01").Return(user, nil)
		store.On("CheckPassword", ctx, user, "wrong").Return(false, nil)

		_, err := engine.Login(ctx, auth.LoginPayload{Username: "alice_01", Password: "wrong"})

		assert.ErrorIs(t, err, auth.ErrIncorrectPassword)
	})

	t.Run("success returns the identity", func(t *testing.T) {
		store := new(MockUserStore)
		engine := auth.NewCredentialEngine(store, new(MockDispatcher))

		user := &auth.User{Username: "alice_01", Email: "alice@example.com", EmailConfirmed: true}
		store.On("FindByUsername", ctx, "alice_01").Return(user, nil)
		store.On("CheckPassword", ctx, user, "Str0ng!Pass").Return(true, nil)

		got, err := engine.Login(ctx, auth.LoginPayload{Username: "alice_01", Password: "Str0ng!Pass"})

		require.NoError(t, err)
		assert.Same(t, user, got)
	})
}

func TestConfirmEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown address reports false without error", func(t *testing.T) {
		store := new(MockUserStore)
		engine := auth.NewCredentialEngine(store, new(MockDispatcher))

		store.On("FindByEmail", ctx, "ghost@example.com").Return(nil, auth.ErrUserNotFound)

		ok, err := engine.ConfirmEmail(ctx, "ghost@example.com")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("first confirmation persists the flag", func(t *testing.T) {
		store := new(MockUserStore)
		engine := auth.NewCredentialEngine(store, new(MockDispatcher))

		user := &auth.User{Email: "alice@example.com", EmailConfirmed: false}
		store.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)
		store.On("Update", ctx, user).Return(nil)

		ok, err := engine.ConfirmEmail(ctx, "alice@example.com")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, user.EmailConfirmed)
		store.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("repeat confirmation is idempotent and skips the store write", func(t *testing.T) {
		store := new(MockUserStore)
		engine := auth.NewCredentialEngine(store, new(MockDispatcher))

		user := &auth.User{Email: "alice@example.com", EmailConfirmed: true}
		store.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)

		ok, err := engine.ConfirmEmail(ctx, "alice@example.com")

		require.NoError(t, err)
		assert.True(t, ok)
		store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestResendConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown address", func(t *testing.T) {
		store := new(MockUserStore)
		dispatcher := new(MockDispatcher)
		engine := auth.NewCredentialEngine(store, dispatcher)

		store.On("FindByEmail", ctx, "ghost@example.com").Return(nil, auth.ErrUserNotFound)

		err := engine.ResendConfirmation(ctx, "ghost@example.com")

		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		dispatcher.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("already confirmed sends nothing", func(t *testing.T) {
		store := new(MockUserStore)
		dispatcher := new(MockDispatcher)
		engine := auth.NewCredentialEngine(store, dispatcher)

		store.On("FindByEmail", ctx, "alice@example.com").
			Return(&auth.User{Email: "alice@example.com", EmailConfirmed: true}, nil)

		err := engine.ResendConfirmation(ctx, "alice@example.com")

		assert.ErrorIs(t, err, auth.ErrAlreadyConfirmed)
		dispatcher.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("unconfirmed address gets a fresh message", func(t *testing.T) {
		store := new(MockUserStore)
		dispatcher := new(MockDispatcher)
		engine := auth.NewCredentialEngine(store, dispatcher).
			WithConfirmationBaseURL("https://app.example.com/")

		store.On("FindByEmail", ctx, "alice@example.com").
			Return(&auth.User{Email: "alice@example.com", EmailConfirmed: false}, nil)
		dispatcher.On("Send", ctx, mock.AnythingOfType("auth.ConfirmationMessage")).
			Run(func(args mock.Arguments) {
				msg := args.Get(1).(auth.ConfirmationMessage)
				assert.Contains(t, msg.Body, "https://app.example.com/confirm?email=alice%40example.com")
			}).
			Return(nil)

		err := engine.ResendConfirmation(ctx, "alice@example.com")

		require.NoError(t, err)
		dispatcher.AssertExpectations(t)
	})
}

func TestConfirmationLink(t *testing.T) {
	link := auth.ConfirmationLink("https://app.example.com/", "a+b@example.com")
	assert.Equal(t, "https://app.example.com/confirm?email=a%2Bb%40example.com", link)
}
