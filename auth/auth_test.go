package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SignIn(ctx context.Context, email, password string) (string, models.User, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(models.User), args.Error(2)
}

func (m *MockProvider) GetUser(ctx context.Context, token string) (models.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockProvider) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

var admin = models.User{ID: "user-1", Email: "admin@example.com"}

func TestAuthenticator_SignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("stores token", func(t *testing.T) {
		provider := &MockProvider{}
		provider.On("SignIn", ctx, "admin@example.com", "secret").Return("tok", admin, nil)

		a := NewAuthenticator(provider, "")
		token, user, err := a.SignIn(ctx, "admin@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, admin, user)
		assert.Equal(t, "tok", token)
		assert.Equal(t, "tok", a.Token())
	})

	t.Run("rejection keeps previous session", func(t *testing.T) {
		provider := &MockProvider{}
		provider.On("SignIn", ctx, "admin@example.com", "wrong").
			Return("", models.User{}, errs.NewAuthRejected("Invalid login credentials", nil))

		a := NewAuthenticator(provider, "old")
		_, _, err := a.SignIn(ctx, "admin@example.com", "wrong")
		assert.True(t, errs.IsAuthRejected(err))
		assert.Equal(t, "old", a.Token())
	})
}

func TestAuthenticator_Current(t *testing.T) {
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		a := NewAuthenticator(&MockProvider{}, "")
		user, err := a.Current(ctx)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("expired token skips provider", func(t *testing.T) {
		provider := &MockProvider{}
		a := NewAuthenticator(provider, signedToken(t, time.Now().Add(-time.Minute)))

		user, err := a.Current(ctx)
		assert.NoError(t, err)
		assert.Nil(t, user)
		assert.Empty(t, a.Token())
		provider.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("valid token", func(t *testing.T) {
		token := signedToken(t, time.Now().Add(time.Hour))
		provider := &MockProvider{}
		provider.On("GetUser", ctx, token).Return(admin, nil)

		a := NewAuthenticator(provider, token)
		user, err := a.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, &admin, user)
	})

	t.Run("revoked token is dropped", func(t *testing.T) {
		provider := &MockProvider{}
		provider.On("GetUser", ctx, "opaque").Return(models.User{}, errs.NewAuthRejected("", nil))

		a := NewAuthenticator(provider, "opaque")
		user, err := a.Current(ctx)
		assert.NoError(t, err)
		assert.Nil(t, user)
		assert.Empty(t, a.Token())
	})

	t.Run("service failure is returned", func(t *testing.T) {
		provider := &MockProvider{}
		provider.On("GetUser", ctx, "opaque").
			Return(models.User{}, errs.NewServiceError("auth", "get user", errors.New("dial tcp")))

		a := NewAuthenticator(provider, "opaque")
		_, err := a.Current(ctx)
		assert.ErrorIs(t, err, errs.ErrServiceUnavailable)
		assert.Equal(t, "opaque", a.Token())
	})
}

func TestAuthenticator_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("current session token", func(t *testing.T) {
		token := signedToken(t, time.Now().Add(time.Hour))
		provider := &MockProvider{}
		provider.On("GetUser", ctx, token).Return(admin, nil)

		a := NewAuthenticator(provider, token)
		user, err := a.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, admin, user)
	})

	t.Run("other tokens are refused without asking the provider", func(t *testing.T) {
		provider := &MockProvider{}
		a := NewAuthenticator(provider, "tok")

		for _, presented := range []string{"", "tok2", "to"} {
			_, err := a.Verify(ctx, presented)
			assert.True(t, errs.IsUnauthorized(err), presented)
		}
		provider.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("no session", func(t *testing.T) {
		a := NewAuthenticator(&MockProvider{}, "")
		_, err := a.Verify(ctx, "")
		assert.True(t, errs.IsUnauthorized(err))
	})

	t.Run("expired session", func(t *testing.T) {
		token := signedToken(t, time.Now().Add(-time.Minute))
		a := NewAuthenticator(&MockProvider{}, token)

		_, err := a.Verify(ctx, token)
		assert.True(t, errs.IsUnauthorized(err))
		assert.Empty(t, a.Token())
	})
}

func TestAuthenticator_SignOut(t *testing.T) {
	ctx := context.Background()

	provider := &MockProvider{}
	provider.On("Logout", ctx, "tok").Return(nil).Once()

	a := NewAuthenticator(provider, "tok")
	require.NoError(t, a.SignOut(ctx))
	assert.Empty(t, a.Token())

	// second sign out has nothing to revoke
	require.NoError(t, a.SignOut(ctx))
	provider.AssertExpectations(t)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		rejected bool
		message  string
	}{
		{
			name:     "bad credentials",
			err:      errors.New(`response status code 400: {"error":"invalid_grant","error_description":"Invalid login credentials"}`),
			rejected: true,
			message:  "Invalid login credentials",
		},
		{
			name:     "rejection without message",
			err:      errors.New(`response status code 401: not json`),
			rejected: true,
			message:  errs.GenericAuthMessage,
		},
		{
			name: "server error",
			err:  errors.New(`response status code 502: bad gateway`),
		},
		{
			name: "network error",
			err:  errors.New("dial tcp: connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("sign in", tt.err)
			assert.Equal(t, tt.rejected, errs.IsAuthRejected(err))
			if tt.rejected {
				assert.Equal(t, tt.message, errs.UserMessage(err))
			} else {
				assert.ErrorIs(t, err, errs.ErrServiceUnavailable)
			}
		})
	}
}

func TestWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release := make(chan struct{})
	defer close(release)
	_, err := withContext(ctx, func() (int, error) {
		<-release
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
