package dataservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/portfolio-content-backend/auth"
	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Upload(ctx context.Context, data []byte, bucket, folder, filename string) (string, error) {
	args := m.Called(ctx, data, bucket, folder, filename)
	return args.String(0), args.Error(1)
}

func (m *MockAssetStore) Delete(ctx context.Context, url, bucket string) error {
	return m.Called(ctx, url, bucket).Error(0)
}

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

func setupTestDB(t *testing.T) database.Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	return database.New(db)
}

func TestBackend_Projects(t *testing.T) {
	ctx := context.Background()
	backend := NewBackend(setupTestDB(t), nil, nil, WithTimeout(5*time.Second))

	created, err := backend.CreateProject(ctx, models.Draft{
		Title: "My Cool, Project!",
		Tags:  []string{"go", "api"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "my-cool-project", created.Slug)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := backend.GetProject(ctx, "my-cool-project")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, []string{"go", "api"}, found.Tags)

	found.Title = "Renamed"
	found.Tags = []string{"api"}
	updated, err := backend.UpdateProject(ctx, found.ID, found)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, []string{"api"}, updated.Tags)

	all, err := backend.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, backend.DeleteProject(ctx, created.ID))

	err = backend.DeleteProject(ctx, created.ID)
	assert.True(t, errs.IsNotFound(err))

	_, err = backend.GetProject(ctx, "my-cool-project")
	assert.True(t, errs.IsNotFound(err))

	_, err = backend.UpdateProject(ctx, "missing", found)
	assert.True(t, errs.IsNotFound(err))
}

func TestBackend_ContactInfo(t *testing.T) {
	ctx := context.Background()
	backend := NewBackend(setupTestDB(t), nil, nil)

	_, err := backend.GetContactInfo(ctx)
	assert.True(t, errs.IsNotFound(err))

	info := models.ContactInfo{Email: "hi@example.com", Location: "Lisbon"}
	saved, err := backend.UpdateContactInfo(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, info, saved)

	got, err := backend.GetContactInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestBackend_Assets(t *testing.T) {
	ctx := context.Background()

	t.Run("upload and delete", func(t *testing.T) {
		assets := &MockAssetStore{}
		assets.On("Upload", mock.Anything, []byte("img"), "projects", "images", "a.png").
			Return("https://cdn.dev/projects/images/x.png", nil)
		assets.On("Delete", mock.Anything, "https://cdn.dev/projects/images/x.png", "projects").Return(nil)

		backend := NewBackend(setupTestDB(t), assets, nil)
		url, err := backend.UploadAsset(ctx, []byte("img"), "projects", "images", "a.png")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.dev/projects/images/x.png", url)
		require.NoError(t, backend.DeleteAsset(ctx, url, "projects"))
		assets.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		assets := &MockAssetStore{}
		assets.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("bucket not found"))

		backend := NewBackend(setupTestDB(t), assets, nil)
		_, err := backend.UploadAsset(ctx, []byte("img"), "projects", "images", "a.png")
		assert.ErrorIs(t, err, errs.ErrStorage)
	})

	t.Run("not configured", func(t *testing.T) {
		backend := NewBackend(setupTestDB(t), nil, nil)
		err := backend.DeleteAsset(ctx, "https://cdn.dev/projects/x.png", "projects")
		assert.ErrorIs(t, err, errs.ErrStorage)
	})
}

func TestBackend_Auth(t *testing.T) {
	ctx := context.Background()
	admin := models.User{ID: "u1", Email: "admin@example.com"}

	t.Run("sign in, session, sign out", func(t *testing.T) {
		provider := &MockProvider{}
		provider.On("SignIn", mock.Anything, "admin@example.com", "secret").Return("tok", admin, nil)
		provider.On("GetUser", mock.Anything, "tok").Return(admin, nil)
		provider.On("Logout", mock.Anything, "tok").Return(nil)

		backend := NewBackend(setupTestDB(t), nil, auth.NewAuthenticator(provider, ""))

		token, user, err := backend.Authenticate(ctx, "admin@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, admin, user)
		assert.Equal(t, "tok", token)

		verified, err := backend.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, admin, verified)

		_, err = backend.VerifyToken(ctx, "forged")
		assert.True(t, errs.IsUnauthorized(err))

		current, err := backend.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, &admin, current)

		require.NoError(t, backend.SignOut(ctx))
		current, err = backend.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, current)
	})

	t.Run("not configured", func(t *testing.T) {
		backend := NewBackend(setupTestDB(t), nil, nil)

		_, _, err := backend.Authenticate(ctx, "admin@example.com", "secret")
		assert.True(t, errs.IsAuthRejected(err))
		assert.Equal(t, noAuthMessage, errs.UserMessage(err))

		_, err = backend.VerifyToken(ctx, "tok")
		assert.True(t, errs.IsUnauthorized(err))

		current, err := backend.CurrentSession(ctx)
		assert.NoError(t, err)
		assert.Nil(t, current)
	})
}
