package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with every table migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return db
}

func draftProject(title, category string, tags []string, createdAt time.Time) models.Project {
	return models.Project{
		Draft: models.Draft{
			Title:       title,
			Category:    category,
			Tags:        tags,
			Description: title + " description",
		},
		CreatedAt: createdAt,
	}
}

func TestProjectRepo_AddAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepo(setupTestDB(t))

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	older, err := repo.Add(ctx, draftProject("Older Project", "web", []string{"go", "sql"}, base))
	require.NoError(t, err)
	newer, err := repo.Add(ctx, draftProject("Newer Project!", "mobile", []string{"swift", "api", "go"}, base.Add(time.Hour)))
	require.NoError(t, err)

	t.Run("assigns id and derives slug", func(t *testing.T) {
		assert.NotEmpty(t, older.ID)
		assert.Equal(t, "newer-project", newer.Slug)
		assert.NotNil(t, newer.Screenshots)
	})

	t.Run("find all is newest first with tags in entry order", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.ID, all[0].ID)
		assert.Equal(t, older.ID, all[1].ID)
		assert.Equal(t, []string{"swift", "api", "go"}, all[0].Tags)
	})

	t.Run("find by slug", func(t *testing.T) {
		found, err := repo.FindBySlug(ctx, "older-project")
		require.NoError(t, err)
		assert.Equal(t, older.ID, found.ID)
		assert.Equal(t, []string{"go", "sql"}, found.Tags)
	})

	t.Run("missing slug", func(t *testing.T) {
		_, err := repo.FindBySlug(ctx, "nope")
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		_, err := repo.Add(ctx, draftProject("Older Project", "web", nil, base))
		assert.Error(t, err)
	})
}

func TestProjectRepo_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepo(setupTestDB(t))

	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := repo.Add(ctx, draftProject("Portfolio", "web", []string{"react", "go"}, createdAt))
	require.NoError(t, err)

	p.Title = "Portfolio v2"
	p.Tags = []string{"go", "htmx"}
	p.Screenshots = []string{"", "https://cdn/shot.png"}
	p.Featured = true
	p.CreatedAt = time.Time{}

	updated, err := repo.Update(ctx, p.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio v2", updated.Title)
	assert.Equal(t, []string{"go", "htmx"}, updated.Tags)
	assert.Equal(t, []string{"", "https://cdn/shot.png"}, updated.Screenshots)
	assert.True(t, updated.Featured)
	assert.True(t, createdAt.Equal(updated.CreatedAt), "creation time is kept")

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.Update(ctx, "does-not-exist", p)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})
}

func TestProjectRepo_Delete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewProjectRepo(db)

	keep, err := repo.Add(ctx, draftProject("Keep", "web", []string{"a"}, time.Now()))
	require.NoError(t, err)
	drop, err := repo.Add(ctx, draftProject("Drop", "web", []string{"a", "b"}, time.Now()))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, drop.ID))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)

	var orphanTags int64
	require.NoError(t, db.Model(&ProjectTagRow{}).Where("project_id = ?", drop.ID).Count(&orphanTags).Error)
	assert.Zero(t, orphanTags)

	assert.True(t, errors.Is(repo.Delete(ctx, drop.ID), gorm.ErrRecordNotFound))
}

func TestContactRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepo(setupTestDB(t))

	_, err := repo.Get(ctx)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	saved, err := repo.Save(ctx, models.DefaultContactInfo())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultContactInfo(), saved)

	changed := saved
	changed.Phone = "+1 555 0100"
	saved, err = repo.Save(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, "+1 555 0100", saved.Phone)

	var rows int64
	require.NoError(t, repo.db.Model(&ContactRow{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestColumnMismatches(t *testing.T) {
	db := setupTestDB(t)

	report, err := ColumnMismatches(db)
	require.NoError(t, err)
	assert.Empty(t, report)

	require.NoError(t, db.Exec("ALTER TABLE contact ADD COLUMN legacy_note text").Error)
	report, err = ColumnMismatches(db)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"contact": {"legacy_note"}}, report)
}
