package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-content-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func tagsInPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindAll returns all projects, newest first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	var rows []ProjectRow
	err := r.db.WithContext(ctx).
		Preload("Tags", tagsInPosition).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.toModel())
	}
	return projects, nil
}

// FindBySlug returns a project by its slug. gorm.ErrRecordNotFound is returned when none matches.
func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (models.Project, error) {
	return r.findOne(r.db.WithContext(ctx), "slug = ?", slug)
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id string) (models.Project, error) {
	return r.findOne(r.db.WithContext(ctx), "id = ?", id)
}

func (r *ProjectRepo) findOne(db *gorm.DB, query string, arg string) (models.Project, error) {
	var row ProjectRow
	if err := db.Preload("Tags", tagsInPosition).Where(query, arg).First(&row).Error; err != nil {
		return models.Project{}, err
	}
	return row.toModel(), nil
}

// Add inserts a new project with its tags and returns the stored record.
// An empty ID or creation time is assigned here.
func (r *ProjectRepo) Add(ctx context.Context, project models.Project) (models.Project, error) {
	row := projectRowFrom(project)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	row.CreatedAt = row.CreatedAt.UTC()
	tags := row.Tags
	row.Tags = nil

	var created models.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if err := insertTags(tx, row.ID, tags); err != nil {
			return err
		}
		var err error
		created, err = r.findOne(tx, "id = ?", row.ID)
		return err
	})
	return created, err
}

// Update replaces every field of an existing project, tags included.
// The creation time is kept from the stored record.
func (r *ProjectRepo) Update(ctx context.Context, id string, project models.Project) (models.Project, error) {
	row := projectRowFrom(project)
	row.ID = id
	tags := row.Tags
	row.Tags = nil

	var updated models.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ProjectRow{ID: id}).
			Select("*").
			Omit("ID", "CreatedAt", "Tags").
			Updates(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("project_id = ?", id).Delete(&ProjectTagRow{}).Error; err != nil {
			return err
		}
		if err := insertTags(tx, id, tags); err != nil {
			return err
		}
		var err error
		updated, err = r.findOne(tx, "id = ?", id)
		return err
	})
	return updated, err
}

// Delete removes a project and its tags by id
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&ProjectTagRow{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&ProjectRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func insertTags(tx *gorm.DB, projectID string, tags []ProjectTagRow) error {
	if len(tags) == 0 {
		return nil
	}
	for i := range tags {
		tags[i].ProjectID = projectID
	}
	return tx.Create(&tags).Error
}
