package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-content-backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectRow is the stored shape of a project
type ProjectRow struct {
	ID              string                      `gorm:"primaryKey;size:36"`
	Slug            string                      `gorm:"size:255;not null;uniqueIndex"`
	Title           string                      `gorm:"type:text;not null"`
	Description     string                      `gorm:"type:text"`
	LongDescription string                      `gorm:"type:text"`
	Category        string                      `gorm:"size:255;index"`
	FeaturedImage   string                      `gorm:"type:text"`
	Screenshots     datatypes.JSONSlice[string] `gorm:"not null"`
	ClientName      string                      `gorm:"type:text"`
	CompletionDate  string                      `gorm:"size:32"`
	ProjectURL      string                      `gorm:"type:text"`
	GithubURL       string                      `gorm:"type:text"`
	Featured        bool                        `gorm:"not null;default:false"`
	CreatedAt       time.Time                   `gorm:"index"`
	UpdatedAt       time.Time
	Tags            []ProjectTagRow `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ProjectRow) TableName() string { return "projects" }

// ProjectTagRow represents a tag associated with a project. Position keeps the
// order the tags were entered in.
type ProjectTagRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	ProjectID string `gorm:"size:36;not null;index:idx_project_tag_project_id;uniqueIndex:idx_project_tag_unique"`
	Value     string `gorm:"size:255;not null;uniqueIndex:idx_project_tag_unique"`
	Position  int    `gorm:"not null;default:0"`
}

func (ProjectTagRow) TableName() string { return "project_tags" }

func (t *ProjectTagRow) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ContactRow stores the single contact record under ContactRowID
type ContactRow struct {
	ID          uint   `gorm:"primaryKey"`
	Email       string `gorm:"type:text"`
	Phone       string `gorm:"type:text"`
	Location    string `gorm:"type:text"`
	Description string `gorm:"type:text"`
	UpdatedAt   time.Time
}

func (ContactRow) TableName() string { return "contact" }

// ContactRowID is the primary key of the contact singleton.
const ContactRowID uint = 1

// AllRows lists every table this package manages, in migration order.
func AllRows() []any {
	return []any{&ProjectRow{}, &ProjectTagRow{}, &ContactRow{}}
}

func projectRowFrom(p models.Project) ProjectRow {
	p = p.Normalize()
	row := ProjectRow{
		ID:              p.ID,
		Slug:            p.Slug,
		Title:           p.Title,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Category:        p.Category,
		FeaturedImage:   p.FeaturedImage,
		Screenshots:     datatypes.JSONSlice[string](p.Screenshots),
		ClientName:      p.ClientName,
		CompletionDate:  p.CompletionDate,
		ProjectURL:      p.ProjectURL,
		GithubURL:       p.GithubURL,
		Featured:        p.Featured,
		CreatedAt:       p.CreatedAt,
	}
	row.Tags = tagRows(p.Tags)
	return row
}

// tagRows drops repeated values, keeping the first occurrence's position.
func tagRows(tags []string) []ProjectTagRow {
	seen := make(map[string]struct{}, len(tags))
	rows := make([]ProjectTagRow, 0, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		rows = append(rows, ProjectTagRow{Value: tag, Position: len(rows)})
	}
	return rows
}

func (r ProjectRow) toModel() models.Project {
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Value)
	}
	screenshots := []string(r.Screenshots)
	if screenshots == nil {
		screenshots = []string{}
	}
	return models.Project{
		ID: r.ID,
		Draft: models.Draft{
			Slug:            r.Slug,
			Title:           r.Title,
			Description:     r.Description,
			LongDescription: r.LongDescription,
			Category:        r.Category,
			Tags:            tags,
			FeaturedImage:   r.FeaturedImage,
			Screenshots:     screenshots,
			ClientName:      r.ClientName,
			CompletionDate:  r.CompletionDate,
			ProjectURL:      r.ProjectURL,
			GithubURL:       r.GithubURL,
			Featured:        r.Featured,
		},
		CreatedAt: r.CreatedAt,
	}
}

func contactRowFrom(c models.ContactInfo) ContactRow {
	return ContactRow{
		ID:          ContactRowID,
		Email:       c.Email,
		Phone:       c.Phone,
		Location:    c.Location,
		Description: c.Description,
	}
}

func (r ContactRow) toModel() models.ContactInfo {
	return models.ContactInfo{
		Email:       r.Email,
		Phone:       r.Phone,
		Location:    r.Location,
		Description: r.Description,
	}
}
