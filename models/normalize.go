package models

import (
	"encoding/json"
	"time"
)

// projectWire accepts both the camelCase and snake_case spellings that stored rows
// and older admin clients use for the same attribute.
type projectWire struct {
	ID              string     `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Tags            []string   `json:"tags"`
	Screenshots     []string   `json:"screenshots"`
	Featured        bool       `json:"featured"`
	LongDescription string     `json:"longDescription"`
	LongDescSnake   string     `json:"long_description"`
	FeaturedImage   string     `json:"featuredImage"`
	FeaturedSnake   string     `json:"featured_image"`
	ClientName      string     `json:"clientName"`
	ClientSnake     string     `json:"client_name"`
	CompletionDate  string     `json:"completionDate"`
	CompletionSnake string     `json:"completion_date"`
	ProjectURL      string     `json:"projectUrl"`
	ProjectURLSnake string     `json:"project_url"`
	GithubURL       string     `json:"githubUrl"`
	GithubURLSnake  string     `json:"github_url"`
	CreatedAt       *time.Time `json:"createdAt"`
	CreatedAtSnake  *time.Time `json:"created_at"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (w projectWire) project() Project {
	p := Project{
		ID: w.ID,
		Draft: Draft{
			Slug:            w.Slug,
			Title:           w.Title,
			Description:     w.Description,
			LongDescription: firstNonEmpty(w.LongDescription, w.LongDescSnake),
			Category:        w.Category,
			Tags:            w.Tags,
			FeaturedImage:   firstNonEmpty(w.FeaturedImage, w.FeaturedSnake),
			Screenshots:     w.Screenshots,
			ClientName:      firstNonEmpty(w.ClientName, w.ClientSnake),
			CompletionDate:  firstNonEmpty(w.CompletionDate, w.CompletionSnake),
			ProjectURL:      firstNonEmpty(w.ProjectURL, w.ProjectURLSnake),
			GithubURL:       firstNonEmpty(w.GithubURL, w.GithubURLSnake),
			Featured:        w.Featured,
		},
	}
	switch {
	case w.CreatedAt != nil:
		p.CreatedAt = *w.CreatedAt
	case w.CreatedAtSnake != nil:
		p.CreatedAt = *w.CreatedAtSnake
	}
	return p
}

// DecodeProject parses a project payload in either naming convention into the
// canonical Project. The slug is left as sent; use Normalize to derive it.
func DecodeProject(data []byte) (Project, error) {
	var w projectWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Project{}, err
	}
	return w.project(), nil
}
