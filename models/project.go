package models

import (
	"regexp"
	"strings"
	"time"
)

// MaxScreenshots is the number of screenshot slots a project can hold.
const MaxScreenshots = 3

// Draft holds the editable fields of a project. It is what the admin form submits
// for creation, before the data service assigns an id and a creation time.
type Draft struct {
	Slug            string   `json:"slug"`
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	FeaturedImage   string   `json:"featuredImage"`
	Screenshots     []string `json:"screenshots" validate:"max=3"`
	ClientName      string   `json:"clientName,omitempty"`
	CompletionDate  string   `json:"completionDate,omitempty"`
	ProjectURL      string   `json:"projectUrl,omitempty"`
	GithubURL       string   `json:"githubUrl,omitempty"`
	Featured        bool     `json:"featured"`
}

// Project represents one portfolio entry
type Project struct {
	ID string `json:"id"`
	Draft
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize enforces the draft invariants: tags are never nil and screenshots
// hold at most MaxScreenshots slots. A missing slug is derived from the title.
func (d Draft) Normalize() Draft {
	if d.Tags == nil {
		d.Tags = []string{}
	} else {
		d.Tags = append([]string(nil), d.Tags...)
	}
	if d.Screenshots == nil {
		d.Screenshots = []string{}
	} else {
		if len(d.Screenshots) > MaxScreenshots {
			d.Screenshots = d.Screenshots[:MaxScreenshots]
		}
		d.Screenshots = append([]string(nil), d.Screenshots...)
	}
	if strings.TrimSpace(d.Slug) == "" {
		d.Slug = Slugify(d.Title)
	}
	return d
}

// Normalize returns a copy of the project with the draft invariants applied.
func (p Project) Normalize() Project {
	p.Draft = p.Draft.Normalize()
	return p
}

// Clone returns a deep copy so callers can never alias the slices of a stored record.
func (p Project) Clone() Project {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	if p.Screenshots != nil {
		p.Screenshots = append([]string(nil), p.Screenshots...)
	}
	return p
}

// ImageURLs lists the stored images referenced by the project, skipping empty slots.
func (p Project) ImageURLs() []string {
	var urls []string
	if p.FeaturedImage != "" {
		urls = append(urls, p.FeaturedImage)
	}
	for _, s := range p.Screenshots {
		if s != "" {
			urls = append(urls, s)
		}
	}
	return urls
}

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Slugify lowercases the title, strips everything that is neither a word character
// nor whitespace, and collapses whitespace runs into hyphens.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = nonWordRe.ReplaceAllString(s, "")
	return whitespaceRe.ReplaceAllString(s, "-")
}
