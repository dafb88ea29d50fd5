package catalog

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rpupo63/portfolio-content-backend/models"
)

// All is the category that matches every project
const All = "all"

// FilterState holds the three predicates of the project catalog
type FilterState struct {
	ActiveCategory string   `json:"activeCategory"`
	ActiveTags     []string `json:"activeTags"`
	SearchQuery    string   `json:"searchQuery"`
}

func DefaultFilterState() FilterState {
	return FilterState{ActiveCategory: All, ActiveTags: []string{}}
}

// Matches reports whether p passes the category, tag and search predicates. Every
// active tag must be present on the project. Search is a case-insensitive substring
// match; a blank query passes everything. A query made only of letters, digits and
// spaces also ignores punctuation in the text, so "ecom" finds "E-Commerce", while a
// query with punctuation of its own, such as "c++", must appear as typed.
func (f FilterState) Matches(p models.Project) bool {
	if f.ActiveCategory != "" && f.ActiveCategory != All && p.Category != f.ActiveCategory {
		return false
	}

	for _, tag := range f.ActiveTags {
		if !contains(p.Tags, tag) {
			return false
		}
	}

	query := strings.ToLower(strings.TrimSpace(f.SearchQuery))
	if query == "" {
		return true
	}
	normalize := strings.ToLower
	if fold(query) == query {
		normalize = fold
	}

	if strings.Contains(normalize(p.Title), query) || strings.Contains(normalize(p.Description), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(normalize(tag), query) {
			return true
		}
	}
	return false
}

// fold lowercases s and drops everything but letters, digits and spaces.
func fold(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, s)
}

// Apply returns the projects that match state, in source order.
func Apply(projects []models.Project, state FilterState) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if state.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists All followed by each distinct category in first-seen order.
func Categories(projects []models.Project) []string {
	seen := map[string]bool{All: true}
	out := []string{All}
	for _, p := range projects {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// Tags lists every tag used by any project, sorted.
func Tags(projects []models.Project) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range projects {
		for _, tag := range p.Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
