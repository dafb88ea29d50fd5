package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-content-backend/catalog"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxProjectBody = 1 << 20

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     *content.Store
}

func newProjectHandler(store *content.Store) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// filterFromQuery reads ?category=&tag=&q= into a filter state
func filterFromQuery(r *http.Request) catalog.FilterState {
	q := r.URL.Query()
	state := catalog.DefaultFilterState()
	if category := q.Get("category"); category != "" {
		state.ActiveCategory = category
	}
	for _, tag := range q["tag"] {
		if tag != "" {
			state.ActiveTags = append(state.ActiveTags, tag)
		}
	}
	state.SearchQuery = q.Get("q")
	return state
}

// getAllProjects lists projects newest first
// @Summary Get all projects
// @Param category query string false "Category, or all"
// @Param tag query []string false "Tags that must all be present"
// @Param q query string false "Search text"
// @Param featured query bool false "Only featured projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects := catalog.Apply(h.store.Projects(), filterFromQuery(r))

		if raw := r.URL.Query().Get("featured"); raw != "" {
			featured, err := strconv.ParseBool(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("featured", "must be true or false"))
				return
			}
			if featured {
				projects = onlyFeatured(projects)
			}
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

func onlyFeatured(projects []models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// getProject retrieves a project by slug
// @Summary Get project
// @Param slug path string true "Project slug"
// @Router /projects/{slug} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		project, err := h.store.ProjectBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// decodeProject reads a project body in either field naming convention
func (h projectHandler) decodeProject(r *http.Request) (models.Project, error) {
	bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxProjectBody))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read request body")
		return models.Project{}, errs.NewBadRequestError("failed to read request body")
	}

	project, err := models.DecodeProject(bodyBytes)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to decode project request body")
		return models.Project{}, errs.NewInvalidJSONError(err)
	}
	if err := validateStruct(project.Draft); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// createProject creates a new project
// @Summary Create project
// @Param project body models.Draft true "Project data"
// @Success 201 {object} models.Project
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.decodeProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		created, err := h.store.AddProject(r.Context(), project.Draft)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, created)
	}
}

// updateProject replaces an existing project
// @Summary Update project
// @Param projectID path string true "Project ID"
// @Param project body models.Project true "Full project record"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		project, err := h.decodeProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if project.ID != "" && project.ID != projectID {
			h.responder.WriteError(w, errs.NewInvalidFieldError("id", "does not match the URL"))
			return
		}
		project.ID = projectID

		updated, err := h.store.UpdateProject(r.Context(), project)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// deleteProject deletes a project and its images
// @Summary Delete project
// @Param projectID path string true "Project ID"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		if err := h.store.DeleteProject(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, StatusResponse{
			Status:  "success",
			Message: "project deleted successfully",
		})
	}
}
