package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const duplicateSlugMessage = "Project with this slug already exists"

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newProjectHandler(db database.Database) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// getAllProjects lists projects, newest first
// @Summary List projects
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param featured query bool false "Only featured (true) or non-featured (false) projects"
// @Param search query string false "Matches title, description and technologies"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromQuery(r)
		filter := database.ProjectFilter{
			Featured: boolQuery(r, "featured"),
			Search:   r.URL.Query().Get("search"),
		}

		projects, total, err := h.db.ProjectRepo().FindAll(r.Context(), filter, page)
		if err != nil {
			h.responder.WriteError(w, storeError("fetch", "projects", err))
			return
		}

		h.responder.WriteList(w, projects, database.NewPagination(page, total))
	}
}

// getProject returns one project
// @Router /api/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.db.ProjectRepo().FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, storeError("fetch", "project", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, project, "")
	}
}

// createProject stores a new project. The slug is derived from the title unless one is given.
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProjectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := req.toModel()
		if project.Slug == "" {
			h.responder.WriteError(w, errs.NewInvalidFieldError("slug", "Slug must contain at least one letter or digit"))
			return
		}

		err := h.db.Transaction(r.Context(), func(tx database.Database) error {
			taken, err := tx.ProjectRepo().SlugTaken(r.Context(), project.Slug, "")
			if err != nil {
				return err
			}
			if taken {
				return errs.NewAlreadyExists(duplicateSlugMessage)
			}
			return tx.ProjectRepo().Add(r.Context(), &project)
		})
		if err != nil {
			h.responder.WriteError(w, projectWriteError("create", err))
			return
		}

		h.logger.Info().Str("projectID", project.ID).Str("slug", project.Slug).Msg("project created")
		h.responder.WriteData(w, http.StatusCreated, project, "Project created successfully")
	}
}

// updateProject applies a partial update. Changing the title regenerates the slug
// unless the request carries its own.
// @Router /api/projects/{id} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req updateProjectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var project *models.Project
		err := h.db.Transaction(r.Context(), func(tx database.Database) error {
			existing, err := tx.ProjectRepo().FindByID(r.Context(), id)
			if err != nil {
				return err
			}

			titleChanged := req.Title != nil && *req.Title != existing.Title
			req.apply(existing)

			switch {
			case req.Slug != nil:
				existing.Slug = models.Slugify(*req.Slug)
			case titleChanged:
				existing.Slug = models.Slugify(existing.Title)
			}
			if existing.Slug == "" {
				return errs.NewInvalidFieldError("slug", "Slug must contain at least one letter or digit")
			}

			taken, err := tx.ProjectRepo().SlugTaken(r.Context(), existing.Slug, id)
			if err != nil {
				return err
			}
			if taken {
				return errs.NewAlreadyExists(duplicateSlugMessage)
			}

			if err := tx.ProjectRepo().Update(r.Context(), existing); err != nil {
				return err
			}
			project = existing
			return nil
		})
		if err != nil {
			h.responder.WriteError(w, projectWriteError("update", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, project, "Project updated successfully")
	}
}

// @Router /api/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := h.db.ProjectRepo().Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, storeError("delete", "project", err))
			return
		}

		h.logger.Info().Str("projectID", id).Msg("project deleted")
		h.responder.WriteMessage(w, "Project deleted successfully")
	}
}

// projectWriteError maps a unique index hit that slipped past the pre-check onto the slug message.
func projectWriteError(operation string, err error) error {
	if errs.IsUniqueConstraintViolationError(err) {
		return errs.NewAlreadyExists(duplicateSlugMessage)
	}
	return storeError(operation, "project", err)
}
