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

const duplicateSkillMessage = "Skill with this name and category already exists"

type skillHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newSkillHandler(db database.Database) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()

	return skillHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

func (h skillHandler) getAllSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromQuery(r)
		filter := database.SkillFilter{
			Category: r.URL.Query().Get("category"),
			Search:   r.URL.Query().Get("search"),
		}

		skills, total, err := h.db.SkillRepo().FindAll(r.Context(), filter, page)
		if err != nil {
			h.responder.WriteError(w, storeError("fetch", "skills", err))
			return
		}

		h.responder.WriteList(w, skills, database.NewPagination(page, total))
	}
}

func (h skillHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSkillRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill := req.toModel()
		err := h.db.Transaction(r.Context(), func(tx database.Database) error {
			exists, err := tx.SkillRepo().Exists(r.Context(), skill.Name, skill.Category, "")
			if err != nil {
				return err
			}
			if exists {
				return errs.NewAlreadyExists(duplicateSkillMessage)
			}
			return tx.SkillRepo().Add(r.Context(), &skill)
		})
		if err != nil {
			h.responder.WriteError(w, skillWriteError("create", err))
			return
		}

		h.responder.WriteData(w, http.StatusCreated, skill, "Skill created successfully")
	}
}

// updateSkill re-checks the (name, category) pair against every other skill.
func (h skillHandler) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req updateSkillRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var skill *models.Skill
		err := h.db.Transaction(r.Context(), func(tx database.Database) error {
			existing, err := tx.SkillRepo().FindByID(r.Context(), id)
			if err != nil {
				return err
			}
			req.apply(existing)

			exists, err := tx.SkillRepo().Exists(r.Context(), existing.Name, existing.Category, id)
			if err != nil {
				return err
			}
			if exists {
				return errs.NewAlreadyExists(duplicateSkillMessage)
			}

			if err := tx.SkillRepo().Update(r.Context(), existing); err != nil {
				return err
			}
			skill = existing
			return nil
		})
		if err != nil {
			h.responder.WriteError(w, skillWriteError("update", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, skill, "Skill updated successfully")
	}
}

func (h skillHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.db.SkillRepo().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			h.responder.WriteError(w, storeError("delete", "skill", err))
			return
		}

		h.responder.WriteMessage(w, "Skill deleted successfully")
	}
}

func skillWriteError(operation string, err error) error {
	if errs.IsUniqueConstraintViolationError(err) {
		return errs.NewAlreadyExists(duplicateSkillMessage)
	}
	return storeError(operation, "skill", err)
}
