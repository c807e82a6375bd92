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

type experienceHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newExperienceHandler(db database.Database) experienceHandler {
	logger := log.With().Str("handlerName", "experienceHandler").Logger()

	return experienceHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// checkExperienceDates enforces the date rules on the merged record.
func checkExperienceDates(e models.Experience) error {
	if e.EndDate == nil {
		return nil
	}
	if !e.EndDate.After(e.StartDate) {
		return errs.NewBadRequestError("End date must be after start date")
	}
	if e.Current {
		return errs.NewBadRequestError("Current experience cannot have an end date")
	}
	return nil
}

func (h experienceHandler) getAllExperiences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromQuery(r)
		filter := database.ExperienceFilter{
			Current: boolQuery(r, "current"),
			Search:  r.URL.Query().Get("search"),
		}

		experiences, total, err := h.db.ExperienceRepo().FindAll(r.Context(), filter, page)
		if err != nil {
			h.responder.WriteError(w, storeError("fetch", "experiences", err))
			return
		}

		h.responder.WriteList(w, experiences, database.NewPagination(page, total))
	}
}

func (h experienceHandler) getExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		experience, err := h.db.ExperienceRepo().FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, storeError("fetch", "experience", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, experience, "")
	}
}

func (h experienceHandler) createExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createExperienceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		experience, err := req.toModel()
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("startDate", "Invalid date-time"))
			return
		}
		if err := checkExperienceDates(experience); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.db.ExperienceRepo().Add(r.Context(), &experience); err != nil {
			h.responder.WriteError(w, storeError("create", "experience", err))
			return
		}

		h.responder.WriteData(w, http.StatusCreated, experience, "Experience created successfully")
	}
}

// updateExperience merges the request into the stored record before checking the date rules,
// so a partial update cannot leave an invalid combination behind.
func (h experienceHandler) updateExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req updateExperienceRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var experience *models.Experience
		err := h.db.Transaction(r.Context(), func(tx database.Database) error {
			existing, err := tx.ExperienceRepo().FindByID(r.Context(), id)
			if err != nil {
				return err
			}
			if err := req.apply(existing); err != nil {
				return errs.NewInvalidFieldError("startDate", "Invalid date-time")
			}
			if err := checkExperienceDates(*existing); err != nil {
				return err
			}
			if err := tx.ExperienceRepo().Update(r.Context(), existing); err != nil {
				return err
			}
			experience = existing
			return nil
		})
		if err != nil {
			h.responder.WriteError(w, storeError("update", "experience", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, experience, "Experience updated successfully")
	}
}

func (h experienceHandler) deleteExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.db.ExperienceRepo().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			h.responder.WriteError(w, storeError("delete", "experience", err))
			return
		}

		h.responder.WriteMessage(w, "Experience deleted successfully")
	}
}
