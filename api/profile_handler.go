package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type profileHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newProfileHandler(db database.Database) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// getProfile returns the singleton profile, creating the default one on first read.
func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.db.ProfileRepo().Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, storeError("fetch", "profile", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, profile, "")
	}
}

func (h profileHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var stored *models.Profile
		err := h.db.Transaction(r.Context(), func(tx database.Database) error {
			profile, err := tx.ProfileRepo().Get(r.Context())
			if err != nil {
				return err
			}
			req.apply(profile)
			if err := tx.ProfileRepo().Upsert(r.Context(), profile); err != nil {
				return err
			}
			stored, err = tx.ProfileRepo().Find(r.Context())
			return err
		})
		if err != nil {
			h.responder.WriteError(w, storeError("update", "profile", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, stored, "Profile updated successfully")
	}
}
