package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	fallbackSiteTitle       = "Portfolio"
	fallbackSiteDescription = "A modern portfolio website"
	fallbackContactEmail    = "contact@example.com"
)

// settingsHandler serves a view joining the profile (title, description, email) with the stored toggles.
type settingsHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newSettingsHandler(db database.Database) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()

	return settingsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

func newSettingsResponse(profile *models.Profile, settings models.Settings) settingsResponse {
	resp := settingsResponse{
		SiteTitle:          fallbackSiteTitle,
		SiteDescription:    fallbackSiteDescription,
		ContactEmail:       fallbackContactEmail,
		MaintenanceMode:    settings.MaintenanceMode,
		AnalyticsEnabled:   settings.AnalyticsEnabled,
		EmailNotifications: settings.EmailNotifications,
		Theme:              settings.Theme,
	}
	if profile != nil {
		resp.SiteTitle = profile.Name
		resp.SiteDescription = profile.Bio
		resp.ContactEmail = profile.Email
	}
	return resp
}

// getSettings never creates a profile; a missing one falls back to placeholder values.
func (h settingsHandler) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.db.ProfileRepo().Find(r.Context())
		if err != nil && !database.IsNotFound(err) {
			h.responder.WriteError(w, storeError("fetch", "settings", err))
			return
		}

		settings, err := h.db.SettingsRepo().Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, storeError("fetch", "settings", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, newSettingsResponse(profile, *settings), "")
	}
}

// updateSettings writes the profile-derived fields and the toggles in one transaction.
func (h settingsHandler) updateSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settingsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var resp settingsResponse
		err := h.db.Transaction(r.Context(), func(tx database.Database) error {
			profile, err := tx.ProfileRepo().Get(r.Context())
			if err != nil {
				return err
			}
			profile.Name = req.SiteTitle
			profile.Bio = req.SiteDescription
			profile.Email = req.ContactEmail
			if err := tx.ProfileRepo().Upsert(r.Context(), profile); err != nil {
				return err
			}

			settings, err := tx.SettingsRepo().Get(r.Context())
			if err != nil {
				return err
			}
			req.apply(settings)
			if err := tx.SettingsRepo().Save(r.Context(), settings); err != nil {
				return err
			}

			resp = newSettingsResponse(profile, *settings)
			return nil
		})
		if err != nil {
			h.responder.WriteError(w, storeError("update", "settings", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, resp, "Settings updated successfully")
	}
}
