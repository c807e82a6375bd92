package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ContactNotifier is told about every stored contact message.
type ContactNotifier interface {
	Notify(contact models.Contact)
}

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	notifier  ContactNotifier
	metrics   *metrics
}

func newContactHandler(db database.Database, notifier ContactNotifier, m *metrics) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		notifier:  notifier,
		metrics:   m,
	}
}

// submitContact is the public contact form endpoint.
// @Router /api/contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		settings, err := h.db.SettingsRepo().Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, storeError("send", "message", err))
			return
		}
		if settings.MaintenanceMode {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("The site is in maintenance mode"))
			return
		}

		contact := models.Contact{Name: req.Name, Email: req.Email, Message: req.Message}
		if err := h.db.ContactRepo().Add(r.Context(), &contact); err != nil {
			h.responder.WriteError(w, storeError("send", "message", err))
			return
		}

		h.metrics.contactsReceived.Inc()
		h.logger.Info().Str("contactID", contact.ID).Msg("contact message stored")
		if h.notifier != nil {
			h.notifier.Notify(contact)
		}

		h.responder.WriteMessage(w, "Message sent")
	}
}

// getAllContacts lists contact messages, newest first.
// @Router /api/contacts [get]
func (h contactHandler) getAllContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromQuery(r)
		filter := database.ContactFilter{
			Read:   boolQuery(r, "read"),
			Search: r.URL.Query().Get("search"),
		}

		contacts, total, err := h.db.ContactRepo().FindAll(r.Context(), filter, page)
		if err != nil {
			h.responder.WriteError(w, storeError("fetch", "contact messages", err))
			return
		}

		h.responder.WriteList(w, contacts, database.NewPagination(page, total))
	}
}

func (h contactHandler) getContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contact, err := h.db.ContactRepo().FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, storeError("fetch", "contact message", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, contact, "")
	}
}

// updateContact only toggles the read flag.
func (h contactHandler) updateContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req updateContactRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var contact *models.Contact
		err := h.db.Transaction(r.Context(), func(tx database.Database) error {
			if _, err := tx.ContactRepo().FindByID(r.Context(), id); err != nil {
				return err
			}
			if err := tx.ContactRepo().SetRead(r.Context(), id, *req.Read); err != nil {
				return err
			}
			updated, err := tx.ContactRepo().FindByID(r.Context(), id)
			contact = updated
			return err
		})
		if err != nil {
			h.responder.WriteError(w, storeError("update", "contact message", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, contact, "Contact message updated successfully")
	}
}

func (h contactHandler) deleteContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.db.ContactRepo().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			h.responder.WriteError(w, storeError("delete", "contact message", err))
			return
		}

		h.responder.WriteMessage(w, "Contact message deleted successfully")
	}
}
