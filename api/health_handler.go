package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          database.Database
	startupTime time.Time
}

func newHealthHandler(db database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		startupTime: startupTime,
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("database ping failed")
			h.responder.WriteError(w, errs.NewServiceUnavailableError("Database unavailable"))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, healthResponse{
			Status: "ok",
			Uptime: time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
