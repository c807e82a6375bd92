package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type analyticsHandler struct {
	responder Responder
	logger    zerolog.Logger
	analytics *services.AnalyticsService
}

func newAnalyticsHandler(analytics *services.AnalyticsService) analyticsHandler {
	logger := log.With().Str("handlerName", "analyticsHandler").Logger()

	return analyticsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		analytics: analytics,
	}
}

func (h analyticsHandler) getAnalytics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.analytics.Compute(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, result, "")
	}
}
