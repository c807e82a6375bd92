package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type sitemapHandler struct {
	logger  zerolog.Logger
	sitemap *services.SitemapService
}

func newSitemapHandler(sitemap *services.SitemapService) sitemapHandler {
	return sitemapHandler{
		logger:  log.With().Str("handlerName", "sitemapHandler").Logger(),
		sitemap: sitemap,
	}
}

// getSitemap answers in XML, and in plain text when the document cannot be built.
func (h sitemapHandler) getSitemap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := h.sitemap.Build(r.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("error generating sitemap")
			http.Error(w, "Error generating sitemap", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Header().Set("Cache-Control", services.SitemapCacheControl)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			h.logger.Error().Err(err).Msg("error writing sitemap")
		}
	}
}
