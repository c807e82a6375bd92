package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/images"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipartOverhead leaves room for the form boundaries and the folder field around a maximal file.
const multipartOverhead = 1 << 20

type imageHandler struct {
	responder Responder
	logger    zerolog.Logger
	images    *images.Service
	metrics   *metrics
}

func newImageHandler(svc *images.Service, m *metrics) imageHandler {
	logger := log.With().Str("handlerName", "imageHandler").Logger()

	return imageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		images:    svc,
		metrics:   m,
	}
}

// uploadImage accepts a multipart form with a "file" part and an optional "folder" field.
// @Router /api/upload [post]
func (h imageHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, images.MaxUploadBytes+multipartOverhead)

		file, header, err := r.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			switch {
			case errors.As(err, &maxErr):
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(images.MaxUploadBytes))
			case errors.Is(err, http.ErrMissingFile):
				h.responder.WriteError(w, errs.NewBadRequestError("No file provided"))
			default:
				h.responder.WriteError(w, errs.NewBadRequestError("Invalid multipart form"))
			}
			return
		}
		defer file.Close()

		result, err := h.images.Upload(r.Context(), images.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
			Folder:      r.FormValue("folder"),
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.metrics.imagesUploaded.Inc()
		h.responder.WriteJSON(w, http.StatusOK, envelope{
			Success: true,
			Data:    result.Asset,
			Message: "Image uploaded successfully",
			Warning: result.Warning,
		})
	}
}

// @Router /api/upload [get]
func (h imageHandler) getImageInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, err := h.images.Info(r.Context(), r.URL.Query().Get("publicId"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteData(w, http.StatusOK, asset, "")
	}
}

// @Router /api/upload [delete]
func (h imageHandler) deleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.images.Delete(r.Context(), r.URL.Query().Get("publicId"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, envelope{
			Success: true,
			Message: "Image deleted successfully",
			Warning: result.Warning,
		})
	}
}

// listImages reads the local mirror, not the object store.
// @Router /api/images [get]
func (h imageHandler) listImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))

		assets, err := h.images.List(r.Context(), r.URL.Query().Get("folder"), limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		total := len(assets)
		h.responder.WriteJSON(w, http.StatusOK, envelope{Success: true, Data: assets, Total: &total})
	}
}

// @Router /api/images/reconcile [post]
func (h imageHandler) reconcileImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := h.images.Reconcile(r.Context(), r.URL.Query().Get("folder"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("folder", report.Folder).
			Int("scanned", report.Scanned).
			Int("upserted", report.Upserted).
			Int64("removed", report.Removed).
			Msg("image mirror reconciled")
		h.responder.WriteData(w, http.StatusOK, report, "Image mirror reconciled")
	}
}
