package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
)

// envelope is the outer shape of every JSON response.
type envelope struct {
	Success    bool                 `json:"success"`
	Data       any                  `json:"data,omitempty"`
	Message    string               `json:"message,omitempty"`
	Warning    string               `json:"warning,omitempty"`
	Pagination *database.Pagination `json:"pagination,omitempty"`
	Total      *int                 `json:"total,omitempty"`
	Error      string               `json:"error,omitempty"`
	Details    any                  `json:"details,omitempty"`
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	// Marshal the data first so a failure can still produce a 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteData writes a success envelope carrying data.
func (r Responder) WriteData(w http.ResponseWriter, status int, data any, message string) {
	r.WriteJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

// WriteMessage writes a success envelope without data.
func (r Responder) WriteMessage(w http.ResponseWriter, message string) {
	r.WriteJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

// WriteList writes a page of results with its pagination block.
func (r Responder) WriteList(w http.ResponseWriter, data any, pagination database.Pagination) {
	r.WriteJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: &pagination})
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unhandled error")
		r.WriteJSON(w, http.StatusInternalServerError, envelope{Error: "Internal Server Error"})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Int("status", apiErr.StatusCode).Msg(apiErr.GetFullError())
	}

	response := envelope{Error: apiErr.Error()}
	if len(apiErr.Issues) > 0 {
		response.Details = apiErr.Issues
	}

	r.WriteJSON(w, apiErr.StatusCode, response)
}
