package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
)

const maxJSONBodyBytes = 1 << 20

// decodeJSON reads a single JSON document from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewBadRequestError("Request body too large")
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// pageFromQuery reads page and limit. Missing or invalid values fall back to the defaults.
func pageFromQuery(r *http.Request) database.Page {
	q := r.URL.Query()
	number, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return database.NewPage(number, limit)
}

// boolQuery returns nil when key is absent; any value other than "true" reads as false.
func boolQuery(r *http.Request, key string) *bool {
	q := r.URL.Query()
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key) == "true"
	return &v
}

// storeError keeps errors that are already classified and classifies the rest as store failures.
func storeError(operation, entity string, err error) error {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return errs.NewDatabaseError(operation, entity, err)
}
