package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApiErrKeepsPublicMessageSeparateFromKind(t *testing.T) {
	err := NewNotFoundError("Project not found")

	assert.Equal(t, "Project not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), ErrNotFound))
}

func TestNewDatabaseErrorClassifiesBySentinel(t *testing.T) {
	dup := NewDatabaseError("create", "project", fmt.Errorf("insert: %w", ErrUniqueConstraintViolation))
	assert.Equal(t, http.StatusBadRequest, dup.StatusCode)
	assert.Equal(t, "Project already exists", dup.Error())
	assert.True(t, IsAlreadyExists(dup))

	missing := NewDatabaseError("update", "skill", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Equal(t, "Skill not found", missing.Error())

	generic := NewDatabaseError("fetch", "projects", errors.New("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, generic.StatusCode)
	assert.Equal(t, "Failed to fetch projects", generic.Error())
	assert.Contains(t, generic.GetFullError(), "connection refused")
}

func TestNewDatabaseErrorReportsUnreachableStore(t *testing.T) {
	err := NewDatabaseError("fetch", "projects", fmt.Errorf("%w: dial tcp: connection refused", ErrDatabaseConnection))

	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
	assert.Equal(t, "Failed to fetch projects", err.Error())
	assert.Equal(t, "Unable to connect to database", err.Details)
	assert.True(t, IsDatabaseConnectionError(err))
}

func TestNewValidationErrorCarriesIssues(t *testing.T) {
	err := NewValidationError([]Issue{{Path: "title", Message: "Title is required"}})

	assert.Equal(t, "Validation error", err.Error())
	assert.True(t, IsValidation(err))
	assert.True(t, IsBadRequest(err))
	assert.Len(t, err.Issues, 1)
}

func TestNewUpstreamErrorUsesUpstreamMessage(t *testing.T) {
	err := NewUpstreamError("cloudinary", errors.New("Invalid image file"))

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, "Invalid image file", err.Error())
	assert.True(t, IsUpstreamError(err))
}

func TestAlreadyExistsIsBadRequest(t *testing.T) {
	err := NewAlreadyExists("Project with this slug already exists")

	assert.Equal(t, "Project with this slug already exists", err.Error())
	assert.True(t, IsBadRequest(err))
	assert.False(t, IsNotFound(err))
}
