package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
}

// EnsureAdmin creates the admin account unless a user with email already exists.
// created reports whether this call inserted the row.
func EnsureAdmin(ctx context.Context, users UserStore, hasher auth.Hasher, email, password string) (user *models.User, created bool, err error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, false, errs.NewBadRequestError("Admin email and password are required")
	}

	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, false, errs.NewDatabaseError("fetch", "user", err)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, false, errs.NewInternalErrorWithCause("Failed to hash password", err)
	}

	user = &models.User{Email: email, Password: hash}
	if err := users.Add(ctx, user); err != nil {
		// Another process created it between the lookup and the insert.
		if errors.Is(err, errs.ErrUniqueConstraintViolation) {
			existing, err := users.FindByEmail(ctx, email)
			if err != nil {
				return nil, false, errs.NewDatabaseError("fetch", "user", err)
			}
			return existing, false, nil
		}
		return nil, false, errs.NewDatabaseError("create", "user", err)
	}
	return user, true, nil
}
