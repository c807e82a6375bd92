package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticator verifies admin credentials against stored bcrypt hashes.
type Authenticator struct {
	users     UserFinder
	hasher    Hasher
	dummyHash string
}

func NewAuthenticator(users UserFinder, hasher Hasher) (*Authenticator, error) {
	// Compared against when the email is unknown so both paths cost one bcrypt round.
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &Authenticator{users: users, hasher: hasher, dummyHash: dummy}, nil
}

// Authorize returns the user owning email when password matches. Unknown emails and wrong
// passwords both yield errs.ErrInvalidCredentials.
func (a *Authenticator) Authorize(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, errs.NewInvalidCredentialsError()
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hash := a.dummyHash
	if user != nil {
		hash = user.Password
	}

	ok, err := a.hasher.Compare(hash, password)
	if err != nil {
		return nil, err
	}
	if !ok || user == nil {
		return nil, errs.NewInvalidCredentialsError()
	}
	return user, nil
}
