package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	authenticator *auth.Authenticator
	sessions      *auth.SessionManager
	secureCookies bool
	metrics       *metrics
}

func newAuthHandler(authenticator *auth.Authenticator, sessions *auth.SessionManager, secureCookies bool, m *metrics) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		authenticator: authenticator,
		sessions:      sessions,
		secureCookies: secureCookies,
		metrics:       m,
	}
}

func (h authHandler) sessionCookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// login checks admin credentials and issues a session token, both in the body and as a cookie.
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validation.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.authenticator.Authorize(r.Context(), req.Email, req.Password)
		if err != nil {
			if errs.IsInvalidCredentialsError(err) {
				h.metrics.loginAttempts.WithLabelValues("rejected").Inc()
				h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("rejected admin login")
			} else {
				h.metrics.loginAttempts.WithLabelValues("error").Inc()
			}
			h.responder.WriteError(w, storeError("fetch", "user", err))
			return
		}

		session, err := h.sessions.Issue(user.ID, user.Email)
		if err != nil {
			h.metrics.loginAttempts.WithLabelValues("error").Inc()
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to create session", err))
			return
		}

		h.metrics.loginAttempts.WithLabelValues("accepted").Inc()
		http.SetCookie(w, h.sessionCookie(session.Token, session.ExpiresAt, int(h.sessions.TTL().Seconds())))
		h.responder.WriteData(w, http.StatusOK, loginResponse{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			User:      sessionUser{ID: user.ID, Email: user.Email},
		}, "Logged in successfully")
	}
}

// logout clears the session cookie. Tokens stay valid until they expire.
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, h.sessionCookie("", time.Unix(0, 0), -1))
		h.responder.WriteMessage(w, "Logged out successfully")
	}
}

// getSession echoes the caller's session. Only reachable behind the guard.
func (h authHandler) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxGetSession(r.Context())
		if claims == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		h.responder.WriteData(w, http.StatusOK, sessionUser{ID: claims.UserID, Email: claims.Email}, "")
	}
}
