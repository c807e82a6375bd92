package api

import (
	"net/http"
	"net/url"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/secure"
)

const (
	sessionCookie  = "session"
	adminLoginPath = "/admin/login"
)

type authMiddleware struct {
	responder Responder
	sessions  *auth.SessionManager
}

func newAuthMiddleware(sessions *auth.SessionManager) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		sessions:  sessions,
	}
}

// sessionToken reads the bearer token, falling back to the session cookie.
func sessionToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// authenticate rejects requests without a valid session. API paths get a 401 envelope;
// page requests are redirected to the login page.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.sessions.Parse(sessionToken(r))
		if err != nil {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				m.responder.WriteError(w, errs.Unauthorized)
				return
			}
			target := adminLoginPath + "?callbackUrl=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithSession(r.Context(), claims)))
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	responder := NewResponder(log.Logger)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					responder.WriteError(srw, errs.NewInternalError("Internal Server Error"))
				}
			}
		}()

		next.ServeHTTP(srw, r)
	})
}

// CORSCheckMiddleware rejects preflight requests from origins outside allowedOrigins with a JSON error
// instead of a bare response without CORS headers.
func CORSCheckMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	responder := NewResponder(log.Logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// If no origin header, it's likely a same-origin request
			if origin == "" || r.Method != http.MethodOptions || originAllowed(allowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			responder.WriteError(w, errs.NewCORSError(origin))
		})
	}
}

func originAllowed(allowedOrigins []string, origin string) bool {
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}
	return false
}

// securityHeaders sets the usual browser hardening headers. HSTS is skipped in development.
func securityHeaders(development bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		ReferrerPolicy:       "strict-origin-when-cross-origin",
		STSSeconds:           31536000,
		STSIncludeSubdomains: true,
		IsDevelopment:        development,
	}).Handler
}

// HTTPLoggingMiddleware logs every request at a level matching its status code.
func HTTPLoggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: 200}

			next.ServeHTTP(srw, r)

			duration := time.Since(start)

			var logEvent *zerolog.Event
			switch {
			case srw.status >= 500:
				logEvent = logger.Error()
			case srw.status >= 400:
				logEvent = logger.Warn()
			default:
				logEvent = logger.Info()
			}

			logEvent.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP Request")
		})
	}
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on status codes
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return HTTPLoggingMiddleware(colorLogger)(next)
}
