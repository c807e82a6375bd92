package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/images"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Services are the long-lived collaborators the handlers share.
type Services struct {
	Database      database.Database
	Images        *images.Service
	Sessions      *auth.SessionManager
	Authenticator *auth.Authenticator
	Notifier      ContactNotifier
	// Redis is optional. When set, rate limit counters are shared through it.
	Redis *redis.Client
}

func NewServer(cfg config.Config, svc Services) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router, err := newRouter(svc, withConfig(cfg), withStartupTime(startupTime))
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      config.Config
	startupTime time.Time
}

func withConfig(c config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func initializeHandlers(svc Services, router router, m *metrics) *routeHandlers {
	db := svc.Database
	return &routeHandlers{
		projectHandler:    newProjectHandler(db),
		skillHandler:      newSkillHandler(db),
		experienceHandler: newExperienceHandler(db),
		profileHandler:    newProfileHandler(db),
		settingsHandler:   newSettingsHandler(db),
		contactHandler:    newContactHandler(db, svc.Notifier, m),
		analyticsHandler:  newAnalyticsHandler(services.NewAnalyticsService(db)),
		imageHandler:      newImageHandler(svc.Images, m),
		sitemapHandler:    newSitemapHandler(services.NewSitemapService(db.ProjectRepo(), router.config.SiteURL)),
		authHandler:       newAuthHandler(svc.Authenticator, svc.Sessions, !router.config.IsDevelopment(), m),
		healthHandler:     newHealthHandler(db, router.startupTime),
	}
}

func newRouter(svc Services, opts ...func(*router)) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	cfg := router.config

	contactLimit, err := newRateLimiter("contact", cfg.Limits.ContactRate, svc.Redis)
	if err != nil {
		return nil, err
	}
	loginLimit, err := newRateLimiter("login", cfg.Limits.LoginRate, svc.Redis)
	if err != nil {
		return nil, err
	}

	m := newMetrics()
	handlers := initializeHandlers(svc, router, m)
	authMiddleware := newAuthMiddleware(svc.Sessions)

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(m.instrument)
	if cfg.IsDevelopment() {
		chiRouter.Use(ColoredHTTPLoggingMiddleware)
	} else {
		chiRouter.Use(HTTPLoggingMiddleware(log.Logger))
	}
	chiRouter.Use(securityHeaders(cfg.IsDevelopment()))

	// Apply CORS middleware
	acceptedOrigins := cfg.Server.AcceptedOrigins
	if len(acceptedOrigins) == 0 {
		// an empty list would make the cors handler allow every origin
		acceptedOrigins = []string{cfg.SiteURL}
	}
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	chiRouter.Get("/health", handlers.healthHandler.getHealth())
	chiRouter.Get("/sitemap.xml", handlers.sitemapHandler.getSitemap())
	if cfg.MetricsEnabled {
		chiRouter.Handle("/metrics", m.handler())
	}

	chiRouter.Route("/api", func(r chi.Router) {
		setupPublicRoutes(r, handlers, rateLimiters{contact: contactLimit, login: loginLimit})
		setupAdminRoutes(r, handlers, authMiddleware)
	})
	setupAdminPages(chiRouter, cfg.Server.AdminDir, authMiddleware)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
