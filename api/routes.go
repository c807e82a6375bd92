package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

type rateLimiters struct {
	contact func(http.Handler) http.Handler
	login   func(http.Handler) http.Handler
}

// setupPublicRoutes registers everything a visitor of the site may call. Paths are relative to /api.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, limits rateLimiters) {
	r.Group(func(r chi.Router) {
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{id}", handlers.projectHandler.getProject())

		r.Get("/skills", handlers.skillHandler.getAllSkills())

		r.Get("/experience", handlers.experienceHandler.getAllExperiences())
		r.Get("/experience/{id}", handlers.experienceHandler.getExperience())

		r.Get("/profile", handlers.profileHandler.getProfile())
		r.Get("/settings", handlers.settingsHandler.getSettings())

		r.With(limits.contact).Post("/contact", handlers.contactHandler.submitContact())

		r.With(limits.login).Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/logout", handlers.authHandler.logout())
	})
}

// setupAdminRoutes registers every mutation plus the admin-only reads behind the session guard.
// Paths are relative to /api.
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Post("/projects", handlers.projectHandler.createProject())
		r.Put("/projects/{id}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{id}", handlers.projectHandler.deleteProject())

		r.Post("/skills", handlers.skillHandler.createSkill())
		r.Put("/skills/{id}", handlers.skillHandler.updateSkill())
		r.Delete("/skills/{id}", handlers.skillHandler.deleteSkill())

		r.Post("/experience", handlers.experienceHandler.createExperience())
		r.Put("/experience/{id}", handlers.experienceHandler.updateExperience())
		r.Delete("/experience/{id}", handlers.experienceHandler.deleteExperience())

		r.Put("/profile", handlers.profileHandler.updateProfile())
		r.Put("/settings", handlers.settingsHandler.updateSettings())

		r.Get("/contacts", handlers.contactHandler.getAllContacts())
		r.Get("/contacts/{id}", handlers.contactHandler.getContact())
		r.Put("/contacts/{id}", handlers.contactHandler.updateContact())
		r.Delete("/contacts/{id}", handlers.contactHandler.deleteContact())

		r.Get("/analytics", handlers.analyticsHandler.getAnalytics())

		r.Get("/upload", handlers.imageHandler.getImageInfo())
		r.Post("/upload", handlers.imageHandler.uploadImage())
		r.Delete("/upload", handlers.imageHandler.deleteImage())
		r.Get("/images", handlers.imageHandler.listImages())
		r.Post("/images/reconcile", handlers.imageHandler.reconcileImages())

		r.Get("/admin/session", handlers.authHandler.getSession())
	})
}

// setupAdminPages serves the built admin frontend from dir. The login page stays public.
func setupAdminPages(r chi.Router, dir string, authMiddleware authMiddleware) {
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}

	files := http.StripPrefix("/admin", http.FileServer(http.Dir(dir)))
	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", files.ServeHTTP)
		r.Get("/login/*", files.ServeHTTP)
		r.With(authMiddleware.authenticate).Get("/*", files.ServeHTTP)
	})
}
