package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public read routes and the admin routes that need a
// signed-in session
func setupRoutes(r chi.Router, handlers *routeHandlers, admin adminMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{slug}", handlers.projectHandler.getProject())
		r.Get("/catalog", handlers.catalogHandler.getCatalog())
		r.Get("/contact", handlers.contactHandler.getContactInfo())
		r.Post("/contact/message", handlers.contactHandler.sendMessage())

		r.Post("/login", handlers.sessionHandler.login())
		r.Get("/session", handlers.sessionHandler.getSession())

		r.Group(func(r chi.Router) {
			r.Use(admin.authenticate)

			r.Post("/logout", handlers.sessionHandler.logout())

			r.Post("/project", handlers.projectHandler.createProject())
			r.Put("/project/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())

			r.Put("/contact", handlers.contactHandler.updateContactInfo())

			r.Post("/assets", handlers.assetHandler.uploadAsset())
			r.Delete("/assets", handlers.assetHandler.deleteAsset())
		})
	})
}
