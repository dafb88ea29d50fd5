package api

import (
	"github.com/rpupo63/portfolio-content-backend/catalog"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(store *content.Store, cat *catalog.Catalog, notifier *services.ContactNotifier) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(store),
		catalogHandler: newCatalogHandler(cat),
		contactHandler: newContactHandler(store, notifier),
		sessionHandler: newSessionHandler(store),
		assetHandler:   newAssetHandler(store),
	}
}
