package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-content-backend/catalog"
	"github.com/rs/zerolog/log"
)

type catalogHandler struct {
	responder Responder
	catalog   *catalog.Catalog
}

func newCatalogHandler(cat *catalog.Catalog) catalogHandler {
	logger := log.With().Str("handlerName", "catalogHandler").Logger()
	return catalogHandler{
		responder: NewResponder(logger),
		catalog:   cat,
	}
}

// CatalogResponse lists the filter vocabularies of the current collection
type CatalogResponse struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	Total      int      `json:"total"`
}

// getCatalog returns the category and tag vocabularies
// @Summary Get filter vocabularies
// @Router /catalog [get]
func (h catalogHandler) getCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := h.catalog.View()
		h.responder.WriteJSON(w, CatalogResponse{
			Categories: view.Categories,
			Tags:       view.Tags,
			Total:      len(view.Projects),
		})
	}
}
