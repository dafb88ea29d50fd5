package api

import "github.com/rpupo63/portfolio-content-backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	catalogHandler catalogHandler
	contactHandler contactHandler
	sessionHandler sessionHandler
	assetHandler   assetHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// ProjectCollection is the response of the project listing
type ProjectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AssetResponse struct {
	URL string `json:"url"`
}

type DeleteAssetRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
