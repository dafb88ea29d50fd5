package dataservice

import (
	"context"

	"github.com/rpupo63/portfolio-content-backend/models"
)

// Service is the hosted backend as the content store sees it: row storage for
// projects and contact info, file storage for images, and authentication.
//
// Failures are errs values. A lookup that finds nothing matches errs.ErrNotFound,
// a refused sign-in matches errs.ErrAuthRejected, anything else is a transport or
// service failure.
type Service interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, slug string) (models.Project, error)
	CreateProject(ctx context.Context, draft models.Draft) (models.Project, error)
	UpdateProject(ctx context.Context, id string, record models.Project) (models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	GetContactInfo(ctx context.Context) (models.ContactInfo, error)
	UpdateContactInfo(ctx context.Context, record models.ContactInfo) (models.ContactInfo, error)

	// Authenticate signs in and returns the session's access token.
	Authenticate(ctx context.Context, email, password string) (token string, user models.User, err error)
	SignOut(ctx context.Context) error
	// VerifyToken resolves the user behind an access token presented by a caller.
	// Tokens that do not belong to the current session match errs.ErrUnauthorized.
	VerifyToken(ctx context.Context, token string) (models.User, error)
	// CurrentSession returns nil when nobody is signed in.
	CurrentSession(ctx context.Context) (*models.User, error)

	UploadAsset(ctx context.Context, data []byte, bucket, folder, filename string) (string, error)
	DeleteAsset(ctx context.Context, url, bucket string) error
}
