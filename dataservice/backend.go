package dataservice

import (
	"context"
	"errors"
	"time"

	"github.com/rpupo63/portfolio-content-backend/auth"
	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const DefaultTimeout = 15 * time.Second

const noAuthMessage = "Sign-in is not configured on this server"

var errNoAssetStore = errors.New("asset storage is not configured")

// AssetStore keeps uploaded files and hands out their public URLs
type AssetStore interface {
	Upload(ctx context.Context, data []byte, bucket, folder, filename string) (string, error)
	Delete(ctx context.Context, url, bucket string) error
}

// Backend implements Service over the Supabase project: Postgres through gorm,
// storage through its S3 endpoint and GoTrue for sign-in.
type Backend struct {
	projects *database.ProjectRepo
	contact  *database.ContactRepo
	assets   AssetStore
	auth     *auth.Authenticator
	timeout  time.Duration
	logger   zerolog.Logger
}

var _ Service = (*Backend)(nil)

func WithTimeout(timeout time.Duration) func(*Backend) {
	return func(b *Backend) {
		if timeout > 0 {
			b.timeout = timeout
		}
	}
}

// NewBackend wires the adapters. assets and authenticator may be nil, in which case
// uploads fail and nobody can sign in.
func NewBackend(db database.Database, assets AssetStore, authenticator *auth.Authenticator, opts ...func(*Backend)) *Backend {
	b := &Backend{
		projects: db.ProjectRepo(),
		contact:  db.ContactRepo(),
		assets:   assets,
		auth:     authenticator,
		timeout:  DefaultTimeout,
		logger:   log.With().Str("component", "dataservice").Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

func dbError(operation, entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewNotFound(entity)
	}
	return errs.NewDatabaseError(operation, entity, err)
}

func (b *Backend) ListProjects(ctx context.Context) ([]models.Project, error) {
	ctx, cancel := b.call(ctx)
	defer cancel()

	projects, err := b.projects.FindAll(ctx)
	if err != nil {
		return nil, dbError("list", "projects", err)
	}
	return projects, nil
}

func (b *Backend) GetProject(ctx context.Context, slug string) (models.Project, error) {
	ctx, cancel := b.call(ctx)
	defer cancel()

	project, err := b.projects.FindBySlug(ctx, slug)
	if err != nil {
		return models.Project{}, dbError("find", "project", err)
	}
	return project, nil
}

func (b *Backend) CreateProject(ctx context.Context, draft models.Draft) (models.Project, error) {
	ctx, cancel := b.call(ctx)
	defer cancel()

	created, err := b.projects.Add(ctx, models.Project{Draft: draft.Normalize()})
	if err != nil {
		return models.Project{}, dbError("create", "project", err)
	}
	b.logger.Info().Str("projectID", created.ID).Str("slug", created.Slug).Msg("Created project")
	return created, nil
}

func (b *Backend) UpdateProject(ctx context.Context, id string, record models.Project) (models.Project, error) {
	ctx, cancel := b.call(ctx)
	defer cancel()

	updated, err := b.projects.Update(ctx, id, record.Normalize())
	if err != nil {
		return models.Project{}, dbError("update", "project", err)
	}
	return updated, nil
}

func (b *Backend) DeleteProject(ctx context.Context, id string) error {
	ctx, cancel := b.call(ctx)
	defer cancel()

	if err := b.projects.Delete(ctx, id); err != nil {
		return dbError("delete", "project", err)
	}
	b.logger.Info().Str("projectID", id).Msg("Deleted project")
	return nil
}

func (b *Backend) GetContactInfo(ctx context.Context) (models.ContactInfo, error) {
	ctx, cancel := b.call(ctx)
	defer cancel()

	contact, err := b.contact.Get(ctx)
	if err != nil {
		return models.ContactInfo{}, dbError("find", "contact info", err)
	}
	return contact, nil
}

func (b *Backend) UpdateContactInfo(ctx context.Context, record models.ContactInfo) (models.ContactInfo, error) {
	ctx, cancel := b.call(ctx)
	defer cancel()

	saved, err := b.contact.Save(ctx, record)
	if err != nil {
		return models.ContactInfo{}, dbError("save", "contact info", err)
	}
	return saved, nil
}

func (b *Backend) Authenticate(ctx context.Context, email, password string) (string, models.User, error) {
	if b.auth == nil {
		return "", models.User{}, errs.NewAuthRejected(noAuthMessage, nil)
	}
	ctx, cancel := b.call(ctx)
	defer cancel()
	return b.auth.SignIn(ctx, email, password)
}

func (b *Backend) SignOut(ctx context.Context) error {
	if b.auth == nil {
		return nil
	}
	ctx, cancel := b.call(ctx)
	defer cancel()
	return b.auth.SignOut(ctx)
}

func (b *Backend) VerifyToken(ctx context.Context, token string) (models.User, error) {
	if b.auth == nil {
		return models.User{}, errs.NewUnauthorizedError(noAuthMessage)
	}
	ctx, cancel := b.call(ctx)
	defer cancel()
	return b.auth.Verify(ctx, token)
}

func (b *Backend) CurrentSession(ctx context.Context) (*models.User, error) {
	if b.auth == nil {
		return nil, nil
	}
	ctx, cancel := b.call(ctx)
	defer cancel()
	return b.auth.Current(ctx)
}

func (b *Backend) UploadAsset(ctx context.Context, data []byte, bucket, folder, filename string) (string, error) {
	if b.assets == nil {
		return "", errs.NewStorageError("upload asset", errNoAssetStore)
	}
	ctx, cancel := b.call(ctx)
	defer cancel()

	url, err := b.assets.Upload(ctx, data, bucket, folder, filename)
	if err != nil {
		return "", errs.NewStorageError("upload asset", err)
	}
	return url, nil
}

func (b *Backend) DeleteAsset(ctx context.Context, url, bucket string) error {
	if b.assets == nil {
		return errs.NewStorageError("delete asset", errNoAssetStore)
	}
	ctx, cancel := b.call(ctx)
	defer cancel()

	if err := b.assets.Delete(ctx, url, bucket); err != nil {
		return errs.NewStorageError("delete asset", err)
	}
	return nil
}
