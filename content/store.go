package content

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-content-backend/dataservice"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultBucket holds project images
const DefaultBucket = "projects"

// ErrClosed is returned when a call resolves after the store was closed. The remote
// side effect may have happened; local state was left alone.
var ErrClosed = errors.New("content store closed")

// Snapshot is a copy of the store's published state. Version grows with every
// applied change.
type Snapshot struct {
	Version     uint64             `json:"version"`
	Projects    []models.Project   `json:"projects"`
	ContactInfo models.ContactInfo `json:"contactInfo"`
	Session     models.Session     `json:"session"`
}

func (s Snapshot) clone() Snapshot {
	s.Projects = cloneProjects(s.Projects)
	if s.Session.CurrentUser != nil {
		u := *s.Session.CurrentUser
		s.Session.CurrentUser = &u
	}
	return s
}

// LoginResult reports a sign-in attempt. Error is meant for display; Token is the
// access token the caller presents on later requests.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Store is the single owner of project, contact and session state. Every change goes
// through the data service first and is applied locally only once it is confirmed.
//
// Each apply step runs under mu, so steps are atomic with respect to each other.
// Remote calls never hold mu, so independent operations may overlap and resolve in
// any order.
type Store struct {
	service dataservice.Service
	logger  zerolog.Logger
	bucket  string
	now     func() time.Time
	newID   func() string

	bootstrap sync.Once

	mu           sync.Mutex
	closed       bool
	projects     []models.Project
	placeholders map[string]bool
	contact      models.ContactInfo
	session      models.Session
	version      uint64
	outbox       *Snapshot
	publishing   bool
	listeners    map[int]func(Snapshot)
	nextListener int
}

type Option func(*Store)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithBucket sets the storage bucket used for project images
func WithBucket(bucket string) Option {
	return func(s *Store) {
		if bucket != "" {
			s.bucket = bucket
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(service dataservice.Service, opts ...Option) *Store {
	s := &Store{
		service:   service,
		logger:    log.With().Str("component", "contentStore").Logger(),
		bucket:    DefaultBucket,
		now:       time.Now,
		newID:     uuid.NewString,
		projects:  []models.Project{},
		contact:   models.DefaultContactInfo(),
		listeners: map[int]func(Snapshot){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// apply runs fn under the lock and queues a fresh snapshot for listeners.
// It reports false, without running fn, once the store is closed.
func (s *Store) apply(fn func()) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	fn()
	s.version++
	snap := s.snapshotLocked()
	s.outbox = &snap
	if s.publishing {
		s.mu.Unlock()
		return true
	}
	s.publishing = true
	s.mu.Unlock()

	s.publish()
	return true
}

// publish hands the newest queued snapshot to listeners until nothing newer is waiting.
// Only one goroutine publishes at a time, so listeners see versions in increasing
// order; a snapshot superseded while another was being delivered is skipped.
func (s *Store) publish() {
	for {
		s.mu.Lock()
		snap := s.outbox
		s.outbox = nil
		if snap == nil {
			s.publishing = false
			s.mu.Unlock()
			return
		}
		listeners := make([]func(Snapshot), 0, len(s.listeners))
		for _, l := range s.listeners {
			listeners = append(listeners, l)
		}
		s.mu.Unlock()

		for _, l := range listeners {
			l(snap.clone())
		}
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Version:     s.version,
		Projects:    s.projects,
		ContactInfo: s.contact,
		Session:     s.session,
	}.clone()
}

// Bootstrap loads session, projects and contact info concurrently. Only the first call
// does any work; later calls return once it has finished. Failures never surface:
// projects fall back to the placeholder set, contact info to the default record and
// the session to signed out.
func (s *Store) Bootstrap(ctx context.Context) {
	s.bootstrap.Do(func() {
		s.load(ctx)
	})
}

func (s *Store) load(ctx context.Context) {
	s.apply(func() {
		s.session.IsLoading = true
	})

	var (
		g        errgroup.Group
		user     *models.User
		projects []models.Project
		contact  *models.ContactInfo
	)

	g.Go(func() error {
		u, err := s.service.CurrentSession(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to resolve session")
			return nil
		}
		user = u
		return nil
	})
	g.Go(func() error {
		p, err := s.service.ListProjects(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to load projects")
			return nil
		}
		projects = p
		return nil
	})
	g.Go(func() error {
		c, err := s.service.GetContactInfo(ctx)
		if err != nil {
			if !errs.IsNotFound(err) {
				s.logger.Error().Err(err).Msg("Failed to load contact info")
			}
			return nil
		}
		contact = &c
		return nil
	})
	_ = g.Wait()

	placeholders := map[string]bool{}
	if len(projects) == 0 {
		s.logger.Info().Msg("No stored projects, showing placeholders")
		projects = models.PlaceholderProjects()
		for _, p := range projects {
			placeholders[p.ID] = true
		}
	}

	s.apply(func() {
		s.projects = normalizeAll(projects)
		s.placeholders = placeholders
		if contact != nil {
			s.contact = *contact
		}
		s.session = models.Session{
			IsAuthenticated: user != nil,
			CurrentUser:     user,
		}
	})
	s.logger.Info().Int("projects", len(projects)).Bool("authenticated", user != nil).Msg("Bootstrap complete")
}

// AddProject creates a project and puts it first in the collection. A missing slug
// is derived from the title; a missing id or creation time is filled in locally.
func (s *Store) AddProject(ctx context.Context, draft models.Draft) (models.Project, error) {
	draft = draft.Normalize()

	created, err := s.service.CreateProject(ctx, draft)
	if err != nil {
		if errs.IsAlreadyExists(err) {
			s.logger.Warn().Str("slug", draft.Slug).Msg("Project slug already taken")
		} else {
			s.logger.Error().Err(err).Str("slug", draft.Slug).Msg("Failed to create project")
		}
		return models.Project{}, err
	}
	if created.ID == "" {
		created.ID = s.newID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = s.now()
	}
	created = created.Normalize()

	ok := s.apply(func() {
		rest := removeByID(s.projects, created.ID)
		s.projects = append([]models.Project{created.Clone()}, rest...)
	})
	if !ok {
		return models.Project{}, ErrClosed
	}
	return created, nil
}

// UpdateProject replaces the whole record with the given id. The local entry keeps
// its position in the collection. Saving a placeholder stores it as a new project,
// which then takes the placeholder's place.
func (s *Store) UpdateProject(ctx context.Context, record models.Project) (models.Project, error) {
	if record.ID == "" {
		return models.Project{}, errs.NewMissingRequiredFieldError("id")
	}
	record = record.Normalize()

	var (
		updated models.Project
		err     error
	)
	placeholder := s.isPlaceholder(record.ID)
	if placeholder {
		updated, err = s.service.CreateProject(ctx, record.Draft)
	} else {
		updated, err = s.service.UpdateProject(ctx, record.ID, record)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("projectID", record.ID).Msg("Failed to update project")
		return models.Project{}, err
	}
	if updated.ID == "" {
		updated.ID = record.ID
		if placeholder {
			updated.ID = s.newID()
		}
	}
	if updated.CreatedAt.IsZero() {
		updated.CreatedAt = record.CreatedAt
	}
	updated = updated.Normalize()

	ok := s.apply(func() {
		next := make([]models.Project, len(s.projects))
		for i, p := range s.projects {
			if p.ID == record.ID {
				p = updated.Clone()
			}
			next[i] = p
		}
		s.projects = next
		delete(s.placeholders, record.ID)
	})
	if !ok {
		return models.Project{}, ErrClosed
	}
	return updated, nil
}

// DeleteProject removes a project, then releases its stored images. Image cleanup is
// best effort and only logged. Placeholders exist only here and are dropped without
// asking the data service; a row the data service no longer has is dropped as well.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	target, known := s.find(id)

	if s.isPlaceholder(id) {
		if !s.apply(func() {
			s.projects = removeByID(s.projects, id)
			delete(s.placeholders, id)
		}) {
			return ErrClosed
		}
		return nil
	}

	if err := s.service.DeleteProject(ctx, id); err != nil {
		if !known || !errs.IsNotFound(err) {
			s.logger.Error().Err(err).Str("projectID", id).Msg("Failed to delete project")
			return err
		}
		s.logger.Warn().Str("projectID", id).Msg("Project already gone from the data service")
	}

	ok := s.apply(func() {
		s.projects = removeByID(s.projects, id)
	})
	if !ok {
		return ErrClosed
	}

	if known {
		s.releaseImages(ctx, target)
	}
	return nil
}

func (s *Store) isPlaceholder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeholders[id]
}

func (s *Store) releaseImages(ctx context.Context, p models.Project) {
	for _, url := range p.ImageURLs() {
		if err := s.service.DeleteAsset(ctx, url, s.bucket); err != nil {
			s.logger.Warn().Err(err).Str("projectID", p.ID).Str("url", url).Msg("Failed to release project image")
		}
	}
}

// UpdateContactInfo applies patch over the current record and stores the result.
func (s *Store) UpdateContactInfo(ctx context.Context, patch models.ContactPatch) (models.ContactInfo, error) {
	merged := s.ContactInfo().Apply(patch)

	saved, err := s.service.UpdateContactInfo(ctx, merged)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to update contact info")
		return models.ContactInfo{}, err
	}

	if !s.apply(func() { s.contact = saved }) {
		return models.ContactInfo{}, ErrClosed
	}
	return saved, nil
}

// Login never fails with an error; a rejected attempt carries a message for display.
func (s *Store) Login(ctx context.Context, email, password string) LoginResult {
	token, user, err := s.service.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Login failed")
		return LoginResult{Error: errs.UserMessage(err)}
	}

	ok := s.apply(func() {
		s.session.IsAuthenticated = true
		s.session.CurrentUser = &user
	})
	if !ok {
		return LoginResult{Error: errs.GenericAuthMessage}
	}
	return LoginResult{Success: true, Token: token}
}

// Authorize resolves the user behind a caller's access token. It fails with an
// unauthorized error unless the token belongs to the signed-in session.
func (s *Store) Authorize(ctx context.Context, token string) (models.User, error) {
	user, err := s.service.VerifyToken(ctx, token)
	if err != nil {
		if !errs.IsUnauthorized(err) {
			s.logger.Error().Err(err).Msg("Failed to verify access token")
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) Logout(ctx context.Context) error {
	if err := s.service.SignOut(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Logout failed")
		return err
	}
	if !s.apply(func() {
		s.session.IsAuthenticated = false
		s.session.CurrentUser = nil
	}) {
		return ErrClosed
	}
	return nil
}

// RefreshSession asks the data service who is signed in and publishes the answer.
// On failure the current session is kept.
func (s *Store) RefreshSession(ctx context.Context) models.Session {
	user, err := s.service.CurrentSession(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to refresh session")
		return s.Session()
	}
	s.apply(func() {
		s.session.IsAuthenticated = user != nil
		s.session.CurrentUser = user
	})
	return s.Session()
}

// ProjectBySlug looks in the local collection first and asks the data service
// only when the slug is unknown here.
func (s *Store) ProjectBySlug(ctx context.Context, slug string) (models.Project, error) {
	s.mu.Lock()
	for _, p := range s.projects {
		if p.Slug == slug {
			s.mu.Unlock()
			return p.Clone(), nil
		}
	}
	s.mu.Unlock()

	p, err := s.service.GetProject(ctx, slug)
	if err != nil {
		return models.Project{}, err
	}
	return p.Normalize(), nil
}

// UploadAsset stores an image in the project bucket and returns its public URL.
func (s *Store) UploadAsset(ctx context.Context, data []byte, folder, filename string) (string, error) {
	url, err := s.service.UploadAsset(ctx, data, s.bucket, folder, filename)
	if err != nil {
		s.logger.Error().Err(err).Str("folder", folder).Msg("Failed to upload asset")
		return "", err
	}
	return url, nil
}

// ReplaceAsset uploads a new image and then releases the one it replaces. Failing to
// release the old image does not fail the call.
func (s *Store) ReplaceAsset(ctx context.Context, oldURL string, data []byte, folder, filename string) (string, error) {
	url, err := s.UploadAsset(ctx, data, folder, filename)
	if err != nil {
		return "", err
	}
	if oldURL != "" && oldURL != url {
		if err := s.service.DeleteAsset(ctx, oldURL, s.bucket); err != nil {
			s.logger.Warn().Err(err).Str("url", oldURL).Msg("Failed to release replaced asset")
		}
	}
	return url, nil
}

func (s *Store) RemoveAsset(ctx context.Context, url string) error {
	return s.service.DeleteAsset(ctx, url, s.bucket)
}

func (s *Store) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProjects(s.projects)
}

func (s *Store) ContactInfo() models.ContactInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact
}

func (s *Store) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked().Session
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.IsLoading
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive snapshots as the store changes. Listeners run
// outside the store lock, one snapshot at a time and in version order, and may call
// back into the store.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close stops publishing. Calls still in flight complete remotely but their results
// are no longer applied.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = map[int]func(Snapshot){}
}

func (s *Store) find(id string) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.Project{}, false
}

func removeByID(projects []models.Project, id string) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func cloneProjects(projects []models.Project) []models.Project {
	out := make([]models.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}

func normalizeAll(projects []models.Project) []models.Project {
	out := make([]models.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Normalize()
	}
	return out
}
