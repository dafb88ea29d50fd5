package auth

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Authenticator keeps the access token of the signed-in admin. The backend acts for a
// single author, so there is at most one session at a time.
type Authenticator struct {
	provider Provider
	logger   zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	token string
}

// NewAuthenticator starts with token as the current session; pass "" for none.
func NewAuthenticator(provider Provider, token string) *Authenticator {
	return &Authenticator{
		provider: provider,
		logger:   log.With().Str("component", "authenticator").Logger(),
		now:      time.Now,
		token:    token,
	}
}

// SignIn replaces the current session when the provider accepts the credentials and
// returns the session's access token.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (string, models.User, error) {
	token, user, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		return "", models.User{}, err
	}

	a.mu.Lock()
	a.token = token
	a.mu.Unlock()

	a.logger.Info().Str("userID", user.ID).Msg("Signed in")
	return token, user, nil
}

// SignOut revokes the current session. Without one it is a no-op.
func (a *Authenticator) SignOut(ctx context.Context) error {
	token := a.Token()
	if token == "" {
		return nil
	}
	if err := a.provider.Logout(ctx, token); err != nil && !errs.IsAuthRejected(err) {
		return err
	}
	a.clear(token)
	return nil
}

// Current resolves the signed-in user. A nil user with a nil error means nobody is
// signed in; expired or revoked tokens are dropped on the way.
func (a *Authenticator) Current(ctx context.Context) (*models.User, error) {
	token := a.Token()
	if token == "" {
		return nil, nil
	}
	if a.expired(token) {
		a.logger.Debug().Msg("Session token expired")
		a.clear(token)
		return nil, nil
	}

	user, err := a.provider.GetUser(ctx, token)
	if err != nil {
		if errs.IsAuthRejected(err) {
			a.clear(token)
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Verify checks a token presented by a caller. Only the token of the current session
// is accepted, and only while the provider still recognises it.
func (a *Authenticator) Verify(ctx context.Context, token string) (models.User, error) {
	current := a.Token()
	if token == "" || current == "" || subtle.ConstantTimeCompare([]byte(token), []byte(current)) != 1 {
		return models.User{}, errs.NewUnauthorizedError("no valid session for this request")
	}

	user, err := a.Current(ctx)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, errs.NewUnauthorizedError("session expired")
	}
	return *user, nil
}

func (a *Authenticator) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// clear drops token unless a newer sign-in already replaced it.
func (a *Authenticator) clear(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == token {
		a.token = ""
	}
}

// expired reads exp without verifying the signature; the provider still checks the
// token, this only saves a round trip for sessions that are certainly over.
func (a *Authenticator) expired(token string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(a.now())
}
