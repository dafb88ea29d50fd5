package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-content-backend/config"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	supabase "github.com/supabase-community/auth-go"
)

// Provider is the hosted identity service. Every method speaks in access tokens so the
// caller decides where the current session lives.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (token string, user models.User, err error)
	GetUser(ctx context.Context, token string) (models.User, error)
	Logout(ctx context.Context, token string) error
}

type supabaseProvider struct {
	client supabase.Client
}

// NewSupabaseProvider builds a provider for SUPABASE_PROJECT_REF, or for the auth
// endpoint under SUPABASE_URL when the project is self hosted.
func NewSupabaseProvider(c map[string]string) (Provider, error) {
	ref := config.GetString(c, "SUPABASE_PROJECT_REF", "")
	key := config.GetString(c, "SUPABASE_ANON_KEY", "")
	if key == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY is required")
	}

	client := supabase.New(ref, key)
	if ref == "" {
		base := strings.TrimSuffix(config.GetString(c, "SUPABASE_URL", ""), "/")
		if base == "" {
			return nil, fmt.Errorf("SUPABASE_PROJECT_REF or SUPABASE_URL is required")
		}
		client = client.WithCustomAuthURL(base + "/auth/v1")
	}
	return supabaseProvider{client: client}, nil
}

func (p supabaseProvider) SignIn(ctx context.Context, email, password string) (string, models.User, error) {
	type signedIn struct {
		token string
		user  models.User
	}
	res, err := withContext(ctx, func() (signedIn, error) {
		resp, err := p.client.SignInWithEmailPassword(email, password)
		if err != nil {
			return signedIn{}, err
		}
		return signedIn{
			token: resp.AccessToken,
			user:  models.User{ID: resp.User.ID.String(), Email: resp.User.Email},
		}, nil
	})
	if err != nil {
		return "", models.User{}, classify("sign in", err)
	}
	return res.token, res.user, nil
}

func (p supabaseProvider) GetUser(ctx context.Context, token string) (models.User, error) {
	user, err := withContext(ctx, func() (models.User, error) {
		resp, err := p.client.WithToken(token).GetUser()
		if err != nil {
			return models.User{}, err
		}
		return models.User{ID: resp.ID.String(), Email: resp.Email}, nil
	})
	if err != nil {
		return models.User{}, classify("get user", err)
	}
	return user, nil
}

func (p supabaseProvider) Logout(ctx context.Context, token string) error {
	_, err := withContext(ctx, func() (struct{}, error) {
		return struct{}{}, p.client.WithToken(token).Logout()
	})
	if err != nil {
		return classify("logout", err)
	}
	return nil
}

// withContext runs a blocking client call and gives up when ctx is done. The auth
// client has no context support, so an abandoned call finishes in the background.
func withContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.value, r.err
	}
}

var statusErrRe = regexp.MustCompile(`status code (\d{3}): (.*)`)

// classify turns a client failure into an errs value. Client errors from the auth
// API (4xx) are rejections whose body carries a message meant for the user.
func classify(operation string, err error) error {
	m := statusErrRe.FindStringSubmatch(err.Error())
	if m == nil {
		return errs.NewServiceError("auth", operation, err)
	}
	status, _ := strconv.Atoi(m[1])
	if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
		return errs.NewServiceError("auth", operation, err)
	}
	return errs.NewAuthRejected(rejectionMessage(m[2]), err)
}

func rejectionMessage(body string) string {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	for _, m := range []string{payload.ErrorDescription, payload.Msg, payload.Message} {
		if m != "" {
			return m
		}
	}
	return ""
}
