package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type sessionHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     *content.Store
}

func newSessionHandler(store *content.Store) sessionHandler {
	logger := log.With().Str("handlerName", "sessionHandler").Logger()
	return sessionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// login signs the admin in and returns the access token for admin requests. A
// rejected attempt answers 401 with the reason in error.
// @Summary Sign in
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} content.LoginResult
// @Failure 401 {object} content.LoginResult
// @Router /login [post]
func (h sessionHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(r, maxJSONBody, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result := h.store.Login(r.Context(), req.Email, req.Password)
		if !result.Success {
			h.responder.WriteJSONStatus(w, http.StatusUnauthorized, result)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// @Summary Sign out
// @Router /logout [post]
func (h sessionHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user, ok := ctxGetUser(r.Context()); ok {
			h.logger.Info().Str("userID", user.ID).Msg("Signing out")
		}
		if err := h.store.Logout(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, h.store.Session())
	}
}

// getSession reports the session behind the caller's bearer token. Callers without a
// valid token are signed out.
// @Summary Current session
// @Success 200 {object} models.Session
// @Router /session [get]
func (h sessionHandler) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			h.responder.WriteJSON(w, models.Session{})
			return
		}

		if _, err := h.store.Authorize(r.Context(), token); err != nil {
			if errs.IsUnauthorized(err) {
				h.responder.WriteJSON(w, models.Session{})
				return
			}
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, h.store.RefreshSession(r.Context()))
	}
}
