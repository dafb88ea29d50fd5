package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/models"
	"github.com/rpupo63/portfolio-content-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxJSONBody = 64 << 10

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     *content.Store
	notifier  *services.ContactNotifier
}

func newContactHandler(store *content.Store, notifier *services.ContactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()
	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
		notifier:  notifier,
	}
}

func decodeJSON(r *http.Request, limit int64, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, limit)).Decode(v); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return validateStruct(v)
}

// @Summary Get contact info
// @Router /contact [get]
func (h contactHandler) getContactInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.store.ContactInfo())
	}
}

// updateContactInfo changes the fields present in the body; "" clears a field
// @Summary Update contact info
// @Param contact body models.ContactPatch true "Fields to change"
// @Router /contact [put]
func (h contactHandler) updateContactInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch models.ContactPatch
		if err := decodeJSON(r, maxJSONBody, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if patch.Email != nil && *patch.Email != "" {
			if err := validate.Var(*patch.Email, "email"); err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("email", "must be a valid email address"))
				return
			}
		}

		saved, err := h.store.UpdateContactInfo(r.Context(), patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, saved)
	}
}

// sendMessage delivers a contact form message to the site owner
// @Summary Send contact message
// @Param message body models.ContactMessage true "Message"
// @Success 202 {object} StatusResponse
// @Router /contact/message [post]
func (h contactHandler) sendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg models.ContactMessage
		if err := decodeJSON(r, maxJSONBody, &msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.notifier.Send(r.Context(), msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("from", msg.Email).Msg("Contact message delivered")
		h.responder.WriteJSONStatus(w, http.StatusAccepted, StatusResponse{
			Status:  "success",
			Message: "message sent",
		})
	}
}
