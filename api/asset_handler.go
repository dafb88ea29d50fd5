package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/errs"
	"github.com/rpupo63/portfolio-content-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxAssetSize  = 5 << 20
	defaultFolder = "images"
)

var (
	folderRe = regexp.MustCompile(`^[A-Za-z0-9_-]+(/[A-Za-z0-9_-]+)*$`)

	acceptedImageTypes = map[string]bool{
		"image/png":  true,
		"image/jpeg": true,
		"image/webp": true,
	}
)

type assetHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     *content.Store
}

func newAssetHandler(store *content.Store) assetHandler {
	logger := log.With().Str("handlerName", "assetHandler").Logger()
	return assetHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// uploadAsset stores an image. With a replace URL the old image is released after
// the new one is stored.
// @Summary Upload image
// @Accept multipart/form-data
// @Param file formData file true "PNG, JPEG or WebP, at most 5MB"
// @Param folder formData string false "Folder inside the bucket, default images"
// @Param replace formData string false "URL of the image this one replaces"
// @Success 201 {object} AssetResponse
// @Router /assets [post]
func (h assetHandler) uploadAsset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxAssetSize+1<<20)
		if err := r.ParseMultipartForm(maxAssetSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.responder.WriteError(w, errs.NewInvalidFieldError("file", "must be at most 5MB"))
				return
			}
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart form"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		if header.Size > maxAssetSize {
			h.responder.WriteError(w, errs.NewInvalidFieldError("file", "must be at most 5MB"))
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read file"))
			return
		}

		contentType := storage.DetectContentType(data, header.Filename)
		if !acceptedImageTypes[contentType] {
			h.responder.WriteError(w, errs.NewInvalidFieldError("file", fmt.Sprintf("type %s is not accepted", contentType)))
			return
		}

		folder := r.FormValue("folder")
		if folder == "" {
			folder = defaultFolder
		}
		if !folderRe.MatchString(folder) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("folder", "must be a relative path of letters, digits, - and _"))
			return
		}

		url, err := h.store.ReplaceAsset(r.Context(), r.FormValue("replace"), data, folder, header.Filename)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, AssetResponse{URL: url})
	}
}

// @Summary Delete image
// @Param asset body DeleteAssetRequest true "Image URL"
// @Router /assets [delete]
func (h assetHandler) deleteAsset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteAssetRequest
		if err := decodeJSON(r, maxJSONBody, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.store.RemoveAsset(r.Context(), req.URL); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, StatusResponse{
			Status:  "success",
			Message: "asset deleted",
		})
	}
}
