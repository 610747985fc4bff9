package api

import (
	"net/http"

	"github.com/tedhz/LeTeam/internal/auth"
	"github.com/tedhz/LeTeam/internal/photos"
)

// maxPhotoBytes caps upload bodies at 10 MiB.
const maxPhotoBytes = 10 << 20

// photosCollection serves POST /v1/photos?type=post|profile. The request body
// is the raw image; Content-Type selects the stored extension.
func (h *Handler) photosCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
	if !ok {
		return
	}

	var photoType photos.Type
	switch r.URL.Query().Get("type") {
	case "post", "":
		photoType = photos.TypePost
	case "profile":
		photoType = photos.TypeProfile
	default:
		writeError(w, http.StatusBadRequest, "validation_failed", "type must be post or profile")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	body := http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	url, err := h.uploader.UploadPhoto(r.Context(), photoType, claims.Subject, contentType, body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
