// Package api exposes HTTP handlers over the social stores.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/tedhz/LeTeam/internal/auth"
	"github.com/tedhz/LeTeam/internal/photos"
	"github.com/tedhz/LeTeam/internal/posts"
	"github.com/tedhz/LeTeam/internal/users"
	"github.com/tedhz/LeTeam/internal/workouts"
)

// defaultListLimit bounds list reads when the client does not ask for one.
const defaultListLimit = 50

// Handler coordinates HTTP requests with the stores.
type Handler struct {
	profiles *users.ProfileStore
	follows  *users.FollowStore
	posts    *posts.Store
	workouts *workouts.Store
	uploader *photos.Uploader
}

// NewHandler builds a Handler.
func NewHandler(profiles *users.ProfileStore, follows *users.FollowStore, postStore *posts.Store, workoutStore *workouts.Store, uploader *photos.Uploader) *Handler {
	return &Handler{
		profiles: profiles,
		follows:  follows,
		posts:    postStore,
		workouts: workoutStore,
		uploader: uploader,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/users", h.users)
	mux.HandleFunc("/v1/users/", h.userSubtree)
	mux.HandleFunc("/v1/me", h.me)
	mux.HandleFunc("/v1/me/", h.meSubtree)
	mux.HandleFunc("/v1/posts", h.postsCollection)
	mux.HandleFunc("/v1/posts/", h.postSubtree)
	mux.HandleFunc("/v1/feed", h.feed)
	mux.HandleFunc("/v1/workouts", h.workoutsCollection)
	mux.HandleFunc("/v1/workouts/", h.workoutSubtree)
	mux.HandleFunc("/v1/photos", h.photosCollection)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requireScope extracts claims and enforces the scope, writing the error
// response itself when the request must not proceed.
func requireScope(w http.ResponseWriter, r *http.Request, scope string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	if !claims.HasScope(scope) && !(scope == auth.ScopeSocialRead && claims.HasScope(auth.ScopeSocialWrite)) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return nil, false
	}
	return claims, true
}

func parseLimit(r *http.Request) int {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return limit
}

// subpath splits the request path after prefix into non-empty segments.
func subpath(r *http.Request, prefix string) []string {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound), errors.Is(err, posts.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, users.ErrBlankFullName), errors.Is(err, workouts.ErrNoExercises):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not_found", "unknown resource")
}
