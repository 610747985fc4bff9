package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tedhz/LeTeam/internal/auth"
	"github.com/tedhz/LeTeam/internal/users"
)

// CreateProfileRequest is the payload for POST /v1/users.
type CreateProfileRequest struct {
	Email string `json:"email"`
}

// UserView exposes a user profile.
type UserView struct {
	UserID               string    `json:"user_id"`
	FullName             string    `json:"full_name"`
	DisplayName          string    `json:"display_name"`
	Email                string    `json:"email"`
	HasPostedToday       bool      `json:"has_posted_today"`
	TodayPostID          *string   `json:"today_post_id,omitempty"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
}

func toUserView(u users.User) UserView {
	return UserView{
		UserID:               u.UserID,
		FullName:             u.FullName,
		DisplayName:          u.DisplayName,
		Email:                u.Email,
		HasPostedToday:       u.DailyPostStatus.HasPostedToday,
		TodayPostID:          u.DailyPostStatus.PostID,
		NotificationsEnabled: u.NotificationPrefs.Enabled,
		CreatedAt:            u.CreatedAt,
	}
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
	if !ok {
		return
	}

	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := h.profiles.CreateUserProfile(r.Context(), claims.Subject, req.Email); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user_id": claims.Subject})
}

// userSubtree serves /v1/users/{id} and /v1/users/{id}/followers.
func (h *Handler) userSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, ok := requireScope(w, r, auth.ScopeSocialRead); !ok {
		return
	}

	segments := subpath(r, "/v1/users/")
	switch {
	case len(segments) == 1:
		user, err := h.profiles.GetUser(r.Context(), segments[0])
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserView(user))
	case len(segments) == 2 && segments[1] == "followers":
		ids, err := h.follows.GetFollowerIds(r.Context(), segments[0])
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"follower_ids": ids})
	default:
		notFound(w)
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeSocialRead)
	if !ok {
		return
	}

	user, err := h.profiles.GetUser(r.Context(), claims.Subject)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

// meSubtree serves profile updates and the follow edge under /v1/me/.
func (h *Handler) meSubtree(w http.ResponseWriter, r *http.Request) {
	segments := subpath(r, "/v1/me/")
	switch {
	case len(segments) == 1 && segments[0] == "full-name":
		h.updateFullName(w, r)
	case len(segments) == 1 && segments[0] == "display-name":
		h.updateDisplayName(w, r)
	case len(segments) == 1 && segments[0] == "notifications":
		h.updateNotifications(w, r)
	case len(segments) == 1 && segments[0] == "follows":
		h.listFollowing(w, r)
	case len(segments) == 2 && segments[0] == "follows":
		h.followEdge(w, r, segments[1])
	default:
		notFound(w)
	}
}

func (h *Handler) updateFullName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
	if !ok {
		return
	}

	var req struct {
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := h.profiles.UpdateProfile(r.Context(), claims.Subject, req.FullName); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateDisplayName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
	if !ok {
		return
	}

	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := h.profiles.UpdateDisplayName(r.Context(), claims.Subject, req.DisplayName); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
	if !ok {
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := h.profiles.UpdateNotificationEnabled(r.Context(), claims.Subject, req.Enabled); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listFollowing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeSocialRead)
	if !ok {
		return
	}

	ids, err := h.follows.GetFollowingIds(r.Context(), claims.Subject)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"following_ids": ids})
}

func (h *Handler) followEdge(w http.ResponseWriter, r *http.Request, targetID string) {
	switch r.Method {
	case http.MethodPut:
		claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
		if !ok {
			return
		}
		if err := h.follows.Follow(r.Context(), claims.Subject, targetID); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
		if !ok {
			return
		}
		if err := h.follows.Unfollow(r.Context(), claims.Subject, targetID); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		claims, ok := requireScope(w, r, auth.ScopeSocialRead)
		if !ok {
			return
		}
		following, err := h.follows.IsFollowing(r.Context(), claims.Subject, targetID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"following": following})
	default:
		methodNotAllowed(w)
	}
}
