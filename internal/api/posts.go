package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tedhz/LeTeam/internal/auth"
	"github.com/tedhz/LeTeam/internal/posts"
)

// CreatePostRequest is the payload for POST /v1/posts. UpdateDailyStatus
// defaults to true when omitted.
type CreatePostRequest struct {
	Caption           string `json:"caption"`
	PhotoURL          string `json:"photo_url"`
	UpdateDailyStatus *bool  `json:"update_daily_status"`
}

// PostView exposes one post.
type PostView struct {
	PostID      string    `json:"post_id"`
	Caption     string    `json:"caption"`
	OwnerUserID string    `json:"owner_user_id"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommentView exposes one comment.
type CommentView struct {
	CommentID    string    `json:"comment_id"`
	PostID       string    `json:"post_id"`
	AuthorUserID string    `json:"author_user_id"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

func toPostView(p posts.Post) PostView {
	return PostView{
		PostID:      p.ID,
		Caption:     p.Caption,
		OwnerUserID: p.OwnerUserID,
		PhotoURL:    p.PhotoURL,
		CreatedAt:   p.CreatedAt,
	}
}

func toPostViews(items []posts.Post) []PostView {
	views := make([]PostView, 0, len(items))
	for _, p := range items {
		views = append(views, toPostView(p))
	}
	return views
}

func (h *Handler) postsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createPost(w, r)
	case http.MethodGet:
		h.listPostsByOwner(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	updateDailyStatus := true
	if req.UpdateDailyStatus != nil {
		updateDailyStatus = *req.UpdateDailyStatus
	}

	postID, err := h.posts.CreatePost(r.Context(), claims.Subject, req.Caption, req.PhotoURL, updateDailyStatus)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"post_id": postID})
}

func (h *Handler) listPostsByOwner(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireScope(w, r, auth.ScopeSocialRead); !ok {
		return
	}

	ownerID := r.URL.Query().Get("owner_id")
	if strings.TrimSpace(ownerID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing owner_id parameter")
		return
	}

	items, err := h.posts.GetPostsByUser(r.Context(), ownerID, parseLimit(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]PostView{"items": toPostViews(items)})
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeSocialRead)
	if !ok {
		return
	}

	items, err := h.posts.GetFeedPosts(r.Context(), claims.Subject, parseLimit(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]PostView{"items": toPostViews(items)})
}

// postSubtree serves /v1/posts/{id}, its likes, comments, and comment likes.
func (h *Handler) postSubtree(w http.ResponseWriter, r *http.Request) {
	segments := subpath(r, "/v1/posts/")
	switch {
	case len(segments) == 1:
		h.getPost(w, r, segments[0])
	case len(segments) == 3 && segments[1] == "likes" && segments[2] == "me":
		h.postLike(w, r, segments[0])
	case len(segments) == 2 && segments[1] == "comments":
		h.comments(w, r, segments[0])
	case len(segments) == 5 && segments[1] == "comments" && segments[3] == "likes" && segments[4] == "me":
		h.commentLike(w, r, segments[0], segments[2])
	default:
		notFound(w)
	}
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request, postID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if _, ok := requireScope(w, r, auth.ScopeSocialRead); !ok {
		return
	}

	post, err := h.posts.GetPost(r.Context(), postID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostView(post))
}

func (h *Handler) postLike(w http.ResponseWriter, r *http.Request, postID string) {
	switch r.Method {
	case http.MethodPut:
		claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
		if !ok {
			return
		}
		if err := h.posts.LikePost(r.Context(), postID, claims.Subject); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
		if !ok {
			return
		}
		if err := h.posts.UnlikePost(r.Context(), postID, claims.Subject); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		claims, ok := requireScope(w, r, auth.ScopeSocialRead)
		if !ok {
			return
		}
		liked, err := h.posts.IsPostLikedByUser(r.Context(), postID, claims.Subject)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) comments(w http.ResponseWriter, r *http.Request, postID string) {
	switch r.Method {
	case http.MethodPost:
		claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
		if !ok {
			return
		}
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		commentID, err := h.posts.AddComment(r.Context(), postID, claims.Subject, req.Text)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"comment_id": commentID})
	case http.MethodGet:
		if _, ok := requireScope(w, r, auth.ScopeSocialRead); !ok {
			return
		}
		items, err := h.posts.GetComments(r.Context(), postID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		views := make([]CommentView, 0, len(items))
		for _, c := range items {
			views = append(views, CommentView{
				CommentID:    c.ID,
				PostID:       c.PostID,
				AuthorUserID: c.AuthorUserID,
				Text:         c.Text,
				CreatedAt:    c.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, map[string][]CommentView{"items": views})
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) commentLike(w http.ResponseWriter, r *http.Request, postID, commentID string) {
	switch r.Method {
	case http.MethodPut:
		claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
		if !ok {
			return
		}
		if err := h.posts.LikeComment(r.Context(), postID, commentID, claims.Subject); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
		if !ok {
			return
		}
		if err := h.posts.UnlikeComment(r.Context(), postID, commentID, claims.Subject); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		claims, ok := requireScope(w, r, auth.ScopeSocialRead)
		if !ok {
			return
		}
		liked, err := h.posts.IsCommentLikedByUser(r.Context(), postID, commentID, claims.Subject)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
	default:
		methodNotAllowed(w)
	}
}
