package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tedhz/LeTeam/internal/docstore"
	"github.com/tedhz/LeTeam/internal/events"
	"github.com/tedhz/LeTeam/internal/observability"
)

// ErrPostNotFound is returned when a post document is absent.
var ErrPostNotFound = errors.New("post not found")

// Store owns posts and their nested comments and likes.
type Store struct {
	db     docstore.Store
	events *events.Publisher
	now    func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the creation-timestamp clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithEvents attaches a post-commit event publisher.
func WithEvents(publisher *events.Publisher) Option {
	return func(s *Store) {
		s.events = publisher
	}
}

// NewStore constructs a Store.
func NewStore(db docstore.Store, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePost writes the post document and, when updateDailyStatus is set,
// merges {hasPostedToday: true, postId} into the owner's profile in the same
// atomic batch. Both writes commit together or neither does.
func (s *Store) CreatePost(ctx context.Context, ownerUserID, caption, photoURL string, updateDailyStatus bool) (string, error) {
	postID := s.db.NewID()
	createdAt := s.now().UTC()

	batch := s.db.Batch()
	batch.Set(postDoc(postID), map[string]interface{}{
		"caption":     caption,
		"ownerUserId": ownerUserID,
		"photoUrl":    photoURL,
		"createdAt":   createdAt,
	})
	if updateDailyStatus {
		batch.SetMerge(userDoc(ownerUserID), map[string]interface{}{
			"dailyPostStatus": map[string]interface{}{
				"hasPostedToday": true,
				"postId":         postID,
			},
		})
	}
	if err := batch.Commit(ctx); err != nil {
		return "", fmt.Errorf("create post for %s: %w", ownerUserID, err)
	}

	observability.RecordPostPersisted(createdAt)
	s.events.PostCreated(ctx, events.PostCreated{
		PostID:      postID,
		OwnerUserID: ownerUserID,
		PhotoURL:    photoURL,
		CreatedAt:   createdAt,
	})
	return postID, nil
}

// GetPost loads one post. Missing optional fields default to zero values.
func (s *Store) GetPost(ctx context.Context, postID string) (Post, error) {
	snap, err := s.db.Get(ctx, postDoc(postID))
	if errors.Is(err, docstore.ErrNotFound) {
		return Post{}, fmt.Errorf("post %s: %w", postID, ErrPostNotFound)
	}
	if err != nil {
		return Post{}, fmt.Errorf("get post %s: %w", postID, err)
	}
	return postFromSnapshot(*snap), nil
}

// GetPostsByUser returns the owner's posts, newest first, truncated to limit.
func (s *Store) GetPostsByUser(ctx context.Context, ownerUserID string, limit int) ([]Post, error) {
	snaps, err := s.db.Query(ctx, docstore.Query{
		Collection: "posts",
		Filters: []docstore.Filter{
			{Field: "ownerUserId", Op: docstore.OpEqual, Value: ownerUserID},
		},
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("posts by %s: %w", ownerUserID, err)
	}

	result := make([]Post, 0, len(snaps))
	for _, snap := range snaps {
		result = append(result, postFromSnapshot(snap))
	}
	return result, nil
}

// LikePost records a like. Liking twice is a no-op overwrite.
func (s *Store) LikePost(ctx context.Context, postID, likerUserID string) error {
	err := s.db.Set(ctx, postLikeDoc(postID, likerUserID), map[string]interface{}{
		"createdAt": s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("like post %s: %w", postID, err)
	}
	return nil
}

// UnlikePost removes a like. Unliking a never-liked pair succeeds.
func (s *Store) UnlikePost(ctx context.Context, postID, likerUserID string) error {
	if err := s.db.Delete(ctx, postLikeDoc(postID, likerUserID)); err != nil {
		return fmt.Errorf("unlike post %s: %w", postID, err)
	}
	return nil
}

// IsPostLikedByUser checks for the like marker document.
func (s *Store) IsPostLikedByUser(ctx context.Context, postID, likerUserID string) (bool, error) {
	return s.markerExists(ctx, postLikeDoc(postID, likerUserID))
}

// AddComment appends a comment and returns its identifier.
func (s *Store) AddComment(ctx context.Context, postID, authorUserID, text string) (string, error) {
	commentID := s.db.NewID()
	err := s.db.Set(ctx, commentDoc(postID, commentID), map[string]interface{}{
		"authorUserId": authorUserID,
		"text":         text,
		"createdAt":    s.now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("comment on post %s: %w", postID, err)
	}
	return commentID, nil
}

// GetComments returns a post's comments, oldest first.
func (s *Store) GetComments(ctx context.Context, postID string) ([]Comment, error) {
	snaps, err := s.db.Query(ctx, docstore.Query{
		Collection: commentsCollection(postID),
		OrderBy:    "createdAt",
	})
	if err != nil {
		return nil, fmt.Errorf("comments for post %s: %w", postID, err)
	}

	result := make([]Comment, 0, len(snaps))
	for _, snap := range snaps {
		result = append(result, commentFromSnapshot(postID, snap))
	}
	return result, nil
}

// LikeComment records a comment like. Same idempotent shape as post likes.
func (s *Store) LikeComment(ctx context.Context, postID, commentID, likerUserID string) error {
	err := s.db.Set(ctx, commentLikeDoc(postID, commentID, likerUserID), map[string]interface{}{
		"createdAt": s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("like comment %s: %w", commentID, err)
	}
	return nil
}

// UnlikeComment removes a comment like.
func (s *Store) UnlikeComment(ctx context.Context, postID, commentID, likerUserID string) error {
	if err := s.db.Delete(ctx, commentLikeDoc(postID, commentID, likerUserID)); err != nil {
		return fmt.Errorf("unlike comment %s: %w", commentID, err)
	}
	return nil
}

// IsCommentLikedByUser checks for the comment like marker document.
func (s *Store) IsCommentLikedByUser(ctx context.Context, postID, commentID, likerUserID string) (bool, error) {
	return s.markerExists(ctx, commentLikeDoc(postID, commentID, likerUserID))
}

func (s *Store) markerExists(ctx context.Context, path string) (bool, error) {
	_, err := s.db.Get(ctx, path)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s: %w", path, err)
	}
	return true, nil
}
