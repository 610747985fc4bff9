package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tedhz/LeTeam/internal/docstore"
	"github.com/tedhz/LeTeam/internal/events"
)

// FollowStore owns the symmetric follow/follower edge pair. Both halves of an
// edge are written and deleted in one atomic batch, so no successful call
// leaves the graph with a single half present.
type FollowStore struct {
	db     docstore.Store
	events *events.Publisher
}

// FollowOption customises a FollowStore.
type FollowOption func(*FollowStore)

// WithFollowEvents attaches a post-commit event publisher.
func WithFollowEvents(publisher *events.Publisher) FollowOption {
	return func(s *FollowStore) {
		s.events = publisher
	}
}

// NewFollowStore constructs a FollowStore.
func NewFollowStore(db docstore.Store, opts ...FollowOption) *FollowStore {
	s := &FollowStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Follow writes both halves of the edge atomically. Re-following an existing
// edge overwrites it in place.
func (s *FollowStore) Follow(ctx context.Context, myUserID, targetUserID string) error {
	payload := map[string]interface{}{"createdAt": docstore.ServerTimestamp}

	batch := s.db.Batch()
	batch.Set(followsDoc(myUserID, targetUserID), payload)
	batch.Set(followersDoc(targetUserID, myUserID), payload)
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("follow %s -> %s: %w", myUserID, targetUserID, err)
	}

	s.events.UserFollowed(ctx, events.UserFollowed{
		FollowerUserID: myUserID,
		FolloweeUserID: targetUserID,
		OccurredAt:     time.Now().UTC(),
	})
	return nil
}

// Unfollow deletes both halves of the edge atomically. Unfollowing a
// non-edge succeeds without side effects.
func (s *FollowStore) Unfollow(ctx context.Context, myUserID, targetUserID string) error {
	batch := s.db.Batch()
	batch.Delete(followsDoc(myUserID, targetUserID))
	batch.Delete(followersDoc(targetUserID, myUserID))
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("unfollow %s -> %s: %w", myUserID, targetUserID, err)
	}
	return nil
}

// IsFollowing checks the follower-side half of the edge.
func (s *FollowStore) IsFollowing(ctx context.Context, myUserID, targetUserID string) (bool, error) {
	_, err := s.db.Get(ctx, followsDoc(myUserID, targetUserID))
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is following %s -> %s: %w", myUserID, targetUserID, err)
	}
	return true, nil
}

// GetFollowingIds enumerates the ids the user follows. Unordered, unpaged.
func (s *FollowStore) GetFollowingIds(ctx context.Context, myUserID string) ([]string, error) {
	return s.edgeIDs(ctx, followsCollection(myUserID))
}

// GetFollowerIds enumerates the ids following the user. Unordered, unpaged.
func (s *FollowStore) GetFollowerIds(ctx context.Context, myUserID string) ([]string, error) {
	return s.edgeIDs(ctx, followersCollection(myUserID))
}

func (s *FollowStore) edgeIDs(ctx context.Context, collection string) ([]string, error) {
	snaps, err := s.db.Query(ctx, docstore.Query{Collection: collection})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	ids := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		ids = append(ids, snap.ID)
	}
	return ids, nil
}
