package posts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tedhz/LeTeam/internal/docstore"
)

func seedFollow(t *testing.T, db docstore.Store, followerID, followeeID string) {
	t.Helper()
	err := db.Set(context.Background(), fmt.Sprintf("users/%s/follows/%s", followerID, followeeID), map[string]interface{}{
		"createdAt": time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestFeedMergesAcrossOwnersNewestFirst(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)

	seedFollow(t, db, "me", "alice")
	seedFollow(t, db, "me", "bob")

	var ordered []string
	for _, owner := range []string{"alice", "bob", "alice", "me", "bob", "alice"} {
		id, err := store.CreatePost(ctx, owner, "caption", "url", false)
		require.NoError(t, err)
		ordered = append(ordered, id)
	}

	feed, err := store.GetFeedPosts(ctx, "me", 50)
	require.NoError(t, err)
	require.Len(t, feed, len(ordered))
	for i, post := range feed {
		require.Equal(t, ordered[len(ordered)-1-i], post.ID, "feed position %d", i)
	}
}

func TestFeedIncludesOwnPostsWithoutFollows(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	id, err := store.CreatePost(ctx, "me", "solo", "url", false)
	require.NoError(t, err)

	feed, err := store.GetFeedPosts(ctx, "me", 50)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, id, feed[0].ID)
}

func TestFeedExcludesNonFollowedOwners(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)

	seedFollow(t, db, "me", "alice")
	_, err := store.CreatePost(ctx, "alice", "in", "url", false)
	require.NoError(t, err)
	_, err = store.CreatePost(ctx, "stranger", "out", "url", false)
	require.NoError(t, err)

	feed, err := store.GetFeedPosts(ctx, "me", 50)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, "alice", feed[0].OwnerUserID)
}

func TestFeedSpansMembershipChunks(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)

	// 14 followees plus self is 15 ids, two membership chunks.
	for i := 0; i < 14; i++ {
		owner := fmt.Sprintf("user-%02d", i)
		seedFollow(t, db, "me", owner)
		_, err := store.CreatePost(ctx, owner, "caption", "url", false)
		require.NoError(t, err)
	}

	feed, err := store.GetFeedPosts(ctx, "me", 50)
	require.NoError(t, err)
	require.Len(t, feed, 14)
	for i := 1; i < len(feed); i++ {
		require.False(t, feed[i].CreatedAt.After(feed[i-1].CreatedAt), "feed out of order at %d", i)
	}
}

func TestFeedTruncatesToLimit(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for i := 0; i < 6; i++ {
		_, err := store.CreatePost(ctx, "me", "caption", "url", false)
		require.NoError(t, err)
	}

	feed, err := store.GetFeedPosts(ctx, "me", 4)
	require.NoError(t, err)
	require.Len(t, feed, 4)
}

// failingPostQueries fails every posts-collection query after the first n.
// Chunk queries run concurrently, so the budget is mutex-guarded.
type failingPostQueries struct {
	docstore.Store
	mu        sync.Mutex
	remaining int
}

func (f *failingPostQueries) Query(ctx context.Context, q docstore.Query) ([]docstore.Snapshot, error) {
	if q.Collection == "posts" {
		f.mu.Lock()
		if f.remaining <= 0 {
			f.mu.Unlock()
			return nil, errors.New("backend unavailable")
		}
		f.remaining--
		f.mu.Unlock()
	}
	return f.Store.Query(ctx, q)
}

func TestFeedChunkFailureAbortsWholeFeed(t *testing.T) {
	ctx := context.Background()
	db := docstore.NewMemory()
	flaky := &failingPostQueries{Store: db, remaining: 1}
	store := NewStore(flaky, WithClock(tickingClock(time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC))))

	for i := 0; i < 14; i++ {
		owner := fmt.Sprintf("user-%02d", i)
		seedFollow(t, db, "me", owner)
		_, err := store.CreatePost(ctx, owner, "caption", "url", false)
		require.NoError(t, err)
	}

	feed, err := store.GetFeedPosts(ctx, "me", 50)
	require.Error(t, err, "one failed chunk must fail the whole feed")
	require.Nil(t, feed, "no partial feed on chunk failure")
}
