package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestMemorySetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	err := store.Set(ctx, "posts/p1", map[string]interface{}{
		"caption":     "leg day",
		"ownerUserId": "u1",
	})
	require.NoError(t, err)

	snap, err := store.Get(ctx, "posts/p1")
	require.NoError(t, err)
	require.Equal(t, "p1", snap.ID)
	require.Equal(t, "leg day", snap.String("caption"))
	require.Equal(t, "u1", snap.String("ownerUserId"))
	require.Empty(t, snap.String("photoUrl"))
}

func TestMemoryGetMissingReturnsNotFound(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "posts/nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateMissingReturnsNotFound(t *testing.T) {
	store := NewMemory()

	err := store.Update(context.Background(), "users/u1", map[string]interface{}{"fullName": "A"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDeleteMissingSucceeds(t *testing.T) {
	store := NewMemory()

	require.NoError(t, store.Delete(context.Background(), "posts/nope"))
}

func TestMemoryServerTimestampSubstitution(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemory(WithClock(func() time.Time { return now }))

	err := store.Set(ctx, "users/u1/follows/u2", map[string]interface{}{
		"createdAt": ServerTimestamp,
	})
	require.NoError(t, err)

	snap, err := store.Get(ctx, "users/u1/follows/u2")
	require.NoError(t, err)
	require.Equal(t, now, snap.Time("createdAt"))
}

func TestMemorySetMergePreservesOtherFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Set(ctx, "users/u1", map[string]interface{}{
		"email":    "a@b.c",
		"fullName": "Alex",
		"dailyPostStatus": map[string]interface{}{
			"hasPostedToday": false,
			"postId":         nil,
		},
	}))

	require.NoError(t, store.SetMerge(ctx, "users/u1", map[string]interface{}{
		"dailyPostStatus": map[string]interface{}{
			"hasPostedToday": true,
			"postId":         "p9",
		},
	}))

	snap, err := store.Get(ctx, "users/u1")
	require.NoError(t, err)
	require.Equal(t, "a@b.c", snap.String("email"))
	require.Equal(t, "Alex", snap.String("fullName"))
	require.True(t, snap.Map("dailyPostStatus").Bool("hasPostedToday", false))
	require.NotNil(t, snap.Map("dailyPostStatus").NullString("postId"))
}

func TestMemoryBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	batch := store.Batch()
	batch.Set("posts/p1", map[string]interface{}{"caption": "one"})
	batch.Set("bad//path", map[string]interface{}{"caption": "broken"})
	require.Error(t, batch.Commit(ctx))

	_, err := store.Get(ctx, "posts/p1")
	require.ErrorIs(t, err, ErrNotFound, "a failed batch must not apply any write")

	good := store.Batch()
	good.Set("posts/p1", map[string]interface{}{"caption": "one"})
	good.Set("users/u1", map[string]interface{}{"email": "a@b.c"})
	good.Delete("posts/p2")
	require.NoError(t, good.Commit(ctx))

	snap, err := store.Get(ctx, "posts/p1")
	require.NoError(t, err)
	require.Equal(t, "one", snap.String("caption"))
}

func TestMemoryQueryEqualityOrderLimit(t *testing.T) {
	ctx := context.Background()
	clock := fixedClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	store := NewMemory()

	for i, owner := range []string{"u1", "u1", "u2", "u1"} {
		err := store.Set(ctx, "posts/p"+string(rune('0'+i)), map[string]interface{}{
			"ownerUserId": owner,
			"createdAt":   clock(),
		})
		require.NoError(t, err)
	}

	snaps, err := store.Query(ctx, Query{
		Collection: "posts",
		Filters:    []Filter{{Field: "ownerUserId", Op: OpEqual, Value: "u1"}},
		OrderBy:    "createdAt",
		Desc:       true,
		Limit:      2,
	})
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	require.Equal(t, "p3", snaps[0].ID)
	require.Equal(t, "p1", snaps[1].ID)
}

func TestMemoryQueryMembership(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for _, doc := range []struct{ id, owner string }{
		{"p1", "u1"}, {"p2", "u2"}, {"p3", "u3"},
	} {
		require.NoError(t, store.Set(ctx, "posts/"+doc.id, map[string]interface{}{
			"ownerUserId": doc.owner,
		}))
	}

	snaps, err := store.Query(ctx, Query{
		Collection: "posts",
		Filters:    []Filter{{Field: "ownerUserId", Op: OpIn, Value: []string{"u1", "u3"}}},
	})
	require.NoError(t, err)
	require.Len(t, snaps, 2)
}

func TestMemoryQueryRejectsOversizedMembership(t *testing.T) {
	store := NewMemory()

	ids := make([]string, InLimit+1)
	for i := range ids {
		ids[i] = "u"
	}
	_, err := store.Query(context.Background(), Query{
		Collection: "posts",
		Filters:    []Filter{{Field: "ownerUserId", Op: OpIn, Value: ids}},
	})
	require.Error(t, err)
}

func TestMemoryQueryScopedToCollection(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Set(ctx, "users/u1/follows/u2", map[string]interface{}{"createdAt": ServerTimestamp}))
	require.NoError(t, store.Set(ctx, "users/u1/followers/u3", map[string]interface{}{"createdAt": ServerTimestamp}))
	require.NoError(t, store.Set(ctx, "users/u9/follows/u2", map[string]interface{}{"createdAt": ServerTimestamp}))

	snaps, err := store.Query(ctx, Query{Collection: "users/u1/follows"})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	require.Equal(t, "u2", snaps[0].ID)
}

func TestMemorySnapshotCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Set(ctx, "users/u1", map[string]interface{}{
		"notificationPrefs": map[string]interface{}{"enabled": true},
	}))

	snap, err := store.Get(ctx, "users/u1")
	require.NoError(t, err)
	snap.Data["notificationPrefs"].(map[string]interface{})["enabled"] = false

	again, err := store.Get(ctx, "users/u1")
	require.NoError(t, err)
	require.True(t, again.Map("notificationPrefs").Bool("enabled", false))
}
