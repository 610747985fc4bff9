package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tedhz/LeTeam/internal/docstore"
)

func TestCreateAndGetUserProfile(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(docstore.NewMemory())

	require.NoError(t, store.CreateUserProfile(ctx, "u1", "alex@example.com"))

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", user.UserID)
	require.Equal(t, "alex@example.com", user.Email)
	require.False(t, user.DailyPostStatus.HasPostedToday)
	require.Nil(t, user.DailyPostStatus.PostID)
	require.True(t, user.NotificationPrefs.Enabled)
	require.False(t, user.CreatedAt.IsZero())
}

func TestGetUserMissingReturnsNotFound(t *testing.T) {
	store := NewProfileStore(docstore.NewMemory())

	_, err := store.GetUser(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserDefaultsAreAsymmetric(t *testing.T) {
	ctx := context.Background()
	db := docstore.NewMemory()
	store := NewProfileStore(db)

	// A document missing both sub-objects entirely.
	require.NoError(t, db.Set(ctx, "users/u1", map[string]interface{}{
		"email": "old@example.com",
	}))

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.False(t, user.DailyPostStatus.HasPostedToday, "posted-today defaults to false")
	require.True(t, user.NotificationPrefs.Enabled, "notifications default to true")
}

// Duplicate createUserProfile overwrites the whole document, dropping any
// name fields set since signup. Known sharp edge; the behavior is load-bearing
// for callers that rely on create-as-reset, so it is pinned here.
func TestCreateUserProfileTwiceOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(docstore.NewMemory())

	require.NoError(t, store.CreateUserProfile(ctx, "u1", "alex@example.com"))
	require.NoError(t, store.UpdateFullName(ctx, "u1", "Alex Example"))

	require.NoError(t, store.CreateUserProfile(ctx, "u1", "alex@example.com"))

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, user.FullName)
}

func TestUpdateProfileRejectsBlankFullName(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(docstore.NewMemory())
	require.NoError(t, store.CreateUserProfile(ctx, "u1", "alex@example.com"))

	require.ErrorIs(t, store.UpdateProfile(ctx, "u1", ""), ErrBlankFullName)
	require.ErrorIs(t, store.UpdateProfile(ctx, "u1", "   \t"), ErrBlankFullName)

	require.NoError(t, store.UpdateProfile(ctx, "u1", "Alex Example"))
	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Alex Example", user.FullName)
}

func TestUpdateNotificationEnabled(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(docstore.NewMemory())
	require.NoError(t, store.CreateUserProfile(ctx, "u1", "alex@example.com"))

	require.NoError(t, store.UpdateNotificationEnabled(ctx, "u1", false))

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.False(t, user.NotificationPrefs.Enabled)
}

func TestUpdateDailyPostStatus(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(docstore.NewMemory())
	require.NoError(t, store.CreateUserProfile(ctx, "u1", "alex@example.com"))

	postID := "p42"
	require.NoError(t, store.UpdateDailyPostStatus(ctx, "u1", true, &postID))

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.True(t, user.DailyPostStatus.HasPostedToday)
	require.NotNil(t, user.DailyPostStatus.PostID)
	require.Equal(t, "p42", *user.DailyPostStatus.PostID)

	// The external daily reset clears the cache with a nil post id.
	require.NoError(t, store.UpdateDailyPostStatus(ctx, "u1", false, nil))
	user, err = store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.False(t, user.DailyPostStatus.HasPostedToday)
	require.Nil(t, user.DailyPostStatus.PostID)
}

func TestUpdateDisplayName(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(docstore.NewMemory())
	require.NoError(t, store.CreateUserProfile(ctx, "u1", "alex@example.com"))

	require.NoError(t, store.UpdateDisplayName(ctx, "u1", "lifter_alex"))

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "lifter_alex", user.DisplayName)
}

func TestUpdateFieldOnMissingUser(t *testing.T) {
	store := NewProfileStore(docstore.NewMemory())

	err := store.UpdateFullName(context.Background(), "ghost", "Nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}
