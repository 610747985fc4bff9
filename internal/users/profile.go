package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tedhz/LeTeam/internal/docstore"
)

var (
	// ErrUserNotFound is returned when a profile document is absent.
	ErrUserNotFound = errors.New("user not found")
	// ErrBlankFullName is returned when a profile update supplies a
	// blank or whitespace-only full name.
	ErrBlankFullName = errors.New("fullName is required")
)

// ProfileStore owns user profile documents.
type ProfileStore struct {
	db docstore.Store
}

// NewProfileStore constructs a ProfileStore.
func NewProfileStore(db docstore.Store) *ProfileStore {
	return &ProfileStore{db: db}
}

// CreateUserProfile writes the initial profile document for a signup.
// Calling it again for the same user overwrites the document, including any
// name fields updated since; callers must invoke it exactly once per signup.
func (s *ProfileStore) CreateUserProfile(ctx context.Context, userID, email string) error {
	payload := map[string]interface{}{
		"email": email,
		"dailyPostStatus": map[string]interface{}{
			"hasPostedToday": false,
			"postId":         nil,
		},
		"notificationPrefs": map[string]interface{}{
			"enabled": true,
		},
		"createdAt": docstore.ServerTimestamp,
	}
	if err := s.db.Set(ctx, userDoc(userID), payload); err != nil {
		return fmt.Errorf("create profile for %s: %w", userID, err)
	}
	return nil
}

// GetUser loads a profile. Missing sub-object fields default individually:
// dailyPostStatus.hasPostedToday to false, notificationPrefs.enabled to true.
func (s *ProfileStore) GetUser(ctx context.Context, userID string) (User, error) {
	snap, err := s.db.Get(ctx, userDoc(userID))
	if errors.Is(err, docstore.ErrNotFound) {
		return User{}, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user %s: %w", userID, err)
	}

	status := snap.Map("dailyPostStatus")
	prefs := snap.Map("notificationPrefs")

	return User{
		UserID:      userID,
		FullName:    snap.String("fullName"),
		DisplayName: snap.String("displayName"),
		Email:       snap.String("email"),
		DailyPostStatus: DailyPostStatus{
			HasPostedToday: status.Bool("hasPostedToday", false),
			PostID:         status.NullString("postId"),
		},
		NotificationPrefs: NotificationPrefs{
			Enabled: prefs.Bool("enabled", true),
		},
		CreatedAt: snap.Time("createdAt"),
	}, nil
}

// UpdateProfile sets the full name after rejecting blank input.
func (s *ProfileStore) UpdateProfile(ctx context.Context, userID, fullName string) error {
	if strings.TrimSpace(fullName) == "" {
		return ErrBlankFullName
	}
	return s.updateField(ctx, userID, "fullName", fullName)
}

// UpdateFullName sets the full name without validation.
func (s *ProfileStore) UpdateFullName(ctx context.Context, userID, fullName string) error {
	return s.updateField(ctx, userID, "fullName", fullName)
}

// UpdateDisplayName sets the display name.
func (s *ProfileStore) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	return s.updateField(ctx, userID, "displayName", displayName)
}

// UpdateNotificationEnabled overwrites the notificationPrefs sub-object.
func (s *ProfileStore) UpdateNotificationEnabled(ctx context.Context, userID string, enabled bool) error {
	return s.updateField(ctx, userID, "notificationPrefs", map[string]interface{}{
		"enabled": enabled,
	})
}

// UpdateDailyPostStatus overwrites the dailyPostStatus sub-object. A nil
// postID clears the cached post reference.
func (s *ProfileStore) UpdateDailyPostStatus(ctx context.Context, userID string, hasPostedToday bool, postID *string) error {
	return s.updateField(ctx, userID, "dailyPostStatus", map[string]interface{}{
		"hasPostedToday": hasPostedToday,
		"postId":         postID,
	})
}

func (s *ProfileStore) updateField(ctx context.Context, userID, field string, value interface{}) error {
	err := s.db.Update(ctx, userDoc(userID), map[string]interface{}{field: value})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}
	if err != nil {
		return fmt.Errorf("update %s for %s: %w", field, userID, err)
	}
	return nil
}
