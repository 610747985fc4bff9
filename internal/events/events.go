// Package events emits best-effort domain events after store commits succeed.
// Delivery is fire-and-forget: the document batch is the only consistency
// guarantee in this layer, so a publish failure is logged and counted but
// never surfaced to the caller.
package events

import "time"

// Topic carries every social domain event.
const Topic = "social_events"

// PostCreated is emitted when a post batch commits.
type PostCreated struct {
	PostID      string    `json:"post_id"`
	OwnerUserID string    `json:"owner_user_id"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserFollowed is emitted when a follow edge pair commits.
type UserFollowed struct {
	FollowerUserID string    `json:"follower_user_id"`
	FolloweeUserID string    `json:"followee_user_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// WorkoutCreated is emitted when a workout batch commits.
type WorkoutCreated struct {
	WorkoutID     string    `json:"workout_id"`
	UserID        string    `json:"user_id"`
	WorkoutDate   time.Time `json:"workout_date"`
	ExerciseCount int       `json:"exercise_count"`
}
