// Package users owns user profile documents and the symmetric follow graph.
package users

import "time"

// User is the profile document stored under users/{userId}.
type User struct {
	UserID            string
	FullName          string
	DisplayName       string
	Email             string
	DailyPostStatus   DailyPostStatus
	NotificationPrefs NotificationPrefs
	CreatedAt         time.Time
}

// DailyPostStatus is a denormalized cache of whether the user has posted
// today. It is set by the post-creation batch and cleared once per day by an
// external scheduler, never by this layer.
type DailyPostStatus struct {
	HasPostedToday bool
	PostID         *string
}

// NotificationPrefs holds the user's notification toggle.
type NotificationPrefs struct {
	Enabled bool
}

func userDoc(userID string) string {
	return "users/" + userID
}

func followsCollection(userID string) string {
	return "users/" + userID + "/follows"
}

func followsDoc(me, target string) string {
	return followsCollection(me) + "/" + target
}

func followersCollection(userID string) string {
	return "users/" + userID + "/followers"
}

func followersDoc(target, me string) string {
	return followersCollection(target) + "/" + me
}
