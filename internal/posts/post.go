// Package posts owns post documents with their nested comments and likes,
// and assembles the home feed from the follow graph.
package posts

import (
	"time"

	"github.com/tedhz/LeTeam/internal/docstore"
)

// Post is the document stored under posts/{postId}. Likes and comments hang
// off it as nested documents rather than fields.
type Post struct {
	ID          string
	Caption     string
	OwnerUserID string
	PhotoURL    string
	CreatedAt   time.Time
}

// Comment is the document stored under posts/{postId}/comments/{commentId}.
type Comment struct {
	ID           string
	PostID       string
	AuthorUserID string
	Text         string
	CreatedAt    time.Time
}

func postDoc(postID string) string {
	return "posts/" + postID
}

func postLikeDoc(postID, likerUserID string) string {
	return postDoc(postID) + "/likes/" + likerUserID
}

func commentsCollection(postID string) string {
	return postDoc(postID) + "/comments"
}

func commentDoc(postID, commentID string) string {
	return commentsCollection(postID) + "/" + commentID
}

func commentLikeDoc(postID, commentID, likerUserID string) string {
	return commentDoc(postID, commentID) + "/likes/" + likerUserID
}

func followsCollection(userID string) string {
	return "users/" + userID + "/follows"
}

func userDoc(userID string) string {
	return "users/" + userID
}

func postFromSnapshot(snap docstore.Snapshot) Post {
	return Post{
		ID:          snap.ID,
		Caption:     snap.String("caption"),
		OwnerUserID: snap.String("ownerUserId"),
		PhotoURL:    snap.String("photoUrl"),
		CreatedAt:   snap.Time("createdAt"),
	}
}

func commentFromSnapshot(postID string, snap docstore.Snapshot) Comment {
	return Comment{
		ID:           snap.ID,
		PostID:       postID,
		AuthorUserID: snap.String("authorUserId"),
		Text:         snap.String("text"),
		CreatedAt:    snap.Time("createdAt"),
	}
}
