// Package photos uploads user images to the blob store and resolves their
// durable content URLs.
package photos

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Type selects the blob path scheme for an upload.
type Type string

const (
	// TypePost stores under images/{userId}/{timestamp}.{ext}.
	TypePost Type = "post"
	// TypeProfile stores under profilePhotos/{userId}/profile.{ext}.
	TypeProfile Type = "profile"
)

// BlobStore is the blob client surface: write bytes at a path, get back a
// durable URL.
type BlobStore interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error)
}

// ExtensionForContentType maps a MIME type to a file extension,
// case-insensitively. Unknown types fall back to jpg.
func ExtensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// Uploader builds blob paths and delegates to the blob store.
type Uploader struct {
	blobs BlobStore
	now   func() time.Time
}

// Option customises an Uploader.
type Option func(*Uploader)

// WithClock overrides the clock used for post photo paths.
func WithClock(now func() time.Time) Option {
	return func(u *Uploader) {
		u.now = now
	}
}

// NewUploader constructs an Uploader.
func NewUploader(blobs BlobStore, opts ...Option) *Uploader {
	u := &Uploader{blobs: blobs, now: time.Now}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// UploadPhoto stores the image and returns its durable URL. Post photos get a
// millisecond-timestamp name so repeated uploads never collide; profile
// photos overwrite a fixed name so each user keeps exactly one.
func (u *Uploader) UploadPhoto(ctx context.Context, photoType Type, userID, contentType string, r io.Reader) (string, error) {
	path, err := u.objectPath(photoType, userID, contentType)
	if err != nil {
		return "", err
	}
	url, err := u.blobs.Upload(ctx, path, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return url, nil
}

func (u *Uploader) objectPath(photoType Type, userID, contentType string) (string, error) {
	ext := ExtensionForContentType(contentType)
	switch photoType {
	case TypePost:
		return fmt.Sprintf("images/%s/%d.%s", userID, u.now().UnixMilli(), ext), nil
	case TypeProfile:
		return fmt.Sprintf("profilePhotos/%s/profile.%s", userID, ext), nil
	default:
		return "", fmt.Errorf("unknown photo type %q", photoType)
	}
}
