package photos

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExtensionForContentType(t *testing.T) {
	cases := map[string]string{
		"image/jpeg": "jpg",
		"image/jpg":  "jpg",
		"image/png":  "png",
		"image/webp": "webp",
		"IMAGE/PNG":  "png",
		"image/gif":  "jpg",
		"":           "jpg",
	}
	for contentType, want := range cases {
		require.Equal(t, want, ExtensionForContentType(contentType), "content type %q", contentType)
	}
}

func TestUploadPostPhotoPath(t *testing.T) {
	blobs := NewMemoryBlobStore()
	at := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	uploader := NewUploader(blobs, WithClock(func() time.Time { return at }))

	url, err := uploader.UploadPhoto(context.Background(), TypePost, "u1", "image/png", strings.NewReader("pixels"))
	require.NoError(t, err)

	wantPath := "images/u1/1778414400000.png"
	require.Equal(t, "memory://"+wantPath, url)

	data, contentType, ok := blobs.Blob(wantPath)
	require.True(t, ok)
	require.Equal(t, "pixels", string(data))
	require.Equal(t, "image/png", contentType)
}

func TestUploadProfilePhotoOverwritesFixedName(t *testing.T) {
	blobs := NewMemoryBlobStore()
	uploader := NewUploader(blobs)

	first, err := uploader.UploadPhoto(context.Background(), TypeProfile, "u1", "image/jpeg", strings.NewReader("old"))
	require.NoError(t, err)
	second, err := uploader.UploadPhoto(context.Background(), TypeProfile, "u1", "image/jpeg", strings.NewReader("new"))
	require.NoError(t, err)
	require.Equal(t, first, second, "profile photo path is stable per user")

	data, _, ok := blobs.Blob("profilePhotos/u1/profile.jpg")
	require.True(t, ok)
	require.Equal(t, "new", string(data))
}

func TestUploadUnknownTypeRejected(t *testing.T) {
	uploader := NewUploader(NewMemoryBlobStore())

	_, err := uploader.UploadPhoto(context.Background(), Type("story"), "u1", "image/png", strings.NewReader("x"))
	require.Error(t, err)
}
