package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		size     int64
		wantErr  error
	}{
		{"jpeg ok", "image/jpeg", 1024, nil},
		{"webm ok", "video/webm", 1024, nil},
		{"pdf rejected", "application/pdf", 1024, ErrTypeNotAllowed},
		{"svg rejected", "image/svg+xml", 1024, ErrTypeNotAllowed},
		{"at limit", "image/png", MaxUploadBytes, nil},
		{"over limit", "image/png", MaxUploadBytes + 1, ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.mimeType, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "image", FileType("image/jpeg"))
	assert.Equal(t, "video", FileType("video/mp4"))
	assert.Equal(t, "image", FileType(""))
}

func TestNilClientReportsUnconfigured(t *testing.T) {
	var c *Client
	assert.ErrorIs(t, c.EnsureBucket(context.Background()), ErrNotConfigured)
	assert.ErrorIs(t, c.Upload(context.Background(), "a.png", "image/png", nil), ErrNotConfigured)
	assert.ErrorIs(t, c.Remove(context.Background(), "a.png"), ErrNotConfigured)
	assert.Equal(t, "", c.PublicURL("a.png"))

	assert.Nil(t, New("", "key", "gallery"))
}

func TestUploadAndRemove(t *testing.T) {
	var gotAuth, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/storage/v1/object/gallery/2025/photo.png":
			gotAuth = r.Header.Get("Authorization")
			gotType = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodDelete && r.URL.Path == "/storage/v1/object/gallery/2025/photo.png":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", "gallery")
	require.NotNil(t, c)

	err := c.Upload(context.Background(), "2025/photo.png", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "image/png", gotType)

	// 404 on delete is tolerated.
	assert.NoError(t, c.Remove(context.Background(), "2025/photo.png"))
}

func TestEnsureBucketTreatsConflictAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/storage/v1/bucket" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", "gallery")
	assert.NoError(t, c.EnsureBucket(context.Background()))
}

func TestPublicURL(t *testing.T) {
	c := New("https://blob.example.com", "k", "gallery")
	assert.Equal(t,
		"https://blob.example.com/storage/v1/object/public/gallery/2025/a.png",
		c.PublicURL("2025/a.png"))
}
