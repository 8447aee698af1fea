// Package storage is the client for the blob storage collaborator: a
// bucket-oriented HTTP service holding gallery media. Only upload, delete
// and public-URL retrieval are used; bucket provisioning is a one-click
// setup action.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// MaxUploadBytes is the size ceiling enforced before any bytes leave the
// service, matching the storage tier's 50MB object limit.
const MaxUploadBytes = 50 * 1024 * 1024

// allowedMIMETypes is the fixed allow-list for gallery uploads.
var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
	"video/webm": true,
}

// Validation and transport errors surfaced to handlers.
var (
	ErrNotConfigured  = errors.New("storage service not configured")
	ErrTypeNotAllowed = errors.New("file type not allowed")
	ErrTooLarge       = errors.New("file exceeds 50MB limit")
)

// ValidateUpload checks an upload's MIME type and size against the
// allow-list and ceiling.
func ValidateUpload(mimeType string, size int64) error {
	if !allowedMIMETypes[mimeType] {
		return ErrTypeNotAllowed
	}
	if size > MaxUploadBytes {
		return ErrTooLarge
	}
	return nil
}

// FileType maps a MIME type onto the coarse image/video classification
// stored on media rows.
func FileType(mimeType string) string {
	if len(mimeType) >= 6 && mimeType[:6] == "video/" {
		return "video"
	}
	return "image"
}

// Client talks to the storage service's REST API. A nil Client means the
// service is unconfigured; every method checks and reports setup-required.
type Client struct {
	http   *resty.Client
	bucket string
}

// New builds a storage client for the given base URL, service key and
// bucket. It returns nil when baseURL is empty so callers can probe for the
// unconfigured state.
func New(baseURL, serviceKey, bucket string) *Client {
	if baseURL == "" {
		return nil
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(serviceKey).
		SetTimeout(60 * time.Second)
	return &Client{http: rc, bucket: bucket}
}

// EnsureBucket creates the media bucket if it does not exist yet. An
// already-exists conflict from the service is treated as success, which
// makes the setup action idempotent.
func (c *Client) EnsureBucket(ctx context.Context) error {
	if c == nil {
		return ErrNotConfigured
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"name": c.bucket, "public": true}).
		Post("/storage/v1/bucket")
	if err != nil {
		return err
	}
	if resp.IsError() && resp.StatusCode() != http.StatusConflict {
		return fmt.Errorf("create bucket: %s", resp.Status())
	}
	return nil
}

// Upload stores an object under path with the given content type.
func (c *Client) Upload(ctx context.Context, path, contentType string, data []byte) error {
	if c == nil {
		return ErrNotConfigured
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Post("/storage/v1/object/" + c.bucket + "/" + path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("upload object: %s", resp.Status())
	}
	return nil
}

// Remove deletes an object. Missing objects are not an error: delete is
// used for cleanup after failed metadata writes, where the object may never
// have landed.
func (c *Client) Remove(ctx context.Context, path string) error {
	if c == nil {
		return ErrNotConfigured
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/storage/v1/object/" + c.bucket + "/" + path)
	if err != nil {
		return err
	}
	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("remove object: %s", resp.Status())
	}
	return nil
}

// PublicURL returns the browser-facing URL of an object.
func (c *Client) PublicURL(path string) string {
	if c == nil {
		return ""
	}
	return c.http.BaseURL + "/storage/v1/object/public/" + c.bucket + "/" + path
}
