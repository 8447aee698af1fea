package handler

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/repository"
	"github.com/fredmak/hostel-manager/internal/storage"
)

// MediaHandler serves the gallery: uploads to blob storage with metadata in
// MySQL. The object key is a uuid, never the uploaded filename, so two
// managers uploading "IMG_0001.jpg" can never collide.
type MediaHandler struct {
	MediaRepo *repository.MediaRepo
	Storage   *storage.Client
}

// NewMediaHandler constructs a MediaHandler. A nil storage client is
// allowed; endpoints then answer setup-required.
func NewMediaHandler(mediaRepo *repository.MediaRepo, store *storage.Client) *MediaHandler {
	if mediaRepo == nil {
		panic("nil repository passed to NewMediaHandler")
	}
	return &MediaHandler{MediaRepo: mediaRepo, Storage: store}
}

func storageUnavailable(c echo.Context) error {
	return c.JSON(http.StatusConflict, map[string]any{
		"error":          "media storage is not configured",
		"setup_required": true,
	})
}

// Upload handles POST /v1/admin/media (multipart form: file + title,
// description, category). The blob is written first; if the metadata insert
// then fails the blob is removed so storage never holds orphans.
func (h *MediaHandler) Upload(c echo.Context) error {
	if h.Storage == nil {
		return storageUnavailable(c)
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	mimeType := fh.Header.Get("Content-Type")
	if err := storage.ValidateUpload(mimeType, fh.Size); err != nil {
		switch err {
		case storage.ErrTypeNotAllowed:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "file type not allowed; images and mp4/webm video only"})
		case storage.ErrTooLarge:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "file exceeds the 50MB limit"})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read file"})
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, storage.MaxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read file"})
	}
	if int64(len(data)) > storage.MaxUploadBytes {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file exceeds the 50MB limit"})
	}

	key := fmt.Sprintf("%d/%s%s", time.Now().UTC().Year(), uuid.NewString(), strings.ToLower(path.Ext(fh.Filename)))

	ctx := c.Request().Context()
	if err := h.Storage.Upload(ctx, key, mimeType, data); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "storage upload failed"})
	}

	item := &repository.MediaItem{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Category:    strings.TrimSpace(c.FormValue("category")),
		FileURL:     h.Storage.PublicURL(key),
		FilePath:    key,
		FileType:    storage.FileType(mimeType),
		FileSize:    int64(len(data)),
		MimeType:    mimeType,
		UploadedBy:  fmt.Sprintf("%d", uid),
		IsActive:    true,
	}
	if item.Title == "" {
		item.Title = fh.Filename
	}
	if err := h.MediaRepo.Create(ctx, item); err != nil {
		_ = h.Storage.Remove(ctx, key)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not save media record"})
	}
	return c.JSON(http.StatusCreated, item)
}

// List handles GET /v1/admin/media.
func (h *MediaHandler) List(c echo.Context) error {
	items, err := h.MediaRepo.ListActive(c.Request().Context())
	if err != nil {
		if err == repository.ErrTableMissing {
			return setupRequired(c)
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Delete handles DELETE /v1/admin/media/:id. The blob goes first: a row
// without a blob is a broken image on the gallery, a blob without a row is
// just an unused object.
func (h *MediaHandler) Delete(c echo.Context) error {
	if h.Storage == nil {
		return storageUnavailable(c)
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	item, err := h.MediaRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMediaNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "media not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	if err := h.Storage.Remove(ctx, item.FilePath); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "storage delete failed"})
	}
	if err := h.MediaRepo.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete media record"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// Setup handles POST /v1/admin/media/setup and provisions the bucket.
func (h *MediaHandler) Setup(c echo.Context) error {
	if h.Storage == nil {
		return storageUnavailable(c)
	}
	if err := h.Storage.EnsureBucket(c.Request().Context()); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "could not create storage bucket"})
	}
	return c.JSON(http.StatusCreated, map[string]bool{"ready": true})
}

// Gallery handles the public GET /v1/gallery, newest first, active only.
func (h *MediaHandler) Gallery(c echo.Context) error {
	items, err := h.MediaRepo.ListActive(c.Request().Context())
	if err != nil {
		if err == repository.ErrTableMissing {
			return c.JSON(http.StatusOK, map[string]any{"items": []repository.MediaItem{}})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}
