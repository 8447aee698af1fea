package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// MediaItem is a gallery entry: metadata for a file held by the blob
// storage collaborator. FilePath is the object key inside the bucket,
// FileURL the public URL handed to browsers.
type MediaItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	FileURL     string    `json:"file_url"`
	FilePath    string    `json:"file_path"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	MimeType    string    `json:"mime_type"`
	UploadedBy  string    `json:"uploaded_by"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// MediaRepo provides methods to work with gallery media rows.
type MediaRepo struct {
	db *sql.DB
}

// NewMediaRepo constructs a MediaRepo with the given DB handle.
func NewMediaRepo(db *sql.DB) *MediaRepo {
	return &MediaRepo{db: db}
}

const mediaColumns = `id, title, description, category, file_url, file_path, file_type,
	file_size, mime_type, uploaded_by, is_active, created_at`

func scanMedia(row interface{ Scan(...interface{}) error }, m *MediaItem) error {
	var desc sql.NullString
	if err := row.Scan(&m.ID, &m.Title, &desc, &m.Category, &m.FileURL, &m.FilePath,
		&m.FileType, &m.FileSize, &m.MimeType, &m.UploadedBy, &m.IsActive, &m.CreatedAt); err != nil {
		return err
	}
	m.Description = desc.String
	return nil
}

// Create inserts a media row. On success the ID is populated.
func (r *MediaRepo) Create(ctx context.Context, m *MediaItem) error {
	const q = `INSERT INTO media_gallery
	           (title, description, category, file_url, file_path, file_type, file_size, mime_type, uploaded_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.Category,
		m.FileURL, m.FilePath, m.FileType, m.FileSize, m.MimeType, m.UploadedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	m.IsActive = true
	return nil
}

// ListActive retrieves active media rows, newest first.
func (r *MediaRepo) ListActive(ctx context.Context) ([]MediaItem, error) {
	const q = `SELECT ` + mediaColumns + ` FROM media_gallery
	           WHERE is_active = 1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		if IsMissingTable(err) {
			return nil, ErrTableMissing
		}
		return nil, err
	}
	defer rows.Close()

	var result []MediaItem
	for rows.Next() {
		var m MediaItem
		if err := scanMedia(rows, &m); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a media row by id.
func (r *MediaRepo) GetByID(ctx context.Context, id int64) (*MediaItem, error) {
	const q = `SELECT ` + mediaColumns + ` FROM media_gallery WHERE id = ?`
	var m MediaItem
	if err := scanMedia(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Delete removes a media row. The blob itself is deleted by the handler via
// the storage client before this is called.
func (r *MediaRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media_gallery WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMediaNotFound
	}
	return nil
}
