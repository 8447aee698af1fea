package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// MaintenanceIssue is a free-text fault report. The room number is embedded
// in the description and extracted for grouping at display time, not stored.
type MaintenanceIssue struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	LoggedAt    time.Time `json:"logged_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaintenanceRepo provides methods to work with maintenance issues.
type MaintenanceRepo struct {
	db *sql.DB
}

// NewMaintenanceRepo constructs a MaintenanceRepo with the given DB handle.
func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo {
	return &MaintenanceRepo{db: db}
}

// Probe checks that the maintenance_issues table exists, returning
// ErrTableMissing when it does not so callers can redirect the operator to
// the one-click setup action.
func (r *MaintenanceRepo) Probe(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `SELECT 1 FROM maintenance_issues LIMIT 1`)
	if err != nil && IsMissingTable(err) {
		return ErrTableMissing
	}
	return err
}

// Create inserts an Open issue. On success the ID is populated.
func (r *MaintenanceRepo) Create(ctx context.Context, issue *MaintenanceIssue) error {
	const q = `INSERT INTO maintenance_issues (description, status) VALUES (?, 'Open')`
	res, err := r.db.ExecContext(ctx, q, issue.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	issue.ID = id
	issue.Status = "Open"
	return nil
}

// List retrieves all issues, newest first.
func (r *MaintenanceRepo) List(ctx context.Context) ([]MaintenanceIssue, error) {
	const q = `SELECT id, description, status, logged_at, updated_at
	           FROM maintenance_issues ORDER BY logged_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		if IsMissingTable(err) {
			return nil, ErrTableMissing
		}
		return nil, err
	}
	defer rows.Close()

	var result []MaintenanceIssue
	for rows.Next() {
		var issue MaintenanceIssue
		if err := rows.Scan(&issue.ID, &issue.Description, &issue.Status, &issue.LoggedAt, &issue.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves an issue by id.
func (r *MaintenanceRepo) GetByID(ctx context.Context, id int64) (*MaintenanceIssue, error) {
	const q = `SELECT id, description, status, logged_at, updated_at
	           FROM maintenance_issues WHERE id = ?`
	var issue MaintenanceIssue
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&issue.ID, &issue.Description, &issue.Status, &issue.LoggedAt, &issue.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// UpdateStatus moves an issue to a new status. Transition legality is
// enforced by the handler against the domain cycle.
func (r *MaintenanceRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	const q = `UPDATE maintenance_issues SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrIssueNotFound
	}
	return nil
}
