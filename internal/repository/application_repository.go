package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Application is a prospective resident's submission from the public form.
// Status starts Pending; review decisions are terminal.
type Application struct {
	ID                    int64      `json:"id"`
	FullName              string     `json:"full_name"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone"`
	Gender                string     `json:"gender"`
	StudentID             string     `json:"student_id"`
	Program               string     `json:"program"`
	Level                 string     `json:"level"`
	PreferredBlock        string     `json:"preferred_block"`
	EmergencyContactName  string     `json:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone"`
	Status                string     `json:"status"`
	SubmittedAt           time.Time  `json:"submitted_at"`
	ReviewedAt            *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy            *string    `json:"reviewed_by,omitempty"`
}

// ApplicationRepo provides methods to work with applications in the database.
type ApplicationRepo struct {
	db *sql.DB
}

// NewApplicationRepo constructs an ApplicationRepo with the given DB handle.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

const applicationColumns = `id, full_name, email, phone, gender, student_id, program, level,
	preferred_block, emergency_contact_name, emergency_contact_phone, status, submitted_at, reviewed_at, reviewed_by`

func scanApplication(row interface{ Scan(...interface{}) error }, a *Application) error {
	var reviewedAt sql.NullTime
	var reviewedBy sql.NullString
	if err := row.Scan(&a.ID, &a.FullName, &a.Email, &a.Phone, &a.Gender,
		&a.StudentID, &a.Program, &a.Level, &a.PreferredBlock,
		&a.EmergencyContactName, &a.EmergencyContactPhone,
		&a.Status, &a.SubmittedAt, &reviewedAt, &reviewedBy); err != nil {
		return err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		a.ReviewedAt = &t
	}
	if reviewedBy.Valid {
		s := reviewedBy.String
		a.ReviewedBy = &s
	}
	return nil
}

// Create inserts a Pending application. On success the ID is populated.
func (r *ApplicationRepo) Create(ctx context.Context, a *Application) error {
	const q = `INSERT INTO applications
	           (full_name, email, phone, gender, student_id, program, level, preferred_block,
	            emergency_contact_name, emergency_contact_phone, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'Pending')`
	res, err := r.db.ExecContext(ctx, q,
		a.FullName, a.Email, a.Phone, a.Gender, a.StudentID, a.Program, a.Level,
		a.PreferredBlock, a.EmergencyContactName, a.EmergencyContactPhone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	a.Status = "Pending"
	return nil
}

// List retrieves applications, newest submissions first, optionally
// filtered by status.
func (r *ApplicationRepo) List(ctx context.Context, status string) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Application
	for rows.Next() {
		var a Application
		if err := scanApplication(rows, &a); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves an application by id.
func (r *ApplicationRepo) GetByID(ctx context.Context, id int64) (*Application, error) {
	const q = `SELECT ` + applicationColumns + ` FROM applications WHERE id = ?`
	var a Application
	if err := scanApplication(r.db.QueryRowContext(ctx, q, id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &a, nil
}

// UpdateStatus records a review decision, stamping reviewed_at and
// reviewed_by. Status validity and the Pending-only rule are enforced by the
// handler against the domain state machine.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id int64, status, reviewedBy string) error {
	const q = `UPDATE applications SET status = ?, reviewed_at = NOW(), reviewed_by = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, reviewedBy, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
