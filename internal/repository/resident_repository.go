package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Resident is a person living in (or registered with) the hostel. Residents
// are created by the add form, bulk import, or manually after an application
// is accepted; they are never hard-deleted by normal workflows.
type Resident struct {
	ID                    int64     `json:"id"`
	FullName              string    `json:"full_name"`
	Gender                string    `json:"gender"`
	Phone                 string    `json:"phone"`
	Whatsapp              string    `json:"whatsapp"`
	Email                 string    `json:"email"`
	StudentID             string    `json:"student_id"`
	Program               string    `json:"program"`
	Level                 string    `json:"level"`
	EmergencyContactName  string    `json:"emergency_contact_name"`
	EmergencyContactPhone string    `json:"emergency_contact_phone"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ResidentRepo provides methods to work with residents in the database.
type ResidentRepo struct {
	db *sql.DB
}

// NewResidentRepo constructs a ResidentRepo with the given DB handle.
func NewResidentRepo(db *sql.DB) *ResidentRepo {
	return &ResidentRepo{db: db}
}

const residentColumns = `id, full_name, gender, phone, whatsapp, email, student_id, program, level,
	emergency_contact_name, emergency_contact_phone, created_at, updated_at`

func scanResident(row interface{ Scan(...interface{}) error }, r *Resident) error {
	return row.Scan(&r.ID, &r.FullName, &r.Gender, &r.Phone, &r.Whatsapp, &r.Email,
		&r.StudentID, &r.Program, &r.Level, &r.EmergencyContactName, &r.EmergencyContactPhone,
		&r.CreatedAt, &r.UpdatedAt)
}

// Create inserts a resident record. On success the resident's ID is populated.
func (r *ResidentRepo) Create(ctx context.Context, res *Resident) error {
	const q = `INSERT INTO residents
	           (full_name, gender, phone, whatsapp, email, student_id, program, level,
	            emergency_contact_name, emergency_contact_phone)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.FullName, res.Gender, res.Phone, res.Whatsapp, res.Email,
		res.StudentID, res.Program, res.Level,
		res.EmergencyContactName, res.EmergencyContactPhone)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = id
	return nil
}

// CreateBulk inserts multiple residents in a single statement. Passing an
// empty slice has no effect and returns nil.
func (r *ResidentRepo) CreateBulk(ctx context.Context, residents []Resident) error {
	if len(residents) == 0 {
		return nil
	}
	query := `INSERT INTO residents
	          (full_name, gender, phone, whatsapp, email, student_id, program, level,
	           emergency_contact_name, emergency_contact_phone) VALUES `
	args := make([]interface{}, 0, len(residents)*10)
	for i, res := range residents {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args,
			res.FullName, res.Gender, res.Phone, res.Whatsapp, res.Email,
			res.StudentID, res.Program, res.Level,
			res.EmergencyContactName, res.EmergencyContactPhone)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// List retrieves all residents ordered by full name.
func (r *ResidentRepo) List(ctx context.Context) ([]Resident, error) {
	const q = `SELECT ` + residentColumns + ` FROM residents ORDER BY full_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Resident
	for rows.Next() {
		var res Resident
		if err := scanResident(rows, &res); err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a resident by id.
func (r *ResidentRepo) GetByID(ctx context.Context, id int64) (*Resident, error) {
	const q = `SELECT ` + residentColumns + ` FROM residents WHERE id = ?`
	var res Resident
	if err := scanResident(r.db.QueryRowContext(ctx, q, id), &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResidentNotFound
		}
		return nil, err
	}
	return &res, nil
}

// Update rewrites a resident's mutable fields.
func (r *ResidentRepo) Update(ctx context.Context, res *Resident) error {
	const q = `UPDATE residents SET
	           full_name = ?, gender = ?, phone = ?, whatsapp = ?, email = ?,
	           student_id = ?, program = ?, level = ?,
	           emergency_contact_name = ?, emergency_contact_phone = ?
	           WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		res.FullName, res.Gender, res.Phone, res.Whatsapp, res.Email,
		res.StudentID, res.Program, res.Level,
		res.EmergencyContactName, res.EmergencyContactPhone, res.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, res.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a resident row. Used only by the bulk-delete admin action;
// rows with occupancies or payments are protected by foreign keys and the
// constraint error is surfaced to the operator.
func (r *ResidentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM residents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResidentNotFound
	}
	return nil
}
