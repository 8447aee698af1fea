package repository

import (
	"context"
	"database/sql"
	"time"
)

// Payment is a single fee payment by a resident. Payments are immutable once
// created: the repository exposes no update or delete.
type Payment struct {
	ID              int64     `json:"id"`
	ResidentID      int64     `json:"resident_id"`
	Amount          float64   `json:"amount"`
	Method          string    `json:"method"`
	AcademicYear    string    `json:"academic_year"`
	ReferenceNumber *string   `json:"reference_number,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	PaidAt          time.Time `json:"paid_at"`
}

// PaymentRepo provides methods to work with payments in the database.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo constructs a PaymentRepo with the given DB handle.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const paymentColumns = `id, resident_id, amount, method, academic_year, reference_number, notes, paid_at`

func scanPayment(row interface{ Scan(...interface{}) error }, p *Payment) error {
	var ref, notes sql.NullString
	if err := row.Scan(&p.ID, &p.ResidentID, &p.Amount, &p.Method, &p.AcademicYear,
		&ref, &notes, &p.PaidAt); err != nil {
		return err
	}
	if ref.Valid {
		s := ref.String
		p.ReferenceNumber = &s
	}
	if notes.Valid {
		s := notes.String
		p.Notes = &s
	}
	return nil
}

// Create inserts a payment record. On success the payment's ID and PaidAt
// are populated.
func (r *PaymentRepo) Create(ctx context.Context, p *Payment) error {
	const q = `INSERT INTO payments (resident_id, amount, method, academic_year, reference_number, notes)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.ResidentID, p.Amount, p.Method, p.AcademicYear, p.ReferenceNumber, p.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	const sel = `SELECT paid_at FROM payments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.PaidAt)
}

// ListByYear retrieves all payments for an academic year, newest first.
// The year filter lives here in the query; the balance aggregation
// downstream sums whatever rows it is handed.
func (r *PaymentRepo) ListByYear(ctx context.Context, year string) ([]Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments
	           WHERE academic_year = ? ORDER BY paid_at DESC`
	return r.queryMany(ctx, q, year)
}

// ListByResident retrieves a resident's payments for an academic year,
// newest first.
func (r *PaymentRepo) ListByResident(ctx context.Context, residentID int64, year string) ([]Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments
	           WHERE resident_id = ? AND academic_year = ? ORDER BY paid_at DESC`
	return r.queryMany(ctx, q, residentID, year)
}

func (r *PaymentRepo) queryMany(ctx context.Context, query string, args ...interface{}) ([]Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Payment
	for rows.Next() {
		var p Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
