package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Occupancy is the join record of a resident's tenancy of a room for an
// academic year. FeeDue is snapshotted from the fee policy at assignment
// time; later fee edits never change it.
//
// The store keeps the active flag as TINYINT NULL (1 = active, NULL =
// inactive) so the unique key (resident_id, academic_year, active) can
// enforce at most one active occupancy per resident per year.
type Occupancy struct {
	ID           int64      `json:"id"`
	ResidentID   int64      `json:"resident_id"`
	RoomID       int64      `json:"room_id"`
	AcademicYear string     `json:"academic_year"`
	FeeDue       float64    `json:"fee_due"`
	MoveInDate   time.Time  `json:"move_in_date"`
	MoveOutDate  *time.Time `json:"move_out_date,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

// OccupancyDetail is an occupancy joined with its resident and room, used by
// the fees dashboard and resident list.
type OccupancyDetail struct {
	Occupancy
	ResidentName string `json:"resident_name"`
	StudentID    string `json:"student_id"`
	RoomNo       string `json:"room_no"`
	Block        string `json:"block"`
	RoomType     string `json:"room_type"`
}

// OccupancyRepo provides methods to work with occupancies in the database.
type OccupancyRepo struct {
	db *sql.DB
}

// NewOccupancyRepo constructs an OccupancyRepo with the given DB handle.
func NewOccupancyRepo(db *sql.DB) *OccupancyRepo {
	return &OccupancyRepo{db: db}
}

const occupancyColumns = `id, resident_id, room_id, academic_year, fee_due, move_in_date, move_out_date, active, created_at`

func scanOccupancy(row interface{ Scan(...interface{}) error }, o *Occupancy) error {
	var active sql.NullInt64
	var moveOut sql.NullTime
	if err := row.Scan(&o.ID, &o.ResidentID, &o.RoomID, &o.AcademicYear, &o.FeeDue,
		&o.MoveInDate, &moveOut, &active, &o.CreatedAt); err != nil {
		return err
	}
	o.IsActive = active.Valid && active.Int64 == 1
	if moveOut.Valid {
		t := moveOut.Time
		o.MoveOutDate = &t
	}
	return nil
}

// Create inserts an active occupancy row. A duplicate-key violation on the
// active-uniqueness index is mapped to ErrAlreadyAssigned.
func (r *OccupancyRepo) Create(ctx context.Context, o *Occupancy) error {
	const q = `INSERT INTO occupancies (resident_id, room_id, academic_year, fee_due, move_in_date, active)
	           VALUES (?, ?, ?, ?, ?, 1)`
	res, err := r.db.ExecContext(ctx, q, o.ResidentID, o.RoomID, o.AcademicYear, o.FeeDue, o.MoveInDate)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyAssigned
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = id
	o.IsActive = true
	return nil
}

// CreateBulk inserts multiple active occupancies in a single statement.
// There is no transaction across the batch: MySQL applies the multi-row
// insert atomically per statement, but a duplicate in the batch fails the
// whole statement, which is why callers re-check assignments first.
func (r *OccupancyRepo) CreateBulk(ctx context.Context, rows []Occupancy) error {
	if len(rows) == 0 {
		return nil
	}
	query := `INSERT INTO occupancies (resident_id, room_id, academic_year, fee_due, move_in_date, active) VALUES `
	args := make([]interface{}, 0, len(rows)*5)
	for i, o := range rows {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, 1)"
		args = append(args, o.ResidentID, o.RoomID, o.AcademicYear, o.FeeDue, o.MoveInDate)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyAssigned
		}
		return err
	}
	return nil
}

// ListActive retrieves all active occupancy rows.
func (r *OccupancyRepo) ListActive(ctx context.Context) ([]Occupancy, error) {
	const q = `SELECT ` + occupancyColumns + ` FROM occupancies WHERE active = 1`
	return r.queryMany(ctx, q)
}

// ActiveByResident retrieves a resident's active occupancy for the year, or
// ErrOccupancyNotFound.
func (r *OccupancyRepo) ActiveByResident(ctx context.Context, residentID int64, year string) (*Occupancy, error) {
	const q = `SELECT ` + occupancyColumns + ` FROM occupancies
	           WHERE resident_id = ? AND academic_year = ? AND active = 1`
	var o Occupancy
	if err := scanOccupancy(r.db.QueryRowContext(ctx, q, residentID, year), &o); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOccupancyNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ActiveResidentIDs returns the subset of ids that already hold an active
// occupancy for the year. The bulk-assign commit uses this to re-check its
// snapshot and silently drop residents assigned elsewhere in the meantime.
func (r *OccupancyRepo) ActiveResidentIDs(ctx context.Context, ids []int64, year string) (map[int64]bool, error) {
	taken := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return taken, nil
	}
	query := `SELECT resident_id FROM occupancies
	          WHERE academic_year = ? AND active = 1 AND resident_id IN (?` +
		strings.Repeat(",?", len(ids)-1) + `)`
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, year)
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		taken[id] = true
	}
	return taken, rows.Err()
}

// ListByResident retrieves every occupancy of a resident, newest first.
func (r *OccupancyRepo) ListByResident(ctx context.Context, residentID int64) ([]Occupancy, error) {
	const q = `SELECT ` + occupancyColumns + ` FROM occupancies
	           WHERE resident_id = ? ORDER BY created_at DESC`
	return r.queryMany(ctx, q, residentID)
}

// ListActiveDetailed joins active occupancies for an academic year with
// their residents and rooms, for the fees dashboard and resident list.
func (r *OccupancyRepo) ListActiveDetailed(ctx context.Context, year string) ([]OccupancyDetail, error) {
	const q = `SELECT o.id, o.resident_id, o.room_id, o.academic_year, o.fee_due,
	                  o.move_in_date, o.move_out_date, o.active, o.created_at,
	                  res.full_name, res.student_id, rm.room_no, rm.block, rm.type
	           FROM occupancies o
	           JOIN residents res ON res.id = o.resident_id
	           JOIN rooms rm ON rm.id = o.room_id
	           WHERE o.active = 1 AND o.academic_year = ?`
	rows, err := r.db.QueryContext(ctx, q, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OccupancyDetail
	for rows.Next() {
		var d OccupancyDetail
		var active sql.NullInt64
		var moveOut sql.NullTime
		if err := rows.Scan(&d.ID, &d.ResidentID, &d.RoomID, &d.AcademicYear, &d.FeeDue,
			&d.MoveInDate, &moveOut, &active, &d.CreatedAt,
			&d.ResidentName, &d.StudentID, &d.RoomNo, &d.Block, &d.RoomType); err != nil {
			return nil, err
		}
		d.IsActive = active.Valid && active.Int64 == 1
		if moveOut.Valid {
			t := moveOut.Time
			d.MoveOutDate = &t
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// End deactivates an occupancy (move-out): the active flag becomes NULL so
// the uniqueness key frees the (resident, year) slot for a future tenancy.
func (r *OccupancyRepo) End(ctx context.Context, id int64, moveOut time.Time) error {
	const q = `UPDATE occupancies SET active = NULL, move_out_date = ? WHERE id = ? AND active = 1`
	res, err := r.db.ExecContext(ctx, q, moveOut, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOccupancyNotFound
	}
	return nil
}

func (r *OccupancyRepo) queryMany(ctx context.Context, query string, args ...interface{}) ([]Occupancy, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Occupancy
	for rows.Next() {
		var o Occupancy
		if err := scanOccupancy(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
