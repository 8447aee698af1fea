package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Room represents a physical room in one of the three buildings. Capacity is
// the number of beds; Type is a descriptive string ("3-bed",
// "Executive 1-bed") that together with Block determines the yearly fee.
type Room struct {
	ID        int64     `json:"id"`
	RoomNo    string    `json:"room_no"`
	Block     string    `json:"block"`
	Capacity  int       `json:"capacity"`
	Type      string    `json:"type"`
	Floor     string    `json:"floor"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomRepo provides methods to work with rooms in the database.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = `id, room_no, block, capacity, type, floor, created_at, updated_at`

func scanRoom(row interface{ Scan(...interface{}) error }, r *Room) error {
	return row.Scan(&r.ID, &r.RoomNo, &r.Block, &r.Capacity, &r.Type, &r.Floor, &r.CreatedAt, &r.UpdatedAt)
}

// Create inserts a room record. On success the room's ID is populated.
func (r *RoomRepo) Create(ctx context.Context, room *Room) error {
	const q = `INSERT INTO rooms (room_no, block, capacity, type, floor) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, room.RoomNo, room.Block, room.Capacity, room.Type, room.Floor)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrRoomExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = id
	return nil
}

// List retrieves all rooms ordered by block then room_no. Display order is
// refined by the domain sort afterwards; this ordering only keeps the raw
// listing stable.
func (r *RoomRepo) List(ctx context.Context) ([]Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY block, room_no`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Room
	for rows.Next() {
		var room Room
		if err := scanRoom(rows, &room); err != nil {
			return nil, err
		}
		result = append(result, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a room by its id.
func (r *RoomRepo) GetByID(ctx context.Context, id int64) (*Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	var room Room
	if err := scanRoom(r.db.QueryRowContext(ctx, q, id), &room); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetByRoomNo retrieves a room by its display code (e.g. "G1").
func (r *RoomRepo) GetByRoomNo(ctx context.Context, roomNo string) (*Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE room_no = ?`
	var room Room
	if err := scanRoom(r.db.QueryRowContext(ctx, q, roomNo), &room); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Update mutates a room's capacity and type. Rooms are never hard-deleted in
// the normal flow, so there is no Delete method.
func (r *RoomRepo) Update(ctx context.Context, id int64, capacity int, roomType string) error {
	const q = `UPDATE rooms SET capacity = ?, type = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, capacity, roomType, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Zero affected rows also occurs when values are unchanged, so
		// confirm existence before reporting not-found.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
