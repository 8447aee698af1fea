package database

import (
	"context"
	"database/sql"
)

// seedRoom is one row of the fixed room inventory.
type seedRoom struct {
	roomNo   string
	block    string
	capacity int
	roomType string
	floor    string
}

// roomSeed is the full 48-room inventory: 20 Old-block 3-bed rooms, 20
// New-block 2-bed rooms, and 8 Executive rooms (4x 2-bed, 4x 1-bed).
var roomSeed = []seedRoom{
	// Old building, ground floor
	{"G1", "Old", 3, "3-bed", "Ground"},
	{"G2", "Old", 3, "3-bed", "Ground"},
	{"G3", "Old", 3, "3-bed", "Ground"},
	{"G4", "Old", 3, "3-bed", "Ground"},
	{"G5", "Old", 3, "3-bed", "Ground"},
	// Old building, first floor
	{"F1", "Old", 3, "3-bed", "First"},
	{"F2", "Old", 3, "3-bed", "First"},
	{"F3", "Old", 3, "3-bed", "First"},
	{"F4", "Old", 3, "3-bed", "First"},
	{"F5", "Old", 3, "3-bed", "First"},
	// Old building, second floor
	{"S1", "Old", 3, "3-bed", "Second"},
	{"S2", "Old", 3, "3-bed", "Second"},
	{"S3", "Old", 3, "3-bed", "Second"},
	{"S4", "Old", 3, "3-bed", "Second"},
	{"S5", "Old", 3, "3-bed", "Second"},
	// Old building, third floor
	{"T1", "Old", 3, "3-bed", "Third"},
	{"T2", "Old", 3, "3-bed", "Third"},
	{"T3", "Old", 3, "3-bed", "Third"},
	{"T4", "Old", 3, "3-bed", "Third"},
	{"T5", "Old", 3, "3-bed", "Third"},
	// New building, first floor
	{"2F1", "New", 2, "2-bed", "First"},
	{"2F2", "New", 2, "2-bed", "First"},
	{"2F3", "New", 2, "2-bed", "First"},
	{"2F4", "New", 2, "2-bed", "First"},
	{"2F5", "New", 2, "2-bed", "First"},
	// New building, second floor
	{"2S1", "New", 2, "2-bed", "Second"},
	{"2S2", "New", 2, "2-bed", "Second"},
	{"2S3", "New", 2, "2-bed", "Second"},
	{"2S4", "New", 2, "2-bed", "Second"},
	{"2S5", "New", 2, "2-bed", "Second"},
	// New building, third floor
	{"2T1", "New", 2, "2-bed", "Third"},
	{"2T2", "New", 2, "2-bed", "Third"},
	{"2T3", "New", 2, "2-bed", "Third"},
	{"2T4", "New", 2, "2-bed", "Third"},
	{"2T5", "New", 2, "2-bed", "Third"},
	// New building, left wing
	{"2L1", "New", 2, "2-bed", "Last"},
	{"2L2", "New", 2, "2-bed", "Last"},
	{"2L3", "New", 2, "2-bed", "Last"},
	{"2L4", "New", 2, "2-bed", "Last"},
	{"2L5", "New", 2, "2-bed", "Last"},
	// Executive building
	{"E1", "Executive", 2, "Executive 2-bed", "Ground"},
	{"E2", "Executive", 2, "Executive 2-bed", "Ground"},
	{"E3", "Executive", 1, "Executive 1-bed", "Ground"},
	{"E4", "Executive", 1, "Executive 1-bed", "Ground"},
	{"E5", "Executive", 2, "Executive 2-bed", "First"},
	{"E6", "Executive", 2, "Executive 2-bed", "First"},
	{"E7", "Executive", 1, "Executive 1-bed", "First"},
	{"E8", "Executive", 1, "Executive 1-bed", "First"},
}

// SeedRooms inserts the fixed room inventory. It is idempotent: when any
// room already exists the seed is a no-op and seeded is false.
func SeedRooms(ctx context.Context, db *sql.DB) (seeded bool, count int, err error) {
	var existing int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&existing); err != nil {
		return false, 0, err
	}
	if existing > 0 {
		return false, existing, nil
	}

	query := `INSERT INTO rooms (room_no, block, capacity, type, floor) VALUES `
	args := make([]interface{}, 0, len(roomSeed)*5)
	for i, r := range roomSeed {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, r.roomNo, r.block, r.capacity, r.roomType, r.floor)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return false, 0, err
	}
	return true, len(roomSeed), nil
}

// SeedManager creates the manager account when no user with that email
// exists yet. The password hash is produced by the caller.
func SeedManager(ctx context.Context, db *sql.DB, email, passwordHash string) error {
	if email == "" || passwordHash == "" {
		return nil
	}
	const q = `INSERT INTO users (email, password_hash, full_name, role)
	           SELECT ?, ?, 'System Administrator', 'MANAGER'
	           WHERE NOT EXISTS (SELECT 1 FROM users WHERE email = ?)`
	_, err := db.ExecContext(ctx, q, email, passwordHash, email)
	return err
}

// CreateMaintenanceTable is the remediation action behind the maintenance
// setup probe: it creates the table when the probe reports it missing.
func CreateMaintenanceTable(ctx context.Context, db *sql.DB) error {
	const q = `CREATE TABLE IF NOT EXISTS maintenance_issues (
	  id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	  description TEXT NOT NULL,
	  status      ENUM('Open','In Progress','Resolved') NOT NULL DEFAULT 'Open',
	  logged_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	  updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
	_, err := db.ExecContext(ctx, q)
	return err
}
