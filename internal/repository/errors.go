package repository // repository defines data access for hostel entities

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Sentinel errors returned by repositories when lookups yield no rows or an
// insert violates a store-level rule. Handlers translate these into HTTP
// status codes; anything else is surfaced with the raw backend message.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrResidentNotFound    = errors.New("resident not found")
	ErrOccupancyNotFound   = errors.New("occupancy not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrIssueNotFound       = errors.New("maintenance issue not found")
	ErrMediaNotFound       = errors.New("media item not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrSettingsNotFound    = errors.New("settings row not found")

	// ErrAlreadyAssigned maps the unique key on
	// (resident_id, academic_year, active): the store, not a pre-check,
	// is what guarantees a resident holds at most one active occupancy
	// per academic year.
	ErrAlreadyAssigned = errors.New("resident already has an active occupancy for this academic year")

	// ErrRoomExists maps the unique key on rooms.room_no.
	ErrRoomExists = errors.New("room number already exists")

	// ErrTableMissing marks the setup-required condition detected by the
	// maintenance probe.
	ErrTableMissing = errors.New("table does not exist")
)

// MySQL server error numbers the repositories branch on.
const (
	mysqlErrDuplicateEntry = 1062
	mysqlErrNoSuchTable    = 1146
)

func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

// isDuplicateKey reports whether err is a unique-key violation.
func isDuplicateKey(err error) bool { return isMySQLError(err, mysqlErrDuplicateEntry) }

// IsMissingTable reports whether err says the queried table does not exist.
func IsMissingTable(err error) bool { return isMySQLError(err, mysqlErrNoSuchTable) }
