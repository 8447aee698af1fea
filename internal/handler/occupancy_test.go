package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredmak/hostel-manager/internal/repository"
)

func bulkRooms() map[int64]*repository.Room {
	return map[int64]*repository.Room{
		7: {ID: 7, RoomNo: "G1", Block: "Old", Capacity: 3, Type: "3-bed"},
		9: {ID: 9, RoomNo: "2F1", Block: "New", Capacity: 2, Type: "2-bed"},
	}
}

func TestPlanBulkRowsPerRoomFees(t *testing.T) {
	moveIn := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	rows, skipped, full := planBulkRows(
		[]bulkAssignment{{ResidentID: 5, RoomID: 7}, {ResidentID: 6, RoomID: 9}},
		map[int64]bool{}, bulkRooms(), map[int64]int{}, "2024/25", moveIn,
	)
	require.Nil(t, full)
	assert.Zero(t, skipped)
	require.Len(t, rows, 2)
	// Each row's fee comes from its own target room.
	assert.Equal(t, int64(7), rows[0].RoomID)
	assert.Equal(t, 5500.0, rows[0].FeeDue)
	assert.Equal(t, int64(9), rows[1].RoomID)
	assert.Equal(t, 7000.0, rows[1].FeeDue)
	assert.Equal(t, moveIn, rows[0].MoveInDate)
}

func TestPlanBulkRowsSkipsTakenAndRepeated(t *testing.T) {
	rows, skipped, full := planBulkRows(
		[]bulkAssignment{
			{ResidentID: 5, RoomID: 7},
			{ResidentID: 5, RoomID: 9}, // repeated in the batch
			{ResidentID: 6, RoomID: 9}, // already assigned elsewhere
		},
		map[int64]bool{6: true}, bulkRooms(), map[int64]int{}, "2024/25", time.Now(),
	)
	require.Nil(t, full)
	assert.Equal(t, 2, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0].ResidentID)
}

func TestPlanBulkRowsRoomCapacity(t *testing.T) {
	// Room 9 has two beds with one already filled; the second pairing into
	// it overflows and abandons the plan.
	_, _, full := planBulkRows(
		[]bulkAssignment{{ResidentID: 5, RoomID: 9}, {ResidentID: 6, RoomID: 9}},
		map[int64]bool{}, bulkRooms(), map[int64]int{9: 1}, "2024/25", time.Now(),
	)
	require.NotNil(t, full)
	assert.Equal(t, "2F1", full.RoomNo)
}

func TestBulkAssignExcludesAssignedResidents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := &OccupancyHandler{
		OccupancyRepo: repository.NewOccupancyRepo(db),
		RoomRepo:      repository.NewRoomRepo(db),
		ResidentRepo:  repository.NewResidentRepo(db),
		SettingsRepo:  repository.NewSettingsRepo(db),
		YearFallback:  "2024/25",
	}

	now := time.Now()
	roomCols := []string{"id", "room_no", "block", "capacity", "type", "floor", "created_at", "updated_at"}

	// No settings row, so the configured fallback year applies.
	mock.ExpectQuery(`FROM app_settings`).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`FROM rooms WHERE id`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(roomCols).AddRow(7, "G1", "Old", 3, "3-bed", "Ground", now, now))
	mock.ExpectQuery(`FROM rooms WHERE id`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(roomCols).AddRow(9, "2F1", "New", 2, "2-bed", "First", now, now))
	// Resident 6 already holds a room this year.
	mock.ExpectQuery(`SELECT resident_id FROM occupancies`).
		WithArgs("2024/25", int64(5), int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"resident_id"}).AddRow(6))
	mock.ExpectQuery(`JOIN residents`).WithArgs("2024/25").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "resident_id", "room_id", "academic_year", "fee_due",
			"move_in_date", "move_out_date", "active", "created_at",
			"full_name", "student_id", "room_no", "block", "type",
		}))
	mock.ExpectExec(`INSERT INTO occupancies`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"assignments":[{"resident_id":5,"room_id":7},{"resident_id":6,"room_id":9}]}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/occupancies/bulk", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.BulkAssign(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"assigned":1`)
	assert.Contains(t, rec.Body.String(), `"skipped":1`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkAssignEmptyBody(t *testing.T) {
	h := &OccupancyHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/occupancies/bulk", strings.NewReader(`{"assignments":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.BulkAssign(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
