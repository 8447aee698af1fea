package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/domain"
	"github.com/fredmak/hostel-manager/internal/middleware"
	"github.com/fredmak/hostel-manager/internal/queue"
	"github.com/fredmak/hostel-manager/internal/repository"
	queuepub "github.com/fredmak/hostel-manager/internal/service"
)

// OccupancyHandler serves room assignment: single assign, bulk assign,
// move-out and per-resident history.
type OccupancyHandler struct {
	OccupancyRepo *repository.OccupancyRepo
	RoomRepo      *repository.RoomRepo
	ResidentRepo  *repository.ResidentRepo
	SettingsRepo  *repository.SettingsRepo
	YearFallback  string

	publish func(occ repository.Occupancy, residentName string, room *repository.Room)
}

// NewOccupancyHandler constructs an OccupancyHandler.
func NewOccupancyHandler(occRepo *repository.OccupancyRepo, roomRepo *repository.RoomRepo, resRepo *repository.ResidentRepo, settingsRepo *repository.SettingsRepo, yearFallback string) *OccupancyHandler {
	if occRepo == nil || roomRepo == nil || resRepo == nil || settingsRepo == nil {
		panic("nil repository passed to NewOccupancyHandler")
	}
	return &OccupancyHandler{
		OccupancyRepo: occRepo,
		RoomRepo:      roomRepo,
		ResidentRepo:  resRepo,
		SettingsRepo:  settingsRepo,
		YearFallback:  yearFallback,
		publish:       publishAssigned,
	}
}

func parseMoveIn(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse("2006-01-02", s)
}

// roomOccupied counts active residents in one room for the year.
func (h *OccupancyHandler) roomOccupied(ctx context.Context, roomID int64, year string) (int, error) {
	active, err := h.OccupancyRepo.ListActiveDetailed(ctx, year)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range active {
		if a.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

// Assign handles POST /v1/admin/occupancies. The friendly pre-check catches
// most double assignments; the uniqueness key on the occupancies table
// catches the race the pre-check cannot.
func (h *OccupancyHandler) Assign(c echo.Context) error {
	var body struct {
		ResidentID int64  `json:"resident_id"`
		RoomID     int64  `json:"room_id"`
		MoveInDate string `json:"move_in_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	moveIn, err := parseMoveIn(body.MoveInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "move_in_date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	year := h.SettingsRepo.CurrentAcademicYear(ctx, h.YearFallback)

	resident, err := h.ResidentRepo.GetByID(ctx, body.ResidentID)
	if err != nil {
		if err == repository.ErrResidentNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "resident not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	room, err := h.RoomRepo.GetByID(ctx, body.RoomID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	if existing, err := h.OccupancyRepo.ActiveByResident(ctx, resident.ID, year); err == nil {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":        "resident already has a room for this academic year",
			"occupancy_id": existing.ID,
		})
	} else if err != repository.ErrOccupancyNotFound {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	occupied, err := h.roomOccupied(ctx, room.ID, year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if domain.Available(room.Capacity, occupied) < 1 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "room is full"})
	}

	occ := &repository.Occupancy{
		ResidentID:   resident.ID,
		RoomID:       room.ID,
		AcademicYear: year,
		FeeDue:       domain.FeeFor(room.Block, room.Type),
		MoveInDate:   moveIn,
	}
	if err := h.OccupancyRepo.Create(ctx, occ); err != nil {
		if err == repository.ErrAlreadyAssigned {
			return c.JSON(http.StatusConflict, map[string]string{"error": "resident already has a room for this academic year"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create occupancy"})
	}

	middleware.AssignmentsTotal.Inc()
	if h.publish != nil {
		h.publish(*occ, resident.FullName, room)
	}

	return c.JSON(http.StatusCreated, occ)
}

// bulkAssignment is one resident-to-room pairing in a bulk request. Each
// pairing can target a different room; the fee is taken from that room.
type bulkAssignment struct {
	ResidentID int64 `json:"resident_id"`
	RoomID     int64 `json:"room_id"`
}

// planBulkRows turns the requested pairings into insertable occupancy rows.
// Residents already assigned (or repeated in the list) are skipped and
// counted. When a pairing would exceed its room's capacity the whole plan is
// abandoned and that room is returned so the caller can report it.
func planBulkRows(assignments []bulkAssignment, taken map[int64]bool, rooms map[int64]*repository.Room, occupied map[int64]int, year string, moveIn time.Time) (rows []repository.Occupancy, skipped int, full *repository.Room) {
	filled := make(map[int64]int, len(occupied))
	for id, n := range occupied {
		filled[id] = n
	}
	seen := make(map[int64]bool, len(assignments))
	for _, a := range assignments {
		if seen[a.ResidentID] || taken[a.ResidentID] {
			skipped++
			continue
		}
		seen[a.ResidentID] = true

		room := rooms[a.RoomID]
		if domain.Available(room.Capacity, filled[room.ID]) < 1 {
			return nil, 0, room
		}
		filled[room.ID]++
		rows = append(rows, repository.Occupancy{
			ResidentID:   a.ResidentID,
			RoomID:       room.ID,
			AcademicYear: year,
			FeeDue:       domain.FeeFor(room.Block, room.Type),
			MoveInDate:   moveIn,
		})
	}
	return rows, skipped, nil
}

// BulkAssign handles POST /v1/admin/occupancies/bulk: a batch of
// resident-to-room pairings committed in a single insert. The batch is
// re-checked right before the insert; residents assigned elsewhere since the
// manager loaded the page are dropped and reported, not failed.
func (h *OccupancyHandler) BulkAssign(c echo.Context) error {
	var body struct {
		Assignments []bulkAssignment `json:"assignments"`
		MoveInDate  string           `json:"move_in_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(body.Assignments) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "assignments list is empty"})
	}
	moveIn, err := parseMoveIn(body.MoveInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "move_in_date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	year := h.SettingsRepo.CurrentAcademicYear(ctx, h.YearFallback)

	// Re-read the target rooms at commit time so each fee reflects the
	// room's current block and type.
	rooms := make(map[int64]*repository.Room, len(body.Assignments))
	for _, a := range body.Assignments {
		if _, ok := rooms[a.RoomID]; ok {
			continue
		}
		room, err := h.RoomRepo.GetByID(ctx, a.RoomID)
		if err != nil {
			if err == repository.ErrRoomNotFound {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
		rooms[a.RoomID] = room
	}

	ids := make([]int64, 0, len(body.Assignments))
	for _, a := range body.Assignments {
		ids = append(ids, a.ResidentID)
	}
	taken, err := h.OccupancyRepo.ActiveResidentIDs(ctx, ids, year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	active, err := h.OccupancyRepo.ListActiveDetailed(ctx, year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	occupied := make(map[int64]int, len(rooms))
	for _, a := range active {
		occupied[a.RoomID]++
	}

	rows, skipped, fullRoom := planBulkRows(body.Assignments, taken, rooms, occupied, year, moveIn)
	if fullRoom != nil {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":   "not enough space in room",
			"room_no": fullRoom.RoomNo,
		})
	}
	if len(rows) == 0 {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":   "all selected residents already have rooms",
			"skipped": skipped,
		})
	}

	if err := h.OccupancyRepo.CreateBulk(ctx, rows); err != nil {
		if err == repository.ErrAlreadyAssigned {
			return c.JSON(http.StatusConflict, map[string]string{"error": "a selected resident was assigned concurrently; retry"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "bulk insert failed"})
	}

	for _, row := range rows {
		middleware.AssignmentsTotal.Inc()
		if h.publish == nil {
			continue
		}
		name := ""
		if res, err := h.ResidentRepo.GetByID(ctx, row.ResidentID); err == nil {
			name = res.FullName
		}
		h.publish(row, name, rooms[row.RoomID])
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"assigned": len(rows),
		"skipped":  skipped,
	})
}

// End handles POST /v1/admin/occupancies/:id/end and records a move-out.
func (h *OccupancyHandler) End(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		MoveOutDate string `json:"move_out_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	moveOut, err := parseMoveIn(body.MoveOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "move_out_date must be YYYY-MM-DD"})
	}

	if err := h.OccupancyRepo.End(c.Request().Context(), id, moveOut); err != nil {
		if err == repository.ErrOccupancyNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "active occupancy not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not end occupancy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ended"})
}

// ListByResident handles GET /v1/admin/residents/:id/occupancies.
func (h *OccupancyHandler) ListByResident(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	items, err := h.OccupancyRepo.ListByResident(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// publishAssigned fires the occupancy.assigned event in the background. The
// broker being down must never fail an assignment that already committed.
func publishAssigned(occ repository.Occupancy, residentName string, room *repository.Room) {
	ev := queue.OccupancyAssignedEvent{
		OccupancyID:  occ.ID,
		ResidentID:   occ.ResidentID,
		ResidentName: residentName,
		RoomNo:       room.RoomNo,
		Block:        room.Block,
		AcademicYear: occ.AcademicYear,
		FeeDue:       occ.FeeDue,
		AssignedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queuepub.PublishOccupancyAssigned(ctx, ev)
	}()
}
