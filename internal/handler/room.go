package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/domain"
	"github.com/fredmak/hostel-manager/internal/repository"
)

// RoomHandler serves the room board and room management endpoints.
type RoomHandler struct {
	RoomRepo      *repository.RoomRepo
	OccupancyRepo *repository.OccupancyRepo
	SettingsRepo  *repository.SettingsRepo
	YearFallback  string
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(roomRepo *repository.RoomRepo, occRepo *repository.OccupancyRepo, settingsRepo *repository.SettingsRepo, yearFallback string) *RoomHandler {
	if roomRepo == nil || occRepo == nil || settingsRepo == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{RoomRepo: roomRepo, OccupancyRepo: occRepo, SettingsRepo: settingsRepo, YearFallback: yearFallback}
}

type boardRoom struct {
	repository.Room
	Occupied  int     `json:"occupied"`
	Available int     `json:"available"`
	FeeDue    float64 `json:"fee_due"`
}

type boardGroup struct {
	Label string      `json:"label"`
	Block string      `json:"block"`
	Rooms []boardRoom `json:"rooms"`
}

// ListBoard handles GET /v1/admin/rooms. Rooms come back grouped by floor in
// walking order (Executive first, then Old block ground to top, then New
// block), each annotated with current-year occupancy.
func (h *RoomHandler) ListBoard(c echo.Context) error {
	ctx := c.Request().Context()

	rooms, err := h.RoomRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	year := h.SettingsRepo.CurrentAcademicYear(ctx, h.YearFallback)
	active, err := h.OccupancyRepo.ListActiveDetailed(ctx, year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	occ := make([]domain.ActiveOccupancy, 0, len(active))
	for _, a := range active {
		occ = append(occ, domain.ActiveOccupancy{RoomID: a.RoomID, ResidentID: a.ResidentID})
	}
	counts := domain.ActiveCounts(occ)

	sort.Slice(rooms, func(i, j int) bool {
		return domain.CompareRooms(rooms[i].Block, rooms[i].RoomNo, rooms[j].Block, rooms[j].RoomNo) < 0
	})

	var (
		groups   []boardGroup
		other    boardGroup
		totalCap int
		totalOcc int
	)
	other = boardGroup{Label: domain.OtherGroupLabel, Block: domain.OtherGroupLabel}
	for _, rm := range rooms {
		occupied := counts[rm.ID]
		totalCap += rm.Capacity
		totalOcc += occupied

		entry := boardRoom{
			Room:      rm,
			Occupied:  occupied,
			Available: domain.Available(rm.Capacity, occupied),
			FeeDue:    domain.FeeFor(rm.Block, rm.Type),
		}

		// Unrecognized room numbers from any block share a single trailing
		// bucket instead of splitting the board per block tail.
		label := domain.GroupLabel(rm.Block, rm.RoomNo)
		if label == domain.OtherGroupLabel {
			other.Rooms = append(other.Rooms, entry)
			continue
		}
		if len(groups) == 0 || groups[len(groups)-1].Label != label {
			groups = append(groups, boardGroup{Label: label, Block: rm.Block})
		}
		groups[len(groups)-1].Rooms = append(groups[len(groups)-1].Rooms, entry)
	}
	if len(other.Rooms) > 0 {
		groups = append(groups, other)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"academic_year": year,
		"groups":        groups,
		"summary": map[string]int{
			"total_rooms":    len(rooms),
			"total_capacity": totalCap,
			"occupied":       totalOcc,
			"available":      domain.Available(totalCap, totalOcc),
		},
	})
}

// Create handles POST /v1/admin/rooms for the occasional room added outside
// the standard seed.
func (h *RoomHandler) Create(c echo.Context) error {
	var body struct {
		RoomNo   string `json:"room_no"`
		Block    string `json:"block"`
		Capacity int    `json:"capacity"`
		Type     string `json:"type"`
		Floor    string `json:"floor"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	body.RoomNo = strings.ToUpper(strings.TrimSpace(body.RoomNo))
	if body.RoomNo == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "room_no is required"})
	}
	if !domain.KnownBlock(body.Block) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown block"})
	}
	if body.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "capacity must be at least 1"})
	}

	room := &repository.Room{
		RoomNo:   body.RoomNo,
		Block:    body.Block,
		Capacity: body.Capacity,
		Type:     body.Type,
		Floor:    body.Floor,
	}
	if err := h.RoomRepo.Create(c.Request().Context(), room); err != nil {
		if err == repository.ErrRoomExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": "room number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create room"})
	}
	return c.JSON(http.StatusCreated, room)
}

// Update handles PATCH /v1/admin/rooms/:id and changes capacity and type.
// Room numbers and blocks are fixed once created; the sort order depends on
// them.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		Capacity int    `json:"capacity"`
		Type     string `json:"type"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "capacity must be at least 1"})
	}

	ctx := c.Request().Context()
	if _, err := h.RoomRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if err := h.RoomRepo.Update(ctx, id, body.Capacity, body.Type); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	updated, _ := h.RoomRepo.GetByID(ctx, id)
	return c.JSON(http.StatusOK, updated)
}
