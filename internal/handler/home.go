package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/domain"
	"github.com/fredmak/hostel-manager/internal/repository"
)

// HomeHandler serves the public landing summary: hostel identity plus
// per-block bed availability. It sits behind the response cache, so the
// queries here run once a minute at most.
type HomeHandler struct {
	RoomRepo      *repository.RoomRepo
	OccupancyRepo *repository.OccupancyRepo
	SettingsRepo  *repository.SettingsRepo
	YearFallback  string
}

// NewHomeHandler constructs a HomeHandler.
func NewHomeHandler(roomRepo *repository.RoomRepo, occRepo *repository.OccupancyRepo, settingsRepo *repository.SettingsRepo, yearFallback string) *HomeHandler {
	if roomRepo == nil || occRepo == nil || settingsRepo == nil {
		panic("nil repository passed to NewHomeHandler")
	}
	return &HomeHandler{RoomRepo: roomRepo, OccupancyRepo: occRepo, SettingsRepo: settingsRepo, YearFallback: yearFallback}
}

type blockAvailability struct {
	Block     string `json:"block"`
	Rooms     int    `json:"rooms"`
	Capacity  int    `json:"capacity"`
	Occupied  int    `json:"occupied"`
	Available int    `json:"available"`
}

// Home handles GET /v1/home.
func (h *HomeHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()

	var identity map[string]any
	if s, err := h.SettingsRepo.Get(ctx); err == nil {
		identity = map[string]any{
			"name":    s.HostelName,
			"address": s.HostelAddress,
			"phone":   s.HostelPhone,
			"email":   s.HostelEmail,
		}
	}

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

	byBlock := map[string]*blockAvailability{}
	for _, rm := range rooms {
		block := rm.Block
		if !domain.KnownBlock(block) {
			block = domain.OtherGroupLabel
		}
		b, ok := byBlock[block]
		if !ok {
			b = &blockAvailability{Block: block}
			byBlock[block] = b
		}
		b.Rooms++
		b.Capacity += rm.Capacity
		b.Occupied += counts[rm.ID]
	}

	blocks := make([]blockAvailability, 0, len(byBlock))
	for _, b := range byBlock {
		b.Available = domain.Available(b.Capacity, b.Occupied)
		blocks = append(blocks, *b)
	}
	sort.Slice(blocks, func(i, j int) bool {
		return domain.CompareRooms(blocks[i].Block, "", blocks[j].Block, "") < 0
	})

	return c.JSON(http.StatusOK, map[string]any{
		"hostel":        identity,
		"academic_year": year,
		"blocks":        blocks,
	})
}
