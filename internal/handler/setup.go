package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/database"
	"github.com/fredmak/hostel-manager/internal/repository"
)

// SetupHandler runs the one-click database seeding: the standard room layout
// for all three blocks. Calling it against an already-seeded database is a
// harmless no-op.
type SetupHandler struct {
	DB       *sql.DB
	RoomRepo *repository.RoomRepo
}

// NewSetupHandler constructs a SetupHandler.
func NewSetupHandler(db *sql.DB, roomRepo *repository.RoomRepo) *SetupHandler {
	if db == nil || roomRepo == nil {
		panic("nil dependency passed to NewSetupHandler")
	}
	return &SetupHandler{DB: db, RoomRepo: roomRepo}
}

// Seed handles POST /v1/admin/setup.
func (h *SetupHandler) Seed(c echo.Context) error {
	ctx := c.Request().Context()
	seeded, count, err := database.SeedRooms(ctx, h.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "room seeding failed"})
	}
	if !seeded {
		return c.JSON(http.StatusOK, map[string]any{
			"seeded":  false,
			"message": "rooms already exist",
		})
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"seeded": true,
		"rooms":  count,
	})
}
