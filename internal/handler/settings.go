package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/repository"
)

// SettingsHandler serves the hostel profile settings: one row, read and
// upserted whole.
type SettingsHandler struct {
	SettingsRepo *repository.SettingsRepo
	YearFallback string
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(repo *repository.SettingsRepo, yearFallback string) *SettingsHandler {
	if repo == nil {
		panic("nil repository passed to NewSettingsHandler")
	}
	return &SettingsHandler{SettingsRepo: repo, YearFallback: yearFallback}
}

// Get handles GET /v1/admin/settings. A database that has never been
// configured answers with usable defaults rather than an error.
func (h *SettingsHandler) Get(c echo.Context) error {
	s, err := h.SettingsRepo.Get(c.Request().Context())
	if err != nil {
		switch err {
		case repository.ErrSettingsNotFound, repository.ErrTableMissing:
			return c.JSON(http.StatusOK, repository.Settings{
				CurrentAcademicYear: h.YearFallback,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, s)
}

// Update handles PUT /v1/admin/settings with upsert semantics.
func (h *SettingsHandler) Update(c echo.Context) error {
	var s repository.Settings
	if err := c.Bind(&s); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	s.CurrentAcademicYear = strings.TrimSpace(s.CurrentAcademicYear)
	if s.CurrentAcademicYear == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "current_academic_year is required"})
	}

	ctx := c.Request().Context()
	if err := h.SettingsRepo.Upsert(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not save settings"})
	}
	updated, err := h.SettingsRepo.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusOK, s)
	}
	return c.JSON(http.StatusOK, updated)
}
