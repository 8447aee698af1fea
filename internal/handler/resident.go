package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/domain"
	"github.com/fredmak/hostel-manager/internal/repository"
	"github.com/fredmak/hostel-manager/internal/service/importer"
)

// ResidentHandler serves resident management: listing, add forms, bulk
// creation, spreadsheet import and bulk delete.
type ResidentHandler struct {
	ResidentRepo  *repository.ResidentRepo
	OccupancyRepo *repository.OccupancyRepo
	SettingsRepo  *repository.SettingsRepo
	YearFallback  string
}

// NewResidentHandler constructs a ResidentHandler.
func NewResidentHandler(resRepo *repository.ResidentRepo, occRepo *repository.OccupancyRepo, settingsRepo *repository.SettingsRepo, yearFallback string) *ResidentHandler {
	if resRepo == nil || occRepo == nil || settingsRepo == nil {
		panic("nil repository passed to NewResidentHandler")
	}
	return &ResidentHandler{ResidentRepo: resRepo, OccupancyRepo: occRepo, SettingsRepo: settingsRepo, YearFallback: yearFallback}
}

// residentInput is the payload for creating or updating a resident.
type residentInput struct {
	FullName              string `json:"full_name" validate:"required,min=2"`
	Gender                string `json:"gender" validate:"omitempty,oneof=Male Female"`
	Phone                 string `json:"phone"`
	Whatsapp              string `json:"whatsapp"`
	Email                 string `json:"email" validate:"omitempty,email"`
	StudentID             string `json:"student_id"`
	Program               string `json:"program"`
	Level                 string `json:"level"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
}

func (in residentInput) apply(r *repository.Resident) {
	r.FullName = strings.TrimSpace(in.FullName)
	r.Gender = in.Gender
	r.Phone = strings.TrimSpace(in.Phone)
	r.Whatsapp = strings.TrimSpace(in.Whatsapp)
	r.Email = strings.TrimSpace(in.Email)
	r.StudentID = strings.TrimSpace(in.StudentID)
	r.Program = in.Program
	r.Level = in.Level
	r.EmergencyContactName = in.EmergencyContactName
	r.EmergencyContactPhone = in.EmergencyContactPhone
}

// residentEntry is a resident row on the admin list, annotated with the
// active room assignment for the current academic year when one exists.
type residentEntry struct {
	repository.Resident
	OccupancyID *int64  `json:"occupancy_id,omitempty"`
	RoomNo      string  `json:"room_no,omitempty"`
	Block       string  `json:"block,omitempty"`
	FeeDue      float64 `json:"fee_due,omitempty"`
}

// List handles GET /v1/admin/residents. Residents holding a room sort first
// in room walking order; the unassigned follow alphabetically.
func (h *ResidentHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	residents, err := h.ResidentRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	year := h.SettingsRepo.CurrentAcademicYear(ctx, h.YearFallback)
	active, err := h.OccupancyRepo.ListActiveDetailed(ctx, year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	byResident := make(map[int64]repository.OccupancyDetail, len(active))
	for _, a := range active {
		byResident[a.ResidentID] = a
	}

	entries := make([]residentEntry, 0, len(residents))
	for _, res := range residents {
		e := residentEntry{Resident: res}
		if occ, ok := byResident[res.ID]; ok {
			id := occ.ID
			e.OccupancyID = &id
			e.RoomNo = occ.RoomNo
			e.Block = occ.Block
			e.FeeDue = occ.FeeDue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		return domain.LessResidentEntries(
			a.OccupancyID != nil, a.Block, a.RoomNo, a.FullName,
			b.OccupancyID != nil, b.Block, b.RoomNo, b.FullName)
	})

	return c.JSON(http.StatusOK, map[string]any{
		"academic_year": year,
		"items":         entries,
	})
}

// Create handles POST /v1/admin/residents.
func (h *ResidentHandler) Create(c echo.Context) error {
	var in residentInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := validate.Struct(in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": fieldErrors(err)})
	}

	var res repository.Resident
	in.apply(&res)
	if err := h.ResidentRepo.Create(c.Request().Context(), &res); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create resident"})
	}
	return c.JSON(http.StatusCreated, res)
}

// Update handles PATCH /v1/admin/residents/:id.
func (h *ResidentHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var in residentInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := validate.Struct(in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": fieldErrors(err)})
	}

	ctx := c.Request().Context()
	res, err := h.ResidentRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrResidentNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "resident not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	in.apply(res)
	if err := h.ResidentRepo.Update(ctx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// CreateBulk handles POST /v1/admin/residents/bulk with a JSON array of
// residents, all inserted in one statement.
func (h *ResidentHandler) CreateBulk(c echo.Context) error {
	var body struct {
		Residents []residentInput `json:"residents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(body.Residents) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "residents list is empty"})
	}

	rows := make([]repository.Resident, 0, len(body.Residents))
	for i, in := range body.Residents {
		if err := validate.Struct(in); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error":  fmt.Sprintf("validation failed at index %d", i),
				"fields": fieldErrors(err),
			})
		}
		var res repository.Resident
		in.apply(&res)
		rows = append(rows, res)
	}

	if err := h.ResidentRepo.CreateBulk(c.Request().Context(), rows); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "bulk insert failed"})
	}
	return c.JSON(http.StatusCreated, map[string]any{"created": len(rows)})
}

// Import handles POST /v1/admin/residents/import with a multipart xlsx file.
// Valid rows are inserted; rejected rows come back with their sheet line
// numbers so the manager can fix and re-upload just those.
func (h *ResidentHandler) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read file"})
	}
	defer f.Close()

	result, err := importer.ParseResidents(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if len(result.Residents) > 0 {
		if err := h.ResidentRepo.CreateBulk(c.Request().Context(), result.Residents); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "bulk insert failed"})
		}
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"created": len(result.Residents),
		"skipped": result.Skipped,
	})
}

// DeleteBulk handles POST /v1/admin/residents/delete. Each ID is deleted
// independently and concurrently; one failure does not stop the rest, and
// the response reports exactly which IDs failed.
func (h *ResidentHandler) DeleteBulk(c echo.Context) error {
	var body struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(body.IDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ids list is empty"})
	}

	ctx := c.Request().Context()
	errs := make([]error, len(body.IDs))
	var wg sync.WaitGroup
	for i, id := range body.IDs {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			errs[i] = h.ResidentRepo.Delete(ctx, id)
		}(i, id)
	}
	wg.Wait()

	deleted := 0
	var failed []map[string]any
	for i, err := range errs {
		if err == nil {
			deleted++
			continue
		}
		reason := "delete failed"
		if err == repository.ErrResidentNotFound {
			reason = "resident not found"
		}
		failed = append(failed, map[string]any{"id": body.IDs[i], "reason": reason})
	}

	status := http.StatusOK
	if deleted == 0 {
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]any{"deleted": deleted, "failed": failed})
}
