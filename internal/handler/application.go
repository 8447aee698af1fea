package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/domain"
	"github.com/fredmak/hostel-manager/internal/middleware"
	"github.com/fredmak/hostel-manager/internal/repository"
)

// ApplicationHandler serves the public application form and the admin
// review queue.
type ApplicationHandler struct {
	ApplicationRepo *repository.ApplicationRepo
	UserRepo        *repository.UserRepo
}

// NewApplicationHandler constructs an ApplicationHandler.
func NewApplicationHandler(appRepo *repository.ApplicationRepo, userRepo *repository.UserRepo) *ApplicationHandler {
	if appRepo == nil || userRepo == nil {
		panic("nil repository passed to NewApplicationHandler")
	}
	return &ApplicationHandler{ApplicationRepo: appRepo, UserRepo: userRepo}
}

// applicationInput is the public form payload.
type applicationInput struct {
	FullName              string `json:"full_name" validate:"required,min=2"`
	Email                 string `json:"email" validate:"required,email"`
	Phone                 string `json:"phone" validate:"required,min=7"`
	Gender                string `json:"gender" validate:"required,oneof=Male Female"`
	StudentID             string `json:"student_id"`
	Program               string `json:"program"`
	Level                 string `json:"level"`
	PreferredBlock        string `json:"preferred_block" validate:"omitempty,oneof=Old New Executive"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
}

// Submit handles POST /v1/applications. This is the only public write
// endpoint, which is why the rate limiter fronts it.
func (h *ApplicationHandler) Submit(c echo.Context) error {
	var in applicationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := validate.Struct(in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": fieldErrors(err)})
	}

	app := &repository.Application{
		FullName:              strings.TrimSpace(in.FullName),
		Email:                 strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:                 strings.TrimSpace(in.Phone),
		Gender:                in.Gender,
		StudentID:             strings.TrimSpace(in.StudentID),
		Program:               in.Program,
		Level:                 in.Level,
		PreferredBlock:        in.PreferredBlock,
		EmergencyContactName:  in.EmergencyContactName,
		EmergencyContactPhone: in.EmergencyContactPhone,
	}
	if err := h.ApplicationRepo.Create(c.Request().Context(), app); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not submit application"})
	}

	middleware.ApplicationsTotal.WithLabelValues("submitted").Inc()
	return c.JSON(http.StatusCreated, map[string]any{
		"id":     app.ID,
		"status": app.Status,
	})
}

// List handles GET /v1/admin/applications with an optional ?status= filter.
func (h *ApplicationHandler) List(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "" && !domain.ReviewDecision(status) && status != domain.ApplicationPending {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown status filter"})
	}
	items, err := h.ApplicationRepo.List(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Review handles POST /v1/admin/applications/:id/review. Decisions are
// terminal: once an application leaves Pending it cannot be re-reviewed.
func (h *ApplicationHandler) Review(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		Decision string `json:"decision"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if !domain.ReviewDecision(body.Decision) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "decision must be Accepted, Declined or Wait-list"})
	}

	ctx := c.Request().Context()
	app, err := h.ApplicationRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrApplicationNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "application not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if !domain.CanReview(app.Status) {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":  "application already reviewed",
			"status": app.Status,
		})
	}

	reviewedBy := strconv.FormatInt(uid, 10)
	if user, err := h.UserRepo.GetByID(ctx, uid); err == nil {
		reviewedBy = user.Email
	}
	if err := h.ApplicationRepo.UpdateStatus(ctx, id, body.Decision, reviewedBy); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update application"})
	}

	middleware.ApplicationsTotal.WithLabelValues(strings.ToLower(body.Decision)).Inc()
	updated, _ := h.ApplicationRepo.GetByID(ctx, id)
	return c.JSON(http.StatusOK, updated)
}
