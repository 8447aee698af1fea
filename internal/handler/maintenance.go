package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/database"
	"github.com/fredmak/hostel-manager/internal/domain"
	"github.com/fredmak/hostel-manager/internal/middleware"
	"github.com/fredmak/hostel-manager/internal/queue"
	"github.com/fredmak/hostel-manager/internal/repository"
	queuepub "github.com/fredmak/hostel-manager/internal/service"
)

// MaintenanceHandler serves the maintenance issue log. The backing table is
// created lazily: older databases predate it, so every endpoint maps the
// missing-table error onto a setup-required response instead of a blank 500.
type MaintenanceHandler struct {
	MaintenanceRepo *repository.MaintenanceRepo
	DB              *sql.DB
}

// NewMaintenanceHandler constructs a MaintenanceHandler. The raw DB handle
// is needed for the one-off table creation in Setup.
func NewMaintenanceHandler(repo *repository.MaintenanceRepo, db *sql.DB) *MaintenanceHandler {
	if repo == nil || db == nil {
		panic("nil dependency passed to NewMaintenanceHandler")
	}
	return &MaintenanceHandler{MaintenanceRepo: repo, DB: db}
}

func setupRequired(c echo.Context) error {
	return c.JSON(http.StatusConflict, map[string]any{
		"error":          "backing table has not been created yet",
		"setup_required": true,
	})
}

// issueGroup is one room's issues on the grouped list.
type issueGroup struct {
	RoomKey string                        `json:"room_key"`
	Issues  []repository.MaintenanceIssue `json:"issues"`
}

// List handles GET /v1/admin/maintenance. Issues are grouped by the room
// token extracted from their description, rooms in lexical order with the
// unmatched bucket last; within a group issues stay newest first.
func (h *MaintenanceHandler) List(c echo.Context) error {
	issues, err := h.MaintenanceRepo.List(c.Request().Context())
	if err != nil {
		if err == repository.ErrTableMissing {
			return setupRequired(c)
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	byRoom := map[string][]repository.MaintenanceIssue{}
	var keys []string
	for _, issue := range issues {
		key := domain.RoomKey(issue.Description)
		if _, seen := byRoom[key]; !seen {
			keys = append(keys, key)
		}
		byRoom[key] = append(byRoom[key], issue)
	}
	domain.SortRoomKeys(keys)

	groups := make([]issueGroup, 0, len(keys))
	open := 0
	for _, key := range keys {
		groups = append(groups, issueGroup{RoomKey: key, Issues: byRoom[key]})
	}
	for _, issue := range issues {
		if issue.Status != domain.IssueResolved {
			open++
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"groups": groups,
		"summary": map[string]int{
			"total":      len(issues),
			"unresolved": open,
		},
	})
}

// Create handles POST /v1/admin/maintenance.
func (h *MaintenanceHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	var body struct {
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	desc := strings.TrimSpace(body.Description)
	if desc == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "description is required"})
	}

	issue := &repository.MaintenanceIssue{Description: desc}
	if err := h.MaintenanceRepo.Create(c.Request().Context(), issue); err != nil {
		if err == repository.ErrTableMissing {
			return setupRequired(c)
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not log issue"})
	}

	middleware.IssuesReportedTotal.Inc()
	publishReported(*issue, uid)

	return c.JSON(http.StatusCreated, issue)
}

// UpdateStatus handles POST /v1/admin/maintenance/:id/status. Statuses move
// around the Open, In Progress, Resolved cycle one step at a time.
func (h *MaintenanceHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if !domain.ValidIssueStatus(body.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	issue, err := h.MaintenanceRepo.GetByID(ctx, id)
	if err != nil {
		switch err {
		case repository.ErrTableMissing:
			return setupRequired(c)
		case repository.ErrIssueNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "issue not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if !domain.CanTransitionIssue(issue.Status, body.Status) {
		return c.JSON(http.StatusConflict, map[string]any{
			"error": "invalid status transition",
			"from":  issue.Status,
			"to":    body.Status,
		})
	}

	if err := h.MaintenanceRepo.UpdateStatus(ctx, id, body.Status); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not update status"})
	}
	updated, _ := h.MaintenanceRepo.GetByID(ctx, id)
	return c.JSON(http.StatusOK, updated)
}

// Setup handles GET and POST /v1/admin/maintenance/setup. GET probes whether
// the table exists; POST creates it.
func (h *MaintenanceHandler) Setup(c echo.Context) error {
	ctx := c.Request().Context()

	if c.Request().Method == http.MethodGet {
		err := h.MaintenanceRepo.Probe(ctx)
		if err == repository.ErrTableMissing {
			return c.JSON(http.StatusOK, map[string]bool{"ready": false})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
		return c.JSON(http.StatusOK, map[string]bool{"ready": true})
	}

	if err := database.CreateMaintenanceTable(ctx, h.DB); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create maintenance table"})
	}
	return c.JSON(http.StatusCreated, map[string]bool{"ready": true})
}

// publishReported fires the maintenance.reported event in the background.
func publishReported(issue repository.MaintenanceIssue, reporterID int64) {
	ev := queue.MaintenanceReportedEvent{
		IssueID:     issue.ID,
		RoomKey:     domain.RoomKey(issue.Description),
		Description: issue.Description,
		ReportedBy:  strconv.FormatInt(reporterID, 10),
		ReportedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queuepub.PublishMaintenanceReported(ctx, ev)
	}()
}
