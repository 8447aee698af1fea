package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fredmak/hostel-manager/internal/domain"
	"github.com/fredmak/hostel-manager/internal/repository"
)

// PaymentHandler serves payment recording and the fees dashboard. Payments
// are an append-only ledger; balances are always derived, never stored.
type PaymentHandler struct {
	PaymentRepo   *repository.PaymentRepo
	ResidentRepo  *repository.ResidentRepo
	OccupancyRepo *repository.OccupancyRepo
	SettingsRepo  *repository.SettingsRepo
	YearFallback  string
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payRepo *repository.PaymentRepo, resRepo *repository.ResidentRepo, occRepo *repository.OccupancyRepo, settingsRepo *repository.SettingsRepo, yearFallback string) *PaymentHandler {
	if payRepo == nil || resRepo == nil || occRepo == nil || settingsRepo == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	return &PaymentHandler{
		PaymentRepo:   payRepo,
		ResidentRepo:  resRepo,
		OccupancyRepo: occRepo,
		SettingsRepo:  settingsRepo,
		YearFallback:  yearFallback,
	}
}

// Record handles POST /v1/admin/payments. There is no update or delete; a
// wrong entry is corrected by recording a compensating one.
func (h *PaymentHandler) Record(c echo.Context) error {
	var body struct {
		ResidentID      int64   `json:"resident_id"`
		Amount          float64 `json:"amount"`
		Method          string  `json:"method"`
		ReferenceNumber string  `json:"reference_number"`
		Notes           string  `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "amount must be greater than zero"})
	}
	method := strings.TrimSpace(body.Method)
	if method == "" {
		method = "Cash"
	}

	ctx := c.Request().Context()
	if _, err := h.ResidentRepo.GetByID(ctx, body.ResidentID); err != nil {
		if err == repository.ErrResidentNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "resident not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	year := h.SettingsRepo.CurrentAcademicYear(ctx, h.YearFallback)
	p := &repository.Payment{
		ResidentID:   body.ResidentID,
		Amount:       body.Amount,
		Method:       method,
		AcademicYear: year,
	}
	if ref := strings.TrimSpace(body.ReferenceNumber); ref != "" {
		p.ReferenceNumber = &ref
	}
	if notes := strings.TrimSpace(body.Notes); notes != "" {
		p.Notes = &notes
	}
	if err := h.PaymentRepo.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not record payment"})
	}
	return c.JSON(http.StatusCreated, p)
}

// ListByResident handles GET /v1/admin/residents/:id/payments for the
// current academic year.
func (h *PaymentHandler) ListByResident(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	year := h.SettingsRepo.CurrentAcademicYear(ctx, h.YearFallback)
	items, err := h.PaymentRepo.ListByResident(ctx, id, year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"academic_year": year, "items": items})
}

// feeEntry is one resident's line on the fees dashboard.
type feeEntry struct {
	ResidentID   int64   `json:"resident_id"`
	ResidentName string  `json:"resident_name"`
	StudentID    string  `json:"student_id"`
	RoomNo       string  `json:"room_no"`
	Block        string  `json:"block"`
	FeeDue       float64 `json:"fee_due"`
	TotalPaid    float64 `json:"total_paid"`
	Balance      float64 `json:"balance"`
	BalanceLabel string  `json:"balance_label"`
	Status       string  `json:"status"`
}

// FeesDashboard handles GET /v1/admin/payments/dashboard. Every resident
// with an active room appears, worst balance first, with ledger totals.
func (h *PaymentHandler) FeesDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	year := h.SettingsRepo.CurrentAcademicYear(ctx, h.YearFallback)

	active, err := h.OccupancyRepo.ListActiveDetailed(ctx, year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	payments, err := h.PaymentRepo.ListByYear(ctx, year)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	amounts := make(map[int64][]float64)
	for _, p := range payments {
		amounts[p.ResidentID] = append(amounts[p.ResidentID], p.Amount)
	}

	entries := make([]feeEntry, 0, len(active))
	var totalDue, totalPaid float64
	statusCounts := map[string]int{}
	for _, occ := range active {
		bal := domain.DeriveBalance(occ.FeeDue, amounts[occ.ResidentID])
		entries = append(entries, feeEntry{
			ResidentID:   occ.ResidentID,
			ResidentName: occ.ResidentName,
			StudentID:    occ.StudentID,
			RoomNo:       occ.RoomNo,
			Block:        occ.Block,
			FeeDue:       occ.FeeDue,
			TotalPaid:    bal.TotalPaid,
			Balance:      bal.Balance,
			BalanceLabel: domain.FormatBalance(bal.Balance),
			Status:       bal.Status,
		})
		totalDue += occ.FeeDue
		totalPaid += bal.TotalPaid
		statusCounts[bal.Status]++
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Balance != entries[j].Balance {
			return entries[i].Balance > entries[j].Balance
		}
		return entries[i].ResidentName < entries[j].ResidentName
	})

	return c.JSON(http.StatusOK, map[string]any{
		"academic_year": year,
		"items":         entries,
		"totals": map[string]any{
			"total_due":         totalDue,
			"total_paid":        totalPaid,
			"total_outstanding": totalDue - totalPaid,
			"by_status":         statusCounts,
		},
	})
}
