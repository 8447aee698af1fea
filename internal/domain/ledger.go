package domain

import "strconv"

// ActiveOccupancy is the slice of an occupancy row the ledgers need.
type ActiveOccupancy struct {
	RoomID     int64
	ResidentID int64
}

// ActiveCounts tallies active occupancies per room. Callers are expected to
// pass rows already filtered to is_active; the derived view is only as fresh
// as the read that produced the rows.
func ActiveCounts(rows []ActiveOccupancy) map[int64]int {
	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.RoomID]++
	}
	return counts
}

// Available returns the number of free beds in a room. A room is eligible
// for a new assignment iff this is greater than zero.
func Available(capacity, occupied int) int {
	return capacity - occupied
}

// Payment status values as rendered in the fees dashboard.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPartial = "partial"
	PaymentStatusUnpaid  = "unpaid"
)

// Balance is the derived payment position of one occupancy.
type Balance struct {
	TotalPaid float64 `json:"total_paid"`
	Balance   float64 `json:"balance"`
	Status    string  `json:"status"`
}

// DeriveBalance folds a resident's payment amounts against the fee snapshot
// on their occupancy. Status boundaries are exact: a balance of zero is
// "paid", and any payment strictly between zero and the full fee is
// "partial". Amounts are whatever the upstream query returned; the
// aggregation itself does not re-filter by academic year.
func DeriveBalance(feeDue float64, amounts []float64) Balance {
	var paid float64
	for _, a := range amounts {
		paid += a
	}
	bal := feeDue - paid
	status := PaymentStatusUnpaid
	switch {
	case bal <= 0:
		status = PaymentStatusPaid
	case bal < feeDue:
		status = PaymentStatusPartial
	}
	return Balance{TotalPaid: paid, Balance: bal, Status: status}
}

// FormatBalance renders a balance for display. Negative balances show the
// absolute value tagged "Overpaid".
func FormatBalance(balance float64) string {
	if balance < 0 {
		return strconv.FormatFloat(-balance, 'f', -1, 64) + " (Overpaid)"
	}
	return strconv.FormatFloat(balance, 'f', -1, 64)
}
