package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveCounts(t *testing.T) {
	rows := []ActiveOccupancy{
		{RoomID: 1, ResidentID: 10},
		{RoomID: 1, ResidentID: 11},
		{RoomID: 2, ResidentID: 12},
	}
	counts := ActiveCounts(rows)
	assert.Equal(t, 2, counts[1])
	assert.Equal(t, 1, counts[2])
	assert.Equal(t, 0, counts[3])
	assert.Equal(t, 1, Available(3, counts[1]))
	assert.Equal(t, 0, Available(1, counts[2]))
}

func TestDeriveBalanceBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		feeDue  float64
		amounts []float64
		paid    float64
		balance float64
		status  string
	}{
		{"exactly paid", 5500, []float64{5500}, 5500, 0, PaymentStatusPaid},
		{"one pesewa short", 5500, []float64{5499.99}, 5499.99, 0.01, PaymentStatusPartial},
		{"nothing paid", 5500, nil, 0, 5500, PaymentStatusUnpaid},
		{"overpaid", 5500, []float64{6000}, 6000, -500, PaymentStatusPaid},
		{"partial across payments", 5500, []float64{2000, 1500}, 3500, 2000, PaymentStatusPartial},
		{"zero amount payment stays unpaid", 5500, []float64{0}, 0, 5500, PaymentStatusUnpaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := DeriveBalance(tc.feeDue, tc.amounts)
			assert.Equal(t, tc.paid, b.TotalPaid)
			assert.InDelta(t, tc.balance, b.Balance, 1e-9)
			assert.Equal(t, tc.status, b.Status)
		})
	}
}

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "500 (Overpaid)", FormatBalance(-500))
	assert.Equal(t, "2000", FormatBalance(2000))
	assert.Equal(t, "0", FormatBalance(0))
}
