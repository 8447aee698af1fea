package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeFor(t *testing.T) {
	cases := []struct {
		name     string
		block    string
		roomType string
		want     float64
	}{
		{"old any type", "Old", "3-bed", 5500},
		{"new any type", "New", "2-bed", 7000},
		{"executive one bed", "Executive", "1-bed", 13000},
		{"executive two bed", "Executive", "2-bed", 8000},
		{"executive descriptive one bed", "Executive", "Executive 1-bed", 13000},
		{"executive descriptive two bed", "Executive", "Executive 2-bed", 8000},
		{"unknown block falls back to old rate", "Unknown", "x", 5500},
		{"empty block falls back to old rate", "", "", 5500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FeeFor(tc.block, tc.roomType))
		})
	}
}

func TestKnownBlock(t *testing.T) {
	assert.True(t, KnownBlock("Old"))
	assert.True(t, KnownBlock("New"))
	assert.True(t, KnownBlock("Executive"))
	assert.False(t, KnownBlock("old"))
	assert.False(t, KnownBlock("Annex"))
}
