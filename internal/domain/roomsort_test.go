package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sortedOldBlock(nos []string) []string {
	out := append([]string(nil), nos...)
	sort.Slice(out, func(i, j int) bool {
		return CompareRooms("Old", out[i], "Old", out[j]) < 0
	})
	return out
}

func TestCompareRoomsOldBlockFloorOrder(t *testing.T) {
	// Ground floor before first floor, numeric within a floor.
	got := sortedOldBlock([]string{"G3", "G1", "F2", "F1"})
	assert.Equal(t, []string{"G1", "G3", "F1", "F2"}, got)
}

func TestCompareRoomsOldBlockAllFloors(t *testing.T) {
	got := sortedOldBlock([]string{"T1", "S5", "F1", "G2", "S2", "G4"})
	assert.Equal(t, []string{"G2", "G4", "F1", "S2", "S5", "T1"}, got)
}

func TestCompareRoomsOutOfRangeUnits(t *testing.T) {
	// A unit past its group's range is unrecognized, so it sorts with the
	// trailing "Other" rooms rather than inside the floor group.
	got := sortedOldBlock([]string{"G6", "T5", "G1", "X9"})
	assert.Equal(t, []string{"G1", "T5", "G6", "X9"}, got)
	assert.Positive(t, CompareRooms("Executive", "E9", "Executive", "E8"))
}

func TestCompareRoomsExecutiveSubGroups(t *testing.T) {
	nos := []string{"E5", "E1", "E8", "E4"}
	sort.Slice(nos, func(i, j int) bool {
		return CompareRooms("Executive", nos[i], "Executive", nos[j]) < 0
	})
	assert.Equal(t, []string{"E1", "E4", "E5", "E8"}, nos)
}

func TestCompareRoomsNewBlockPrefixes(t *testing.T) {
	nos := []string{"2L1", "2F2", "2T5", "2S1", "2F1"}
	sort.Slice(nos, func(i, j int) bool {
		return CompareRooms("New", nos[i], "New", nos[j]) < 0
	})
	assert.Equal(t, []string{"2F1", "2F2", "2S1", "2T5", "2L1"}, nos)
}

func TestCompareRoomsBlockRank(t *testing.T) {
	// Executive before Old before New in resident list views.
	assert.Negative(t, CompareRooms("Executive", "E8", "Old", "G1"))
	assert.Negative(t, CompareRooms("Old", "T5", "New", "2F1"))
	assert.Positive(t, CompareRooms("New", "2F1", "Executive", "E1"))
}

func TestCompareRoomsUnrecognizedFallsBack(t *testing.T) {
	// Unrecognized numbers sort after recognized ones, lexically among
	// themselves.
	assert.Positive(t, CompareRooms("Old", "X9", "Old", "T5"))
	assert.Negative(t, CompareRooms("Old", "A1", "Old", "X9"))
	// An Old-block prefix is not recognized for the New block.
	assert.Equal(t, OtherGroupLabel, GroupLabel("New", "G1"))
}

func TestGroupLabel(t *testing.T) {
	cases := []struct {
		block, roomNo, want string
	}{
		{"Old", "G1", "Old Block - Ground Floor (G1-G5)"},
		{"Old", "F5", "Old Block - First Floor (F1-F5)"},
		{"Old", "S3", "Old Block - Second Floor (S1-S5)"},
		{"Old", "T2", "Old Block - Third Floor (T1-T5)"},
		{"New", "2F1", "New Block - First Floor (2F1-2F5)"},
		{"New", "2L5", "New Block - Left Wing (2L1-2L5)"},
		{"Executive", "E4", "Executive (E1-E4)"},
		{"Executive", "E5", "Executive (E5-E8)"},
		{"Old", "G6", "Other"}, // outside the unit range
		{"Old", "Z1", "Other"}, // no recognized prefix
		{"Executive", "E9", "Other"},
		{"Annex", "A1", "Other"}, // unknown block has no grouping
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GroupLabel(tc.block, tc.roomNo), "%s %s", tc.block, tc.roomNo)
	}
}

func TestLessResidentEntries(t *testing.T) {
	// Room-bearing entries come first.
	assert.True(t, LessResidentEntries(true, "New", "2L5", "Zed", false, "", "", "Abe"))
	assert.False(t, LessResidentEntries(false, "", "", "Abe", true, "New", "2L5", "Zed"))
	// Roomless residents order by name.
	assert.True(t, LessResidentEntries(false, "", "", "Ama", false, "", "", "Kofi"))
	// Same room ties break by name.
	assert.True(t, LessResidentEntries(true, "Old", "G1", "Ama", true, "Old", "G1", "Kofi"))
}
