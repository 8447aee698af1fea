package domain // domain holds the pure business rules shared by handlers

import "strings"

// Block names as stored on room rows. The hostel has exactly three
// physical buildings, each with its own numbering scheme and fee tier.
const (
	BlockOld       = "Old"
	BlockNew       = "New"
	BlockExecutive = "Executive"
)

// KnownBlock reports whether s names one of the three buildings.
func KnownBlock(s string) bool {
	switch s {
	case BlockOld, BlockNew, BlockExecutive:
		return true
	}
	return false
}

// FeeFor returns the yearly fee in cedis for a room of the given block and
// type. The table is fixed; the settings row carries fee override fields but
// they are not consulted here. Room types are descriptive strings
// ("3-bed", "Executive 1-bed"), so Executive rooms are matched on the
// "1-bed" token rather than the full string.
//
// Unrecognized blocks fall back to the Old-block rate. The returned value is
// snapshotted onto the occupancy row at assignment time and is never
// recomputed for existing occupancies.
func FeeFor(block, roomType string) float64 {
	switch block {
	case BlockExecutive:
		if strings.Contains(roomType, "1-bed") {
			return 13000
		}
		return 8000
	case BlockNew:
		return 7000
	default:
		return 5500
	}
}

// blockRank orders blocks for resident-facing list views. The rooms board
// groups by block independently but walks blocks in this same order.
func blockRank(block string) int {
	switch block {
	case BlockExecutive:
		return 0
	case BlockOld:
		return 1
	case BlockNew:
		return 2
	}
	return 3
}
