package domain

import (
	"strconv"
	"strings"
)

// FloorGroup describes one display bucket of rooms within a block: a room
// number prefix plus the inclusive unit range the bucket covers.
type FloorGroup struct {
	Label  string
	Prefix string
	Start  int
	End    int
}

// Floor groups per block, in floor order. Old-block prefixes are single
// letters; New-block prefixes are two characters. The Executive building is
// one physical floor pair displayed as two sub-groups (E1-E4, then E5-E8).
var (
	oldGroups = []FloorGroup{
		{Label: "Old Block - Ground Floor (G1-G5)", Prefix: "G", Start: 1, End: 5},
		{Label: "Old Block - First Floor (F1-F5)", Prefix: "F", Start: 1, End: 5},
		{Label: "Old Block - Second Floor (S1-S5)", Prefix: "S", Start: 1, End: 5},
		{Label: "Old Block - Third Floor (T1-T5)", Prefix: "T", Start: 1, End: 5},
	}
	newGroups = []FloorGroup{
		{Label: "New Block - First Floor (2F1-2F5)", Prefix: "2F", Start: 1, End: 5},
		{Label: "New Block - Second Floor (2S1-2S5)", Prefix: "2S", Start: 1, End: 5},
		{Label: "New Block - Third Floor (2T1-2T5)", Prefix: "2T", Start: 1, End: 5},
		{Label: "New Block - Left Wing (2L1-2L5)", Prefix: "2L", Start: 1, End: 5},
	}
	executiveGroups = []FloorGroup{
		{Label: "Executive (E1-E4)", Prefix: "E", Start: 1, End: 4},
		{Label: "Executive (E5-E8)", Prefix: "E", Start: 5, End: 8},
	}
)

// FloorGroupsFor returns the display buckets for a block, in floor order.
// Unknown blocks have no structured grouping.
func FloorGroupsFor(block string) []FloorGroup {
	switch block {
	case BlockOld:
		return oldGroups
	case BlockNew:
		return newGroups
	case BlockExecutive:
		return executiveGroups
	}
	return nil
}

// OtherGroupLabel is the bucket for rooms whose number does not start with a
// recognized prefix for their block.
const OtherGroupLabel = "Other"

// parseRoomNo strips the block's recognized prefix from roomNo and parses the
// remainder as the unit number. It returns the floor rank (position of the
// prefix in the block's floor order), the unit, and whether the number was
// recognized. A unit outside its group's range (G6, E9) is unrecognized, so
// such rooms sort and label as "Other" consistently. For the Executive block
// the rank encodes the E1-E4 / E5-E8 sub-grouping rather than a floor.
func parseRoomNo(block, roomNo string) (rank, unit int, ok bool) {
	switch block {
	case BlockOld:
		for i, g := range oldGroups {
			if n, match := unitAfter(roomNo, g.Prefix); match && n >= g.Start && n <= g.End {
				return i, n, true
			}
		}
	case BlockNew:
		for i, g := range newGroups {
			if n, match := unitAfter(roomNo, g.Prefix); match && n >= g.Start && n <= g.End {
				return i, n, true
			}
		}
	case BlockExecutive:
		if n, match := unitAfter(roomNo, "E"); match {
			if n >= 1 && n <= 4 {
				return 0, n, true
			}
			if n >= 5 && n <= 8 {
				return 1, n, true
			}
		}
	}
	return 0, 0, false
}

// unitAfter parses the integer remainder of roomNo after prefix. A bare
// prefix with no digits is not a valid room number.
func unitAfter(roomNo, prefix string) (int, bool) {
	if !strings.HasPrefix(roomNo, prefix) {
		return 0, false
	}
	rest := roomNo[len(prefix):]
	if rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GroupLabel classifies a room into its display bucket within its block.
// Rooms outside every recognized prefix/range land in the "Other" bucket.
func GroupLabel(block, roomNo string) string {
	rank, _, ok := parseRoomNo(block, roomNo)
	if !ok {
		return OtherGroupLabel
	}
	return FloorGroupsFor(block)[rank].Label
}

// CompareRooms establishes the total display order over rooms: block rank
// (Executive, Old, New), then floor rank, then unit ascending. Rooms with an
// unrecognized number sort after recognized ones within their block and fall
// back to plain string comparison among themselves.
func CompareRooms(aBlock, aNo, bBlock, bNo string) int {
	if br := blockRank(aBlock) - blockRank(bBlock); br != 0 {
		return br
	}
	aRank, aUnit, aOK := parseRoomNo(aBlock, aNo)
	bRank, bUnit, bOK := parseRoomNo(bBlock, bNo)
	switch {
	case aOK && !bOK:
		return -1
	case !aOK && bOK:
		return 1
	case !aOK && !bOK:
		return strings.Compare(aNo, bNo)
	}
	if aRank != bRank {
		return aRank - bRank
	}
	if aUnit != bUnit {
		return aUnit - bUnit
	}
	return strings.Compare(aNo, bNo)
}

// LessResidentEntries orders resident list rows. Residents with a room sort
// by their room's display order; residents without a room sort after all
// room-bearing entries, by full name.
func LessResidentEntries(aHasRoom bool, aBlock, aNo, aName string, bHasRoom bool, bBlock, bNo, bName string) bool {
	switch {
	case aHasRoom && !bHasRoom:
		return true
	case !aHasRoom && bHasRoom:
		return false
	case !aHasRoom && !bHasRoom:
		return aName < bName
	}
	if c := CompareRooms(aBlock, aNo, bBlock, bNo); c != 0 {
		return c < 0
	}
	return aName < bName
}
