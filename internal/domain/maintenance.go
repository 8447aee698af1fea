package domain

import (
	"regexp"
	"sort"
	"strings"
)

// Maintenance issue statuses. The lifecycle is a linear cycle with a reset:
// Open -> In Progress -> Resolved, and Resolved may be reopened directly.
const (
	IssueOpen       = "Open"
	IssueInProgress = "In Progress"
	IssueResolved   = "Resolved"
)

var issueTransitions = map[string][]string{
	IssueOpen:       {IssueInProgress},
	IssueInProgress: {IssueResolved},
	IssueResolved:   {IssueOpen},
}

// ValidIssueStatus reports whether s is a recognized issue status.
func ValidIssueStatus(s string) bool {
	_, ok := issueTransitions[s]
	return ok
}

// CanTransitionIssue reports whether an issue may move from one status to
// another.
func CanTransitionIssue(from, to string) bool {
	for _, next := range issueTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// roomKeyPattern matches a room number embedded in free text: Old-block
// (G2), New-block (2F1) or Executive (E3) numbering, case-insensitive.
var roomKeyPattern = regexp.MustCompile(`(?i)\b([GFST]\d+|2[FSTL]\d+|E\d+)\b`)

// RoomKey extracts the room number token from an issue description for
// grouping. Descriptions with no recognizable token group under "Other".
func RoomKey(description string) string {
	if m := roomKeyPattern.FindStringSubmatch(description); m != nil {
		return strings.ToUpper(m[1])
	}
	return OtherGroupLabel
}

// SortRoomKeys orders grouping keys lexically with "Other" forced last.
func SortRoomKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == OtherGroupLabel {
			return false
		}
		if keys[j] == OtherGroupLabel {
			return true
		}
		return keys[i] < keys[j]
	})
}
