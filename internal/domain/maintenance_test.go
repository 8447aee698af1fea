package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomKey(t *testing.T) {
	cases := []struct {
		desc string
		want string
	}{
		{"G2 Kitchen door sags", "G2"},
		{"leaking tap in 2f1 bathroom", "2F1"},
		{"E3 aircon not cooling", "E3"},
		{"broken window latch", "Other"},
		{"corridor light flickering on second floor", "Other"},
		{"s4 ceiling stain spreading", "S4"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoomKey(tc.desc), tc.desc)
	}
}

func TestSortRoomKeysOtherLast(t *testing.T) {
	keys := []string{"Other", "G2", "2F1", "E3"}
	SortRoomKeys(keys)
	assert.Equal(t, []string{"2F1", "E3", "G2", "Other"}, keys)
}

func TestIssueTransitions(t *testing.T) {
	assert.True(t, CanTransitionIssue(IssueOpen, IssueInProgress))
	assert.True(t, CanTransitionIssue(IssueInProgress, IssueResolved))
	// Resolved reopens directly, skipping In Progress.
	assert.True(t, CanTransitionIssue(IssueResolved, IssueOpen))
	assert.False(t, CanTransitionIssue(IssueOpen, IssueResolved))
	assert.False(t, CanTransitionIssue(IssueResolved, IssueInProgress))
	assert.False(t, CanTransitionIssue(IssueOpen, IssueOpen))
}

func TestApplicationReview(t *testing.T) {
	assert.True(t, CanReview(ApplicationPending))
	assert.False(t, CanReview(ApplicationAccepted))
	assert.False(t, CanReview(ApplicationDeclined))
	assert.False(t, CanReview(ApplicationWaitlist))
	assert.True(t, ReviewDecision(ApplicationWaitlist))
	assert.False(t, ReviewDecision(ApplicationPending))
	assert.False(t, ReviewDecision("Archived"))
}
