package domain

// Application review statuses. Submissions start Pending; every review
// decision is terminal, there is no path back out of a reviewed state.
const (
	ApplicationPending  = "Pending"
	ApplicationAccepted = "Accepted"
	ApplicationDeclined = "Declined"
	ApplicationWaitlist = "Wait-list"
)

// ReviewDecision reports whether s is a status an operator may move a
// pending application to.
func ReviewDecision(s string) bool {
	switch s {
	case ApplicationAccepted, ApplicationDeclined, ApplicationWaitlist:
		return true
	}
	return false
}

// CanReview reports whether an application in the given status may still be
// reviewed.
func CanReview(status string) bool {
	return status == ApplicationPending
}
