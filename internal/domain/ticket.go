package domain

import "strings"

// Workflow ticket statuses the bot recognizes. Trackers may report other
// free-form statuses; those pass through untouched.
const (
	TicketStatusPending  = "Pending"
	TicketStatusApproved = "Approved"
	TicketStatusRejected = "Rejected"
)

// StatusClass groups tracker statuses by the follow-through they trigger.
type StatusClass int

const (
	StatusOther StatusClass = iota
	StatusApproved
	StatusRejected
)

var (
	approvedStatuses = []string{"approved", "done", "completed"}
	rejectedStatuses = []string{"rejected", "denied", "cancelled"}
)

// ClassifyStatus buckets a tracker status, case-insensitively.
func ClassifyStatus(status string) StatusClass {
	s := strings.ToLower(strings.TrimSpace(status))
	for _, a := range approvedStatuses {
		if s == a {
			return StatusApproved
		}
	}
	for _, r := range rejectedStatuses {
		if s == r {
			return StatusRejected
		}
	}
	return StatusOther
}

// Ticket is the bot's view of a tracker issue.
type Ticket struct {
	Key           string
	URL           string
	Summary       string
	Description   string
	Status        string
	Labels        []string
	AssigneeEmail string
}

// StatusChange is one observed tracker transition.
type StatusChange struct {
	From string
	To   string
}
