package model

import "time"

// Review is one submitted review as listed by the API, oldest first. Only
// ReviewerLogin and State feed the approval tally; the rest is kept for logs.
type Review struct {
	ID            int64
	ReviewerLogin string
	State         ReviewState
	CommitID      string
	SubmittedAt   time.Time
}
