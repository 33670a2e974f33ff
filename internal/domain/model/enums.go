package model

// PRStatus is the classified lifecycle state of a pull request.
type PRStatus string

const (
	PRStatusDraft          PRStatus = "draft"
	PRStatusOpen           PRStatus = "open"
	PRStatusMerged         PRStatus = "merged"
	PRStatusClosedUnmerged PRStatus = "closed_unmerged"
	PRStatusUnknown        PRStatus = "unknown"
)

// ReviewState represents the state of a review.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "approved"
	ReviewStateChangesRequested ReviewState = "changes_requested"
	ReviewStateCommented        ReviewState = "commented"
	ReviewStatePending          ReviewState = "pending"
	ReviewStateDismissed        ReviewState = "dismissed"
)

// CheckOutcome is the display bucket of a single check run.
type CheckOutcome string

const (
	CheckOutcomePass    CheckOutcome = "pass"
	CheckOutcomeFail    CheckOutcome = "fail"
	CheckOutcomePending CheckOutcome = "pending"
)

// ConflictState is derived from the upstream mergeable_state indicator.
type ConflictState string

const (
	ConflictNone    ConflictState = "none"
	ConflictPresent ConflictState = "conflicts"
	ConflictBlocked ConflictState = "blocked"
	ConflictUnknown ConflictState = "unknown"
)

// Staleness reports whether the head branch is behind its base.
type Staleness string

const (
	StalenessCurrent   Staleness = "current"
	StalenessOutOfDate Staleness = "out_of_date"
	StalenessUnknown   Staleness = "unknown"
)
