// Package presenter converts status reports into the display records served
// by the JSON API, the dashboard and the CLI. It is the only place where
// report states become human-readable strings.
package presenter

import (
	"fmt"

	"github.com/ericfisherdev/prboard/internal/domain/model"
)

// Display strings for statuses and failures.
const (
	StatusDraft          = "Draft"
	StatusOpen           = "Open"
	StatusMerged         = "Merged"
	StatusClosedUnmerged = "Closed without merge"
	StatusUnknown        = "Unknown"
	StatusInvalidURL     = "Invalid URL"
	StatusMalformed      = "Error: malformed upstream response"
	StatusUnreachable    = "Error: unreachable"
)

// Display strings for mergeability.
const (
	ConflictsNone    = "No conflicts"
	ConflictsPresent = "Has conflicts"
	ConflictsBlocked = "Blocked (checks/reviews)"

	OutOfDateNo      = "No"
	OutOfDateYes     = "Out of date"
	OutOfDateUnknown = "Unknown"
)

// Check-run markers.
const (
	MarkerPass    = "✅"
	MarkerFail    = "❌"
	MarkerPending = "⏳"

	// NoCheckRuns is the single CI line shown when the check-run lookup failed.
	NoCheckRuns = "❔ No check runs found"
)

// PullRequestRecord is the display form of one checked link.
type PullRequestRecord struct {
	URL            string   `json:"url"`
	Status         string   `json:"status"`
	Author         string   `json:"author"`
	MergedBy       string   `json:"merged_by"`
	FromBranch     string   `json:"from_branch"`
	ToBranch       string   `json:"to_branch"`
	CIDetails      []string `json:"ci_details"`
	Conflicts      string   `json:"conflicts"`
	OutOfDate      string   `json:"out_of_date"`
	Approvals      int      `json:"approvals"`
	ChangeRequests int      `json:"change_requests"`
}

// FromReports converts reports in order. The result is never nil.
func FromReports(reports []model.StatusReport) []PullRequestRecord {
	records := make([]PullRequestRecord, 0, len(reports))
	for _, r := range reports {
		records = append(records, FromReport(r))
	}
	return records
}

// FromReport converts a single report. A failed report yields a record with
// only URL and Status set; CIDetails is always non-nil.
func FromReport(r model.StatusReport) PullRequestRecord {
	if r.Failure != nil {
		return PullRequestRecord{
			URL:       r.URL,
			Status:    FailureStatus(*r.Failure),
			CIDetails: []string{},
		}
	}

	return PullRequestRecord{
		URL:            r.URL,
		Status:         StatusLabel(r.Status),
		Author:         r.Author,
		MergedBy:       r.MergedBy,
		FromBranch:     r.FromBranch,
		ToBranch:       r.ToBranch,
		CIDetails:      CIDetails(r.CI),
		Conflicts:      ConflictLabel(r.Mergeability),
		OutOfDate:      OutOfDateLabel(r.Mergeability.Staleness),
		Approvals:      r.Approvals,
		ChangeRequests: r.ChangeRequests,
	}
}

// StatusLabel returns the display string for a classified status.
func StatusLabel(s model.PRStatus) string {
	switch s {
	case model.PRStatusDraft:
		return StatusDraft
	case model.PRStatusOpen:
		return StatusOpen
	case model.PRStatusMerged:
		return StatusMerged
	case model.PRStatusClosedUnmerged:
		return StatusClosedUnmerged
	default:
		return StatusUnknown
	}
}

// FailureStatus returns the status string for a failed report.
func FailureStatus(f model.Failure) string {
	switch f.Kind {
	case model.FailureInvalidLink:
		return StatusInvalidURL
	case model.FailureMalformed:
		return StatusMalformed
	}
	if f.StatusCode == 0 {
		return StatusUnreachable
	}
	return fmt.Sprintf("Error: %d", f.StatusCode)
}

// CIDetails renders one marked line per check run, or the single
// NoCheckRuns line when the lookup failed.
func CIDetails(ci model.CIReport) []string {
	if !ci.Available {
		return []string{NoCheckRuns}
	}

	lines := make([]string, 0, len(ci.Lines))
	for _, l := range ci.Lines {
		lines = append(lines, marker(l.Outcome)+" "+l.Name)
	}
	return lines
}

func marker(o model.CheckOutcome) string {
	switch o {
	case model.CheckOutcomePass:
		return MarkerPass
	case model.CheckOutcomeFail:
		return MarkerFail
	default:
		return MarkerPending
	}
}

// ConflictLabel returns the conflicts column, quoting the raw indicator when
// it was not recognised.
func ConflictLabel(m model.Mergeability) string {
	switch m.Conflict {
	case model.ConflictNone:
		return ConflictsNone
	case model.ConflictPresent:
		return ConflictsPresent
	case model.ConflictBlocked:
		return ConflictsBlocked
	default:
		raw := m.Raw
		if raw == "" {
			raw = "unknown"
		}
		return fmt.Sprintf("Unknown (%s)", raw)
	}
}

// OutOfDateLabel returns the out_of_date column.
func OutOfDateLabel(s model.Staleness) string {
	switch s {
	case model.StalenessCurrent:
		return OutOfDateNo
	case model.StalenessOutOfDate:
		return OutOfDateYes
	default:
		return OutOfDateUnknown
	}
}
