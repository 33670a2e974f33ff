package model

// FailureKind classifies why a status report carries no pull request data.
type FailureKind string

const (
	FailureInvalidLink FailureKind = "invalid_link"
	FailureUpstream    FailureKind = "upstream"
	FailureMalformed   FailureKind = "malformed"
)

// Failure describes a terminal per-link failure. StatusCode is the upstream
// HTTP status for FailureUpstream, or 0 when no response was received.
type Failure struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

// CheckLine is one check run reduced to its display bucket.
type CheckLine struct {
	Name    string
	Outcome CheckOutcome
}

// CIReport holds the check runs for the head commit. Available is false when
// the check-run lookup failed, which is distinct from an empty Lines slice.
type CIReport struct {
	Available bool
	Lines     []CheckLine
}

// Mergeability is the conflict/staleness classification of a pull request,
// keeping the raw upstream indicator for the unknown case.
type Mergeability struct {
	Conflict  ConflictState
	Staleness Staleness
	Raw       string
}

// StatusReport is the normalized result of checking one link. When Failure is
// non-nil only URL is meaningful.
type StatusReport struct {
	URL     string
	Failure *Failure

	Status       PRStatus
	Author       string
	MergedBy     string
	FromBranch   string
	ToBranch     string
	CI           CIReport
	Mergeability Mergeability

	Approvals      int
	ChangeRequests int
}

// OK reports whether the link was resolved to pull request data.
func (r StatusReport) OK() bool {
	return r.Failure == nil
}

// FailedReport returns a report carrying only the URL and the failure.
func FailedReport(url string, kind FailureKind, statusCode int, err error) StatusReport {
	return StatusReport{
		URL: url,
		Failure: &Failure{
			Kind:       kind,
			StatusCode: statusCode,
			Err:        err,
		},
	}
}
