package model

import "fmt"

// PRRef identifies a single pull request parsed from a link.
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

// FullName returns the "owner/repo" form used by the GitHub adapter.
func (r PRRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// String returns the conventional "owner/repo#number" form.
func (r PRRef) String() string {
	return fmt.Sprintf("%s#%d", r.FullName(), r.Number)
}

// PRDetail carries the fields of a single-PR GET that the status check needs.
// Used as a data transfer struct, not persisted.
type PRDetail struct {
	State          string // "open" or "closed" as reported upstream.
	IsDraft        bool
	IsMerged       bool
	MergeableState string // clean, dirty, behind, blocked, unstable, unknown, ...
	HeadSHA        string
	Author         string
	MergedBy       string // Empty unless merged and the merger is known.
	Branch         string
	BaseBranch     string
}
