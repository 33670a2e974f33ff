// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// RecordViewModel holds presentation-ready data for one results table row.
type RecordViewModel struct {
	URL            string
	Linkable       bool // false for invalid links, rendered as plain text
	Status         string
	StatusClass    string // CSS class: status-open, status-merged, status-closed, status-draft, status-error
	Author         string
	MergedBy       string // "-" when empty
	Branches       string // "from → to", empty for failed records
	CIDetails      []string
	Conflicts      string
	OutOfDate      string
	Approvals      int
	ChangeRequests int
}

// DashboardViewModel holds all data needed to render the dashboard page.
type DashboardViewModel struct {
	Links         string // textarea contents, echoed back after a check
	Checked       bool   // true once a check has run, even with no records
	Records       []RecordViewModel
	StatusOptions []string
	NoticeHTML    string // sanitized HTML rendered from the configured markdown notice
	CSRFToken     string
	Credential    CredentialStatusViewModel
}

// CredentialStatusViewModel holds presentation data for the credential status indicator.
type CredentialStatusViewModel struct {
	Configured  bool
	Source      string // "stored", "env" or "none"
	TokenMasked string
}

// SettingsViewModel holds all data needed to render the settings page.
type SettingsViewModel struct {
	StorageEnabled bool
	Credential     CredentialStatusViewModel
	UpdatedAt      string
	Flash          string
	Error          string
	CSRFToken      string
}
