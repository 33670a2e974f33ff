package web

import (
	"time"

	"github.com/ericfisherdev/prboard/internal/adapter/driving/presenter"
	vm "github.com/ericfisherdev/prboard/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/prboard/internal/application"
	"github.com/ericfisherdev/prboard/internal/domain/model"
)

// statusOptions are the values offered by the dashboard status filter.
var statusOptions = []string{
	presenter.StatusOpen,
	presenter.StatusMerged,
	presenter.StatusClosedUnmerged,
	presenter.StatusDraft,
}

// toRecordViewModels converts status reports into table rows, keeping their order.
func toRecordViewModels(reports []model.StatusReport) []vm.RecordViewModel {
	rows := make([]vm.RecordViewModel, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, toRecordViewModel(r))
	}
	return rows
}

func toRecordViewModel(r model.StatusReport) vm.RecordViewModel {
	rec := presenter.FromReport(r)

	row := vm.RecordViewModel{
		URL:            rec.URL,
		Linkable:       r.Failure == nil || r.Failure.Kind != model.FailureInvalidLink,
		Status:         rec.Status,
		StatusClass:    statusClass(rec.Status, r.OK()),
		Author:         rec.Author,
		MergedBy:       rec.MergedBy,
		CIDetails:      rec.CIDetails,
		Conflicts:      rec.Conflicts,
		OutOfDate:      rec.OutOfDate,
		Approvals:      rec.Approvals,
		ChangeRequests: rec.ChangeRequests,
	}
	if row.MergedBy == "" {
		row.MergedBy = "-"
	}
	if r.OK() {
		row.Branches = rec.FromBranch + " → " + rec.ToBranch
	}
	return row
}

func statusClass(status string, ok bool) string {
	if !ok {
		return "status-error"
	}
	switch status {
	case presenter.StatusOpen:
		return "status-open"
	case presenter.StatusMerged:
		return "status-merged"
	case presenter.StatusClosedUnmerged:
		return "status-closed"
	case presenter.StatusDraft:
		return "status-draft"
	default:
		return ""
	}
}

// toCredentialStatusViewModel converts the token status for display.
func toCredentialStatusViewModel(s application.TokenStatus) vm.CredentialStatusViewModel {
	return vm.CredentialStatusViewModel{
		Configured:  s.Source != application.TokenSourceNone,
		Source:      string(s.Source),
		TokenMasked: s.Masked,
	}
}

func formatUpdatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}
