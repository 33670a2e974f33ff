package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/prboard/internal/adapter/driving/web/viewmodel"
)

// Dashboard renders the link form, the filters and, after a check, the results table.
func Dashboard(m vm.DashboardViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<h1>🚀 PR Status Dashboard</h1>`)
		if m.NoticeHTML != "" {
			hw.raw(`<section class="notice">`)
			hw.raw(m.NoticeHTML)
			hw.raw(`</section>`)
		}
		if !m.Credential.Configured {
			hw.raw(`<p class="hint">No GitHub token configured; requests are unauthenticated and heavily rate limited. `)
			hw.raw(`<a href="/settings">Add a token</a>.</p>`)
		}

		hw.raw(`<form id="checkForm" method="post" action="/check">`)
		hw.csrfField(m.CSRFToken)
		hw.raw(`<textarea id="prLinks" name="links" placeholder="Paste one PR link per line">`)
		hw.text(m.Links)
		hw.raw(`</textarea><br><button type="submit">Check Status</button></form>`)

		hw.raw(`<div class="filters">`)
		hw.raw(`<input type="text" id="searchBox" placeholder="Search by author...">`)
		hw.raw(`<select id="statusFilter"><option value="">All Statuses</option>`)
		for _, opt := range m.StatusOptions {
			hw.raw(`<option value="`)
			hw.text(opt)
			hw.raw(`">`)
			hw.text(opt)
			hw.raw(`</option>`)
		}
		hw.raw(`</select></div>`)

		if hw.err != nil {
			return hw.err
		}
		if !m.Checked {
			return nil
		}
		return ResultsTable(m.Records).Render(ctx, w)
	})
}

// ResultsTable renders one row per record. Every value is escaped.
func ResultsTable(records []vm.RecordViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<table id="resultsTable"><thead><tr>`)
		for _, h := range []string{
			"PR Link", "Author", "Status", "Merged By", "From → To", "CI Details",
			"Conflicts", "Out of Date", "Approvals", "Change Requests",
		} {
			hw.raw(`<th>`)
			hw.text(h)
			hw.raw(`</th>`)
		}
		hw.raw(`</tr></thead><tbody>`)

		if len(records) == 0 {
			hw.raw(`<tr class="empty"><td colspan="10">No links to check.</td></tr>`)
		}
		for _, r := range records {
			writeRecordRow(hw, r)
		}

		hw.raw(`</tbody></table>`)
		return hw.err
	})
}

func writeRecordRow(hw *htmlWriter, r vm.RecordViewModel) {
	hw.raw(`<tr class="`)
	hw.text(r.StatusClass)
	hw.raw(`" data-author="`)
	hw.text(r.Author)
	hw.raw(`" data-status="`)
	hw.text(r.Status)
	hw.raw(`">`)

	hw.raw(`<td>`)
	if r.Linkable {
		hw.raw(`<a href="`)
		hw.text(string(templ.URL(r.URL)))
		hw.raw(`" target="_blank" rel="noopener noreferrer">`)
		hw.text(r.URL)
		hw.raw(`</a>`)
	} else {
		hw.text(r.URL)
	}
	hw.raw(`</td>`)

	cell(hw, r.Author)
	hw.raw(`<td class="`)
	hw.text(r.StatusClass)
	hw.raw(`">`)
	hw.text(r.Status)
	hw.raw(`</td>`)
	cell(hw, r.MergedBy)
	cell(hw, r.Branches)

	hw.raw(`<td class="ci-details">`)
	for i, line := range r.CIDetails {
		if i > 0 {
			hw.raw(`<br>`)
		}
		hw.text(line)
	}
	hw.raw(`</td>`)

	cell(hw, r.Conflicts)
	cell(hw, r.OutOfDate)
	hw.raw(`<td>`)
	hw.number(r.Approvals)
	hw.raw(`</td><td>`)
	hw.number(r.ChangeRequests)
	hw.raw(`</td></tr>`)
}

func cell(hw *htmlWriter, s string) {
	hw.raw(`<td>`)
	hw.text(s)
	hw.raw(`</td>`)
}
