// Package cli implements the prcheck command-line driving adapter.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ericfisherdev/prboard/internal/adapter/driving/presenter"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141")).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	openStyle      = cellStyle.Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	mergedStyle    = cellStyle.Foreground(lipgloss.Color("#9C27B0")).Bold(true)
	closedStyle    = cellStyle.Foreground(lipgloss.Color("#F44336")).Bold(true)
	draftStyle     = cellStyle.Foreground(lipgloss.Color("245")).Bold(true)
	errorCellStyle = cellStyle.Foreground(lipgloss.Color("#FF9800"))
)

var tableHeaders = []string{
	"PR Link", "Author", "Status", "Merged By", "From → To", "CI Details",
	"Conflicts", "Out of Date", "Approvals", "Change Requests",
}

const statusColumn = 2

// RenderTable writes records as a bordered terminal table.
func RenderTable(w io.Writer, records []presenter.PullRequestRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, tableRow(r))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == statusColumn && row >= 0 && row < len(records) {
				return statusStyle(records[row].Status)
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.String())
	return err
}

// RenderJSON writes records as an indented JSON array.
func RenderJSON(w io.Writer, records []presenter.PullRequestRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

func tableRow(r presenter.PullRequestRecord) []string {
	mergedBy := r.MergedBy
	if mergedBy == "" {
		mergedBy = "-"
	}
	branches := ""
	if r.FromBranch != "" || r.ToBranch != "" {
		branches = r.FromBranch + " → " + r.ToBranch
	}

	return []string{
		r.URL,
		r.Author,
		r.Status,
		mergedBy,
		branches,
		strings.Join(r.CIDetails, "\n"),
		r.Conflicts,
		r.OutOfDate,
		strconv.Itoa(r.Approvals),
		strconv.Itoa(r.ChangeRequests),
	}
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case presenter.StatusOpen:
		return openStyle
	case presenter.StatusMerged:
		return mergedStyle
	case presenter.StatusClosedUnmerged:
		return closedStyle
	case presenter.StatusDraft:
		return draftStyle
	case presenter.StatusUnknown:
		return cellStyle
	default:
		return errorCellStyle
	}
}
