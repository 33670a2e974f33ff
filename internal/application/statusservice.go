package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/prboard/internal/domain/model"
	"github.com/ericfisherdev/prboard/internal/domain/port/driven"
)

// StatusService resolves pull request links into normalized status reports.
// Links are processed one at a time and, within a link, the detail, check-run
// and review lookups run strictly in that order.
type StatusService struct {
	provider *GitHubClientProvider
}

// NewStatusService creates a StatusService reading its client from provider.
func NewStatusService(provider *GitHubClientProvider) *StatusService {
	return &StatusService{provider: provider}
}

// CheckLinks trims every link, drops blank ones and returns one report per
// remaining link in input order. A bad link never fails the batch.
func (s *StatusService) CheckLinks(ctx context.Context, links []string) []model.StatusReport {
	client := s.provider.Get()

	reports := make([]model.StatusReport, 0, len(links))
	for _, raw := range links {
		link := strings.TrimSpace(raw)
		if link == "" {
			continue
		}
		reports = append(reports, s.check(ctx, client, link))
	}

	slog.Debug("checked links", "requested", len(links), "reported", len(reports))
	return reports
}

// CheckLink returns the report for a single link. The link is used verbatim.
func (s *StatusService) CheckLink(ctx context.Context, link string) model.StatusReport {
	return s.check(ctx, s.provider.Get(), link)
}

func (s *StatusService) check(ctx context.Context, client driven.GitHubClient, link string) model.StatusReport {
	ref, err := ParseLink(link)
	if err != nil {
		return model.FailedReport(link, model.FailureInvalidLink, 0, err)
	}

	if client == nil {
		return model.FailedReport(link, model.FailureUpstream, 0, errors.New("no GitHub client configured"))
	}

	repo := ref.FullName()
	detail, err := client.FetchPRDetail(ctx, repo, ref.Number)
	if err != nil {
		slog.Warn("pull request lookup failed", "pr", ref.String(), "error", err)
		return primaryFailure(link, err)
	}

	report := model.StatusReport{
		URL:          link,
		Status:       classifyStatus(detail.State, detail.IsDraft, detail.IsMerged),
		Author:       detail.Author,
		MergedBy:     detail.MergedBy,
		FromBranch:   detail.Branch,
		ToBranch:     detail.BaseBranch,
		Mergeability: classifyMergeability(detail.MergeableState),
	}

	runs, err := client.FetchCheckRuns(ctx, repo, detail.HeadSHA)
	if err != nil {
		slog.Warn("check run lookup failed", "pr", ref.String(), "sha", detail.HeadSHA, "error", err)
	} else {
		report.CI = model.CIReport{Available: true, Lines: checkLines(runs)}
	}

	reviews, err := client.FetchReviews(ctx, repo, ref.Number)
	if err != nil {
		slog.Warn("review lookup failed", "pr", ref.String(), "error", err)
	} else {
		report.Approvals, report.ChangeRequests = tallyReviews(reviews)
	}

	return report
}

// primaryFailure converts a detail lookup error into a terminal report.
// Errors that carry no HTTP status are reported with code 0.
func primaryFailure(link string, err error) model.StatusReport {
	if errors.Is(err, driven.ErrMalformedResponse) {
		return model.FailedReport(link, model.FailureMalformed, 0, err)
	}

	var upstream *driven.UpstreamError
	if errors.As(err, &upstream) {
		return model.FailedReport(link, model.FailureUpstream, upstream.StatusCode, err)
	}
	return model.FailedReport(link, model.FailureUpstream, 0, err)
}
