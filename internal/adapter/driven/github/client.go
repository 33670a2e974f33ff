// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/prboard/internal/domain/model"
	"github.com/ericfisherdev/prboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Options configures the transport stack of a Client.
type Options struct {
	// Token is sent as a bearer credential on every call. Empty means
	// unauthenticated requests (public repositories only, low rate limit).
	Token string
	// APIBaseURL points at a GitHub Enterprise API root. Empty means api.github.com.
	APIBaseURL string
	// HTTPCache enables ETag-based conditional request caching.
	HTTPCache bool
	// RateLimitWait enables the secondary rate limit middleware, which sleeps on 429.
	RateLimitWait bool
}

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client. The transport stack is built
// bottom-up from the options:
//  1. httpcache (ETag-based conditional request caching), when enabled
//  2. go-github-ratelimit (secondary rate limit middleware), when enabled
//  3. go-github (GitHub REST API client with token auth)
//
// With both options off every call goes straight to the API.
func NewClient(opts Options) (*Client, error) {
	var transport http.RoundTripper = http.DefaultTransport
	if opts.HTTPCache {
		transport = httpcache.NewMemoryCacheTransport()
	}

	httpClient := &http.Client{Transport: transport}
	if opts.RateLimitWait {
		httpClient = github_ratelimit.NewClient(transport)
	}

	client := gh.NewClient(httpClient)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}

	if opts.APIBaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(opts.APIBaseURL, opts.APIBaseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URL %q: %w", opts.APIBaseURL, err)
		}
	}

	return &Client{gh: client}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchPRDetail returns the state, branches and mergeability of a single PR.
// A response missing required fields yields an error wrapping
// driven.ErrMalformedResponse.
func (c *Client) FetchPRDetail(ctx context.Context, repoFullName string, prNumber int) (*model.PRDetail, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return nil, upstreamError(fmt.Sprintf("fetching PR detail for %s#%d", repoFullName, prNumber), resp, err)
	}

	logRateLimit(resp, repoFullName+"/pr-detail", 0, 1)

	detail, err := mapPRDetail(pr)
	if err != nil {
		return nil, fmt.Errorf("PR detail for %s#%d: %w", repoFullName, prNumber, err)
	}
	return detail, nil
}

// FetchCheckRuns retrieves all check runs for the given ref (commit SHA or branch).
// Pages are concatenated in API order.
func (c *Client) FetchCheckRuns(ctx context.Context, repoFullName string, ref string) ([]model.CheckRun, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	return collectPages(repoFullName+"/check-runs", func(page int) ([]model.CheckRun, *gh.Response, error) {
		opts := &gh.ListCheckRunsOptions{ListOptions: gh.ListOptions{Page: page, PerPage: perPage}}
		result, resp, err := c.gh.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, opts)
		if err != nil {
			return nil, resp, upstreamError(fmt.Sprintf("listing check runs for %s@%s (page %d)", repoFullName, ref, page), resp, err)
		}

		runs := make([]model.CheckRun, 0, len(result.CheckRuns))
		for _, cr := range result.CheckRuns {
			runs = append(runs, mapCheckRun(cr))
		}
		return runs, resp, nil
	})
}

// FetchReviews retrieves all reviews for a pull request. The API lists
// reviews oldest first and pages keep that order.
func (c *Client) FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	return collectPages(repoFullName+"/reviews", func(page int) ([]model.Review, *gh.Response, error) {
		opts := &gh.ListOptions{Page: page, PerPage: perPage}
		reviews, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, resp, upstreamError(fmt.Sprintf("listing reviews for %s#%d (page %d)", repoFullName, prNumber, page), resp, err)
		}

		out := make([]model.Review, 0, len(reviews))
		for _, r := range reviews {
			out = append(out, mapReview(r))
		}
		return out, resp, nil
	})
}

// perPage is the largest page size the list endpoints accept.
const perPage = 100

// collectPages calls fetch for page 0 and then for every NextPage the API
// advertises, concatenating the results. The first error aborts the walk.
func collectPages[T any](endpoint string, fetch func(page int) ([]T, *gh.Response, error)) ([]T, error) {
	all := []T{}
	page := 0
	for {
		items, resp, err := fetch(page)
		if err != nil {
			return nil, err
		}
		logRateLimit(resp, endpoint, page, len(items))

		all = append(all, items...)
		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		page = resp.NextPage
	}
}

// mapPRDetail converts a go-github PullRequest to a domain PRDetail.
// Optional fields use GetXxx() helpers; required ones are checked explicitly.
func mapPRDetail(pr *gh.PullRequest) (*model.PRDetail, error) {
	var missing []string
	if pr.State == nil {
		missing = append(missing, "state")
	}
	if pr.Merged == nil {
		missing = append(missing, "merged")
	}
	if pr.GetHead().GetSHA() == "" {
		missing = append(missing, "head.sha")
	}
	if pr.GetHead().GetRef() == "" {
		missing = append(missing, "head.ref")
	}
	if pr.GetBase().GetRef() == "" {
		missing = append(missing, "base.ref")
	}
	if pr.GetUser().GetLogin() == "" {
		missing = append(missing, "user.login")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", driven.ErrMalformedResponse, strings.Join(missing, ", "))
	}

	mergeableState := pr.GetMergeableState()
	if mergeableState == "" {
		mergeableState = "unknown"
	}

	var mergedBy string
	if pr.GetMerged() && pr.MergedBy != nil {
		mergedBy = pr.MergedBy.GetLogin()
	}

	return &model.PRDetail{
		State:          pr.GetState(),
		IsDraft:        pr.GetDraft(),
		IsMerged:       pr.GetMerged(),
		MergeableState: mergeableState,
		HeadSHA:        pr.GetHead().GetSHA(),
		Author:         pr.GetUser().GetLogin(),
		MergedBy:       mergedBy,
		Branch:         pr.GetHead().GetRef(),
		BaseBranch:     pr.GetBase().GetRef(),
	}, nil
}

// mapCheckRun converts a go-github CheckRun to a domain model CheckRun.
func mapCheckRun(cr *gh.CheckRun) model.CheckRun {
	return model.CheckRun{
		ID:         cr.GetID(),
		Name:       cr.GetName(),
		Status:     cr.GetStatus(),
		Conclusion: cr.GetConclusion(),
	}
}

// mapReview converts a go-github PullRequestReview to a domain model Review.
func mapReview(r *gh.PullRequestReview) model.Review {
	return model.Review{
		ID:            r.GetID(),
		ReviewerLogin: r.GetUser().GetLogin(),
		State:         model.ReviewState(strings.ToLower(r.GetState())),
		CommitID:      r.GetCommitID(),
		SubmittedAt:   r.GetSubmittedAt().Time,
	}
}

// upstreamError wraps a go-github failure with the HTTP status, if any.
func upstreamError(op string, resp *gh.Response, err error) error {
	code := 0
	if resp != nil && resp.Response != nil {
		code = resp.StatusCode
	}
	return &driven.UpstreamError{Op: op, StatusCode: code, Err: err}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
