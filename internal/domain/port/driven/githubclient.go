package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/prboard/internal/domain/model"
)

// ErrMalformedResponse is wrapped by adapters when an upstream response is
// missing a field the status check cannot do without.
var ErrMalformedResponse = errors.New("malformed upstream response")

// UpstreamError is returned by GitHubClient methods when the API call did not
// succeed. StatusCode is the HTTP status of a non-2xx response, or 0 when the
// request failed before a response arrived.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// GitHubClient defines the driven port for the three read lookups a status
// check performs. Implementations return *UpstreamError for failed calls.
type GitHubClient interface {
	// FetchPRDetail returns state, branches and mergeability for a single PR.
	FetchPRDetail(ctx context.Context, repoFullName string, prNumber int) (*model.PRDetail, error)
	// FetchCheckRuns returns all check runs for the given ref (commit SHA or branch),
	// in the order the API lists them.
	FetchCheckRuns(ctx context.Context, repoFullName string, ref string) ([]model.CheckRun, error)
	// FetchReviews returns all reviews for a PR in the order the API lists them.
	FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
}
