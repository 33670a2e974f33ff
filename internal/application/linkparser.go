package application

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ericfisherdev/prboard/internal/domain/model"
)

// ErrInvalidLink is wrapped by ParseLink for every link it rejects.
var ErrInvalidLink = errors.New("invalid pull request link")

// ParseLink extracts owner, repository and PR number from a link of the form
// https://<host>/<owner>/<repo>/pull/<number>. The path must have exactly four
// segments; the third is not inspected. No trimming is applied.
func ParseLink(link string) (model.PRRef, error) {
	u, err := url.Parse(link)
	if err != nil {
		return model.PRRef{}, fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) != 4 {
		return model.PRRef{}, fmt.Errorf("%w: expected 4 path segments, got %d", ErrInvalidLink, len(segments))
	}

	owner, repo, numberStr := segments[0], segments[1], segments[3]
	if owner == "" || repo == "" {
		return model.PRRef{}, fmt.Errorf("%w: empty owner or repository", ErrInvalidLink)
	}

	number, err := strconv.Atoi(numberStr)
	if err != nil || number <= 0 {
		return model.PRRef{}, fmt.Errorf("%w: %q is not a pull request number", ErrInvalidLink, numberStr)
	}

	return model.PRRef{Owner: owner, Repo: repo, Number: number}, nil
}
