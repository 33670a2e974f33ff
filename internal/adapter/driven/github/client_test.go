package github_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ghAdapter "github.com/ericfisherdev/prboard/internal/adapter/driven/github"
	"github.com/ericfisherdev/prboard/internal/domain/model"
	"github.com/ericfisherdev/prboard/internal/domain/port/driven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) (*ghAdapter.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(
		server.Client(),
		server.URL+"/",
		"test-token",
	)
	require.NoError(t, err)

	return client, server
}

// prDetailJSON returns a single-PR GET response body with every required field set.
func prDetailJSON() map[string]any {
	return map[string]any{
		"number":          42,
		"state":           "open",
		"draft":           false,
		"merged":          false,
		"mergeable_state": "clean",
		"user":            map[string]any{"login": "alice"},
		"head":            map[string]any{"ref": "feature-x", "sha": "abc123"},
		"base":            map[string]any{"ref": "main"},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// --- FetchPRDetail tests ---

func TestFetchPRDetail(t *testing.T) {
	var gotPath, gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body := prDetailJSON()
		body["draft"] = true
		body["mergeable_state"] = "dirty"
		writeJSON(w, http.StatusOK, body)
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchPRDetail(context.Background(), "owner/repo", 42)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "/repos/owner/repo/pulls/42", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)

	assert.Equal(t, "open", result.State)
	assert.True(t, result.IsDraft)
	assert.False(t, result.IsMerged)
	assert.Equal(t, "dirty", result.MergeableState)
	assert.Equal(t, "abc123", result.HeadSHA)
	assert.Equal(t, "alice", result.Author)
	assert.Equal(t, "feature-x", result.Branch)
	assert.Equal(t, "main", result.BaseBranch)
	assert.Empty(t, result.MergedBy)
}

func TestFetchPRDetail_MergedBy(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := prDetailJSON()
		body["state"] = "closed"
		body["merged"] = true
		body["merged_by"] = map[string]any{"login": "carol"}
		writeJSON(w, http.StatusOK, body)
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchPRDetail(context.Background(), "owner/repo", 42)

	require.NoError(t, err)
	assert.True(t, result.IsMerged)
	assert.Equal(t, "carol", result.MergedBy)
}

func TestFetchPRDetail_MergedByIgnoredWhenNotMerged(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := prDetailJSON()
		body["merged_by"] = map[string]any{"login": "carol"}
		writeJSON(w, http.StatusOK, body)
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchPRDetail(context.Background(), "owner/repo", 42)

	require.NoError(t, err)
	assert.Empty(t, result.MergedBy)
}

func TestFetchPRDetail_MergeableStateDefaultsToUnknown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := prDetailJSON()
		delete(body, "mergeable_state")
		delete(body, "draft")
		writeJSON(w, http.StatusOK, body)
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchPRDetail(context.Background(), "owner/repo", 42)

	require.NoError(t, err)
	assert.Equal(t, "unknown", result.MergeableState)
	assert.False(t, result.IsDraft, "absent draft flag should default to false")
}

func TestFetchPRDetail_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchPRDetail(context.Background(), "owner/repo", 42)

	require.Error(t, err)
	assert.Nil(t, result)

	var upErr *driven.UpstreamError
	require.True(t, errors.As(err, &upErr), "error should be an UpstreamError")
	assert.Equal(t, http.StatusNotFound, upErr.StatusCode)
}

func TestFetchPRDetail_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(body map[string]any)
		missing string
	}{
		{name: "state", mutate: func(b map[string]any) { delete(b, "state") }, missing: "state"},
		{name: "merged", mutate: func(b map[string]any) { delete(b, "merged") }, missing: "merged"},
		{name: "head", mutate: func(b map[string]any) { delete(b, "head") }, missing: "head.sha"},
		{name: "base", mutate: func(b map[string]any) { delete(b, "base") }, missing: "base.ref"},
		{name: "user", mutate: func(b map[string]any) { delete(b, "user") }, missing: "user.login"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body := prDetailJSON()
				tc.mutate(body)
				writeJSON(w, http.StatusOK, body)
			})

			client, _ := newTestClient(t, handler)
			_, err := client.FetchPRDetail(context.Background(), "owner/repo", 42)

			require.Error(t, err)
			assert.ErrorIs(t, err, driven.ErrMalformedResponse)
			assert.Contains(t, err.Error(), tc.missing)
		})
	}
}

func TestFetchPRDetail_InvalidRepoName(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server should not be called for invalid repo name")
	})

	client, _ := newTestClient(t, handler)

	tests := []struct {
		name string
		repo string
	}{
		{name: "no slash", repo: "invalid"},
		{name: "empty owner", repo: "/repo"},
		{name: "empty repo", repo: "owner/"},
		{name: "empty string", repo: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.FetchPRDetail(context.Background(), tc.repo, 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid repo name")
		})
	}
}

// --- FetchCheckRuns tests ---

func TestFetchCheckRuns(t *testing.T) {
	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{
			"total_count": 3,
			"check_runs": []map[string]any{
				{"id": int64(5001), "name": "build", "status": "completed", "conclusion": "success"},
				{"id": int64(5002), "name": "lint", "status": "in_progress", "conclusion": nil},
				{"id": int64(5003), "name": "test", "status": "completed", "conclusion": "failure"},
			},
		})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchCheckRuns(context.Background(), "owner/repo", "abc123")

	require.NoError(t, err)
	assert.Equal(t, "/repos/owner/repo/commits/abc123/check-runs", gotPath)
	require.Len(t, result, 3)

	assert.Equal(t, int64(5001), result[0].ID)
	assert.Equal(t, "build", result[0].Name)
	assert.Equal(t, "completed", result[0].Status)
	assert.Equal(t, "success", result[0].Conclusion)

	assert.Equal(t, "lint", result[1].Name)
	assert.Equal(t, "in_progress", result[1].Status)
	assert.Equal(t, "", result[1].Conclusion, "null conclusion should map to empty string")

	assert.Equal(t, "test", result[2].Name)
	assert.Equal(t, "failure", result[2].Conclusion)
}

func TestFetchCheckRuns_Empty(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"total_count": 0, "check_runs": []any{}})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchCheckRuns(context.Background(), "owner/repo", "abc123")

	require.NoError(t, err)
	assert.NotNil(t, result, "should return empty slice, not nil")
	assert.Empty(t, result)
}

func TestFetchCheckRuns_Pagination(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")

		if page == "" || page == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			writeJSON(w, http.StatusOK, map[string]any{
				"total_count": 2,
				"check_runs":  []map[string]any{{"id": int64(1), "name": "first", "conclusion": "success"}},
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"total_count": 2,
			"check_runs":  []map[string]any{{"id": int64(2), "name": "second", "conclusion": "failure"}},
		})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchCheckRuns(context.Background(), "owner/repo", "abc123")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "first", result[0].Name)
	assert.Equal(t, "second", result[1].Name)
}

func TestFetchCheckRuns_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "Resource not accessible by integration"})
	})

	client, _ := newTestClient(t, handler)
	_, err := client.FetchCheckRuns(context.Background(), "owner/repo", "abc123")

	var upErr *driven.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusForbidden, upErr.StatusCode)
}

// --- FetchReviews tests ---

func TestFetchReviews(t *testing.T) {
	var gotPath string
	reviews := []map[string]any{
		{
			"id":           int64(1001),
			"state":        "APPROVED",
			"commit_id":    "abc123",
			"submitted_at": "2026-01-10T10:00:00Z",
			"user":         map[string]any{"login": "alice"},
		},
		{
			"id":           int64(1002),
			"state":        "CHANGES_REQUESTED",
			"commit_id":    "def456",
			"submitted_at": "2026-01-11T11:00:00Z",
			"user":         map[string]any{"login": "bob"},
		},
		{
			"id":           int64(1003),
			"state":        "COMMENTED",
			"submitted_at": "2026-01-12T11:00:00Z",
			"user":         map[string]any{"login": "alice"},
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, reviews)
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchReviews(context.Background(), "owner/repo", 42)

	require.NoError(t, err)
	assert.Equal(t, "/repos/owner/repo/pulls/42/reviews", gotPath)
	require.Len(t, result, 3)

	assert.Equal(t, int64(1001), result[0].ID)
	assert.Equal(t, "alice", result[0].ReviewerLogin)
	assert.Equal(t, model.ReviewStateApproved, result[0].State)
	assert.Equal(t, "abc123", result[0].CommitID)
	assert.False(t, result[0].SubmittedAt.IsZero())

	assert.Equal(t, "bob", result[1].ReviewerLogin)
	assert.Equal(t, model.ReviewStateChangesRequested, result[1].State)

	assert.Equal(t, "alice", result[2].ReviewerLogin, "API order should be preserved")
	assert.Equal(t, model.ReviewStateCommented, result[2].State)
}

func TestFetchReviews_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Bad credentials"})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchReviews(context.Background(), "owner/repo", 42)

	assert.Nil(t, result)
	var upErr *driven.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
}

func TestFetchReviews_PaginationKeepsOrder(t *testing.T) {
	var pages []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)

		if page == "" {
			w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page=2>; rel="next"`, r.Host, r.URL.Path))
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": int64(1), "state": "CHANGES_REQUESTED", "user": map[string]any{"login": "alice"}},
			})
			return
		}

		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": int64(2), "state": "APPROVED", "user": map[string]any{"login": "alice"}},
		})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchReviews(context.Background(), "owner/repo", 7)

	require.NoError(t, err)
	assert.Equal(t, []string{"", "2"}, pages)
	require.Len(t, result, 2)
	assert.Equal(t, model.ReviewStateChangesRequested, result[0].State)
	assert.Equal(t, model.ReviewStateApproved, result[1].State, "later page must come after earlier page")
}

func TestFetchCheckRuns_FailureOnLaterPage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page=2>; rel="next"`, r.Host, r.URL.Path))
			writeJSON(w, http.StatusOK, map[string]any{
				"total_count": 2,
				"check_runs":  []map[string]any{{"id": int64(1), "name": "first", "conclusion": "success"}},
			})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]any{"message": "upstream hiccup"})
	})

	client, _ := newTestClient(t, handler)
	result, err := client.FetchCheckRuns(context.Background(), "owner/repo", "abc123")

	assert.Nil(t, result, "a partial listing is not returned")
	var upErr *driven.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadGateway, upErr.StatusCode)
}

func TestFetchPRDetail_TransportFailureHasNoStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/", "")
	require.NoError(t, err)
	server.Close()

	_, err = client.FetchPRDetail(context.Background(), "owner/repo", 1)

	var upErr *driven.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Zero(t, upErr.StatusCode)
}
