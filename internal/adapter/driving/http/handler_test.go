package httphandler_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/prboard/internal/adapter/driving/http"
	"github.com/ericfisherdev/prboard/internal/application"
	"github.com/ericfisherdev/prboard/internal/domain/model"
	"github.com/ericfisherdev/prboard/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockGitHubClient struct {
	details map[int]*model.PRDetail
	runs    []model.CheckRun
	reviews []model.Review
	calls   int
}

func (m *mockGitHubClient) FetchPRDetail(_ context.Context, _ string, n int) (*model.PRDetail, error) {
	m.calls++
	d, ok := m.details[n]
	if !ok {
		return nil, &driven.UpstreamError{Op: "get pull request", StatusCode: http.StatusNotFound}
	}
	return d, nil
}

func (m *mockGitHubClient) FetchCheckRuns(_ context.Context, _, _ string) ([]model.CheckRun, error) {
	m.calls++
	return m.runs, nil
}

func (m *mockGitHubClient) FetchReviews(_ context.Context, _ string, _ int) ([]model.Review, error) {
	m.calls++
	return m.reviews, nil
}

// --- Helpers ---

func setupMux(client driven.GitHubClient) http.Handler {
	provider := application.NewGitHubClientProvider(client)
	h := httphandler.NewHandler(application.NewStatusService(provider), provider, slog.Default())
	return httphandler.NewServeMux(h, slog.Default())
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

func postCheck(t *testing.T, mux http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func openClient() *mockGitHubClient {
	return &mockGitHubClient{
		details: map[int]*model.PRDetail{
			1: {State: "open", MergeableState: "dirty", HeadSHA: "sha1", Author: "alice", Branch: "feat", BaseBranch: "main"},
		},
		runs: []model.CheckRun{{Name: "ci", Conclusion: "success"}},
		reviews: []model.Review{
			{ReviewerLogin: "bob", State: model.ReviewStateApproved},
		},
	}
}

// --- Tests ---

func TestCheckLinks(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLen    int
		check      func(t *testing.T, records []map[string]any)
	}{
		{
			name:       "single valid link",
			body:       `{"links": ["https://github.com/o/r/pull/1"]}`,
			wantStatus: http.StatusOK,
			wantLen:    1,
			check: func(t *testing.T, records []map[string]any) {
				r := records[0]
				assert.Equal(t, "https://github.com/o/r/pull/1", r["url"])
				assert.Equal(t, "Open", r["status"])
				assert.Equal(t, "alice", r["author"])
				assert.Equal(t, "", r["merged_by"])
				assert.Equal(t, "feat", r["from_branch"])
				assert.Equal(t, "main", r["to_branch"])
				assert.Equal(t, []any{"✅ ci"}, r["ci_details"])
				assert.Equal(t, "Has conflicts", r["conflicts"])
				assert.Equal(t, "No", r["out_of_date"])
				assert.InDelta(t, 1, r["approvals"], 0)
				assert.InDelta(t, 0, r["change_requests"], 0)
			},
		},
		{
			name:       "blank links dropped, order kept",
			body:       `{"links": ["", "  ", "bad", "https://github.com/o/r/pull/1", "https://github.com/o/r/pull/2"]}`,
			wantStatus: http.StatusOK,
			wantLen:    3,
			check: func(t *testing.T, records []map[string]any) {
				assert.Equal(t, "Invalid URL", records[0]["status"])
				assert.Equal(t, "Open", records[1]["status"])
				assert.Equal(t, "Error: 404", records[2]["status"])
				assert.Equal(t, []any{}, records[2]["ci_details"])
			},
		},
		{
			name:       "missing links field",
			body:       `{}`,
			wantStatus: http.StatusOK,
			wantLen:    0,
		},
		{
			name:       "empty links",
			body:       `{"links": []}`,
			wantStatus: http.StatusOK,
			wantLen:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCheck(t, setupMux(openClient()), tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp []map[string]any
			decodeJSON(t, rec, &resp)
			require.NotNil(t, resp)
			require.Len(t, resp, tt.wantLen)

			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}

func TestCheckLinks_BadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `links=foo`},
		{"links not an array", `{"links": "https://github.com/o/r/pull/1"}`},
		{"non-string entry", `{"links": [42]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := openClient()
			rec := postCheck(t, setupMux(client), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			decodeJSON(t, rec, &resp)
			assert.Contains(t, resp["error"], "invalid request body")
			assert.Zero(t, client.calls)
		})
	}
}

func TestCheckLinks_DetailFailureMakesOneCall(t *testing.T) {
	client := openClient()

	rec := postCheck(t, setupMux(client), `{"links": ["https://github.com/o/r/pull/99"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, client.calls)
}

func TestCheckLinks_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/check", nil)
	rec := httptest.NewRecorder()

	setupMux(openClient()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		client     driven.GitHubClient
		wantClient bool
	}{
		{"with client", openClient(), true},
		{"without client", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			rec := httptest.NewRecorder()

			setupMux(tt.client).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)

			var resp httphandler.HealthResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, "ok", resp.Status)
			assert.NotEmpty(t, resp.Time)
			assert.Equal(t, tt.wantClient, resp.GitHubClient)
		})
	}
}
