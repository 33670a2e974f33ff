package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/prboard/internal/adapter/driving/presenter"
	"github.com/ericfisherdev/prboard/internal/application"
)

// maxCheckBodyBytes bounds the JSON body accepted by the check endpoint.
const maxCheckBodyBytes = 1 << 20

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	statusSvc *application.StatusService
	provider  *application.GitHubClientProvider
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	statusSvc *application.StatusService,
	provider *application.GitHubClientProvider,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		statusSvc: statusSvc,
		provider:  provider,
		logger:    logger,
	}
}

// RegisterRoutes adds the API routes to mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/check", h.CheckLinks)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with the standard middleware chain.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return ApplyMiddleware(mux, logger)
}

// CheckLinks resolves every link in the request body and returns one record
// per non-blank link, in request order. Individual link failures are reported
// inside the records; only a malformed body fails the request.
func (h *Handler) CheckLinks(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCheckBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: expected {\"links\": [string, ...]}")
		return
	}

	reports := h.statusSvc.CheckLinks(r.Context(), req.Links)

	h.logger.Info("checked pull request links", "links", len(req.Links), "records", len(reports))
	writeJSON(w, http.StatusOK, presenter.FromReports(reports))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		Time:         time.Now().UTC().Format(time.RFC3339),
		GitHubClient: h.provider.HasClient(),
	})
}
