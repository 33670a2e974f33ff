package httphandler

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// CheckRequest is the body of POST /api/v1/check.
type CheckRequest struct {
	Links []string `json:"links"`
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status       string `json:"status"`
	Time         string `json:"time"`
	GitHubClient bool   `json:"github_client"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v before touching the response, so an encoding failure
// still produces a clean 500. HTML characters are left unescaped; pull request
// URLs and branch names come back as sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := enc.Encode(v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}` + "\n"))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
