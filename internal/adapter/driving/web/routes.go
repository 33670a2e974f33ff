package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFiles embed.FS

// RegisterRoutes registers the dashboard and settings routes on mux. Every
// POST goes through the CSRF guard.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("POST /check", requireCSRF(h.Check))
	mux.HandleFunc("GET /settings", h.Settings)
	mux.HandleFunc("POST /settings/token", requireCSRF(h.SaveToken))
	mux.HandleFunc("POST /settings/token/clear", requireCSRF(h.ClearToken))
}
