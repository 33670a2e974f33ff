// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/prboard/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/prboard/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/prboard/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/prboard/internal/application"
	"github.com/ericfisherdev/prboard/internal/domain/port/driven"
)

// maxFormBytes bounds form bodies posted to the GUI.
const maxFormBytes = 1 << 20

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	statusSvc  *application.StatusService
	tokenSvc   *application.TokenService
	noticeHTML string
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. notice is
// markdown shown above the link form; it is rendered once here and dropped
// with a warning if it cannot be rendered.
func NewHandler(
	statusSvc *application.StatusService,
	tokenSvc *application.TokenService,
	notice string,
	logger *slog.Logger,
) *Handler {
	noticeHTML, err := RenderNotice(notice)
	if err != nil {
		logger.Warn("notice not shown", "error", err)
	}

	return &Handler{
		statusSvc:  statusSvc,
		tokenSvc:   tokenSvc,
		noticeHTML: noticeHTML,
		logger:     logger,
	}
}

// Dashboard renders the main dashboard page with an empty link form.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, h.dashboardViewModel(w, r))
}

// Check runs the links posted from the dashboard form and renders the results
// below the form. This is the no-JavaScript path; app.js uses the JSON API.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("links")
	reports := h.statusSvc.CheckLinks(r.Context(), strings.Split(raw, "\n"))

	m := h.dashboardViewModel(w, r)
	m.Links = raw
	m.Checked = true
	m.Records = toRecordViewModels(reports)

	h.renderDashboard(w, r, m)
}

// Settings renders the token settings page.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	m := h.settingsViewModel(w, r)
	switch {
	case r.URL.Query().Has("saved"):
		m.Flash = "GitHub token saved."
	case r.URL.Query().Has("cleared"):
		m.Flash = "Stored GitHub token cleared."
	}
	h.renderSettings(w, r, m, http.StatusOK)
}

// SaveToken stores the posted token and swaps the GitHub client.
func (h *Handler) SaveToken(w http.ResponseWriter, r *http.Request) {
	if err := h.tokenSvc.Save(r.Context(), r.FormValue("token")); err != nil {
		h.logger.Warn("failed to save github token", "error", err)
		m := h.settingsViewModel(w, r)
		m.Error = tokenErrorMessage(err)
		h.renderSettings(w, r, m, http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
}

// ClearToken deletes the stored token and reverts to the environment token.
func (h *Handler) ClearToken(w http.ResponseWriter, r *http.Request) {
	if err := h.tokenSvc.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear github token", "error", err)
		m := h.settingsViewModel(w, r)
		m.Error = "Could not clear the stored token."
		h.renderSettings(w, r, m, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/settings?cleared=1", http.StatusSeeOther)
}

func (h *Handler) dashboardViewModel(w http.ResponseWriter, r *http.Request) vm.DashboardViewModel {
	status, err := h.tokenSvc.Status(r.Context())
	if err != nil {
		h.logger.Warn("failed to load token status", "error", err)
	}

	return vm.DashboardViewModel{
		StatusOptions: statusOptions,
		NoticeHTML:    h.noticeHTML,
		CSRFToken:     csrfToken(w, r),
		Credential:    toCredentialStatusViewModel(status),
	}
}

func (h *Handler) settingsViewModel(w http.ResponseWriter, r *http.Request) vm.SettingsViewModel {
	status, err := h.tokenSvc.Status(r.Context())
	m := vm.SettingsViewModel{
		StorageEnabled: status.StorageEnabled,
		Credential:     toCredentialStatusViewModel(status),
		UpdatedAt:      formatUpdatedAt(status.UpdatedAt),
		CSRFToken:      csrfToken(w, r),
	}
	if err != nil {
		h.logger.Error("failed to load token status", "error", err)
		m.Error = "Could not read stored credentials."
	}
	return m
}

func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, m vm.DashboardViewModel) {
	h.render(w, r, "PR Status Dashboard", pages.Dashboard(m), http.StatusOK)
}

func (h *Handler) renderSettings(w http.ResponseWriter, r *http.Request, m vm.SettingsViewModel, status int) {
	h.render(w, r, "Settings · PR Status Dashboard", pages.Settings(m), status)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, title string, page templ.Component, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := templates.Layout(title, page).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
	}
}

func tokenErrorMessage(err error) string {
	if errors.Is(err, driven.ErrEncryptionKeyNotSet) {
		return "Token storage is disabled. Set PRBOARD_SECRET_KEY to enable it."
	}
	if errors.Is(err, application.ErrEmptyToken) {
		return "Enter a token."
	}
	return "Could not save the token."
}
