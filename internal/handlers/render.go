package handlers

import (
	"errors"
	"net/http"

	"github.com/zebmuhammad/Student-Management-System/httpx"
	"github.com/zebmuhammad/Student-Management-System/internal/logger"
	"github.com/zebmuhammad/Student-Management-System/internal/store"
	"github.com/zebmuhammad/Student-Management-System/validation"
	"github.com/zebmuhammad/Student-Management-System/view"
)

// flashMessages maps msg query-parameter codes to banner text. Unknown codes
// render nothing.
var flashMessages = map[string]string{
	"created":        "Student created successfully",
	"updated":        "Student updated successfully",
	"deleted":        "Student deleted successfully",
	"login_success":  "Logged in successfully",
	"logout_success": "Logged out successfully",
	"signup_success": "Account created, please log in",
}

func flash(r *http.Request) string {
	return flashMessages[r.URL.Query().Get("msg")]
}

// render writes an HTML page at the given status. Render failures degrade to
// a plain 500 since the response status is already committed.
func render(w http.ResponseWriter, r *http.Request, name string, status int, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.Render(w, r, name, data); err != nil {
		logger.Error().Err(err).Str("template", name).Msg("template render failed")
		_, _ = w.Write([]byte("template render error"))
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	render(w, r, "404.html", http.StatusNotFound, nil)
}

// fail is the single top-level sink for unexpected errors: full detail goes
// to the log, the client gets a generic 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	render(w, r, "500.html", http.StatusInternalServerError, nil)
}

// schemaViolations unwraps a store-boundary schema failure into its field
// errors so the form can show them.
func schemaViolations(err error) (validation.Errors, bool) {
	var se *store.SchemaError
	if errors.As(err, &se) {
		return se.Violations, true
	}
	return nil, false
}
