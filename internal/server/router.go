package server

import (
	"context"
	"net/http"

	"github.com/zebmuhammad/Student-Management-System/auth"
	"github.com/zebmuhammad/Student-Management-System/httpx"
	"github.com/zebmuhammad/Student-Management-System/internal/handlers"
	"github.com/zebmuhammad/Student-Management-System/internal/session"
	"github.com/zebmuhammad/Student-Management-System/internal/store"
)

// Deps carries everything the router needs; nothing is ambient.
type Deps struct {
	Students store.StudentStore
	Users    store.UserStore
	Sessions session.Store
	Secret   string
	// HealthCheck pings the backing store for /healthz. Optional.
	HealthCheck func(ctx context.Context) error
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(deps Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(r.Context()); err != nil {
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	dash := handlers.NewDashboardHandler(deps.Students)
	mux.HandleFunc("GET /{$}", dash.Home)

	ah := handlers.NewAuthHandler(deps.Users, deps.Sessions, deps.Secret)
	mux.HandleFunc("GET /signup", ah.ShowSignup)
	mux.HandleFunc("POST /signup", ah.Signup)
	mux.HandleFunc("GET /login", ah.ShowLogin)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("GET /logout", ah.Logout)

	sh := handlers.NewStudentHandler(deps.Students)
	protected := func(fn http.HandlerFunc) http.Handler { return auth.RequireAuth(fn) }
	mux.Handle("GET /students", protected(sh.List))
	mux.Handle("POST /students", protected(sh.Create))
	mux.Handle("GET /students/new", protected(sh.New))
	mux.Handle("GET /students/{id}", protected(sh.Show))
	mux.Handle("GET /students/{id}/edit", protected(sh.Edit))
	mux.Handle("PUT /students/{id}", protected(sh.Update))
	mux.Handle("DELETE /students/{id}", protected(sh.Delete))

	mux.Handle("GET /static/", http.StripPrefix("/static/", staticHandler()))

	var handler http.Handler = mux
	handler = methodOverride(handler)
	handler = auth.Middleware(deps.Sessions, deps.Secret)(handler)
	handler = withRecover(handler)
	handler = withLogging(handler)
	return handler
}
