// Package auth handles the session cookie and password hashing. The cookie
// carries an opaque session id signed with HMAC-SHA256; the session data
// itself lives server-side in a session.Store.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zebmuhammad/Student-Management-System/internal/session"
)

type ctxKey string

const (
	sessionCookieName = "session"
	sessionCtxKey     = ctxKey("session")
)

func sign(id, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// SetSessionCookie writes a signed cookie holding the session id.
func SetSessionCookie(w http.ResponseWriter, id, secret string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id + "." + sign(id, secret),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(session.TTL),
	})
}

// ClearSessionCookie deletes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSessionCookie validates the cookie signature and returns the session id.
func ParseSessionCookie(r *http.Request, secret string) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return "", false
	}
	id, sig := parts[0], parts[1]
	if !hmac.Equal([]byte(sig), []byte(sign(id, secret))) {
		return "", false
	}
	return id, true
}

// WithSession stores session data in context.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, sessionCtxKey, data)
}

// SessionFromContext extracts session data placed by Middleware.
func SessionFromContext(ctx context.Context) (*session.Data, bool) {
	data, ok := ctx.Value(sessionCtxKey).(*session.Data)
	return data, ok && data != nil
}

// SessionID extracts the raw session id placed by Middleware (used by logout).
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey("sessionID")).(string)
	return id
}

// Middleware resolves the session cookie against the store and attaches the
// session data to the request context. Invalid, unknown, or expired sessions
// just leave the request anonymous.
func Middleware(sessions session.Store, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := ParseSessionCookie(r, secret); ok {
				if data, err := sessions.Get(r.Context(), id); err == nil {
					ctx := WithSession(r.Context(), data)
					ctx = context.WithValue(ctx, ctxKey("sessionID"), id)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects to /login if not authenticated (HTML) or returns 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			accept := r.Header.Get("Accept")
			if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized"}`)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
