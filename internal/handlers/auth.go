package handlers

import (
	"errors"
	"net/http"

	"github.com/zebmuhammad/Student-Management-System/auth"
	"github.com/zebmuhammad/Student-Management-System/httpx"
	"github.com/zebmuhammad/Student-Management-System/internal/logger"
	"github.com/zebmuhammad/Student-Management-System/internal/models"
	"github.com/zebmuhammad/Student-Management-System/internal/session"
	"github.com/zebmuhammad/Student-Management-System/internal/store"
	"github.com/zebmuhammad/Student-Management-System/validation"
)

// invalidCredentials is shared by the unknown-email and wrong-password paths
// so the response cannot be used to enumerate accounts.
const invalidCredentials = "Invalid email or password"

// accountDeactivated is distinct from invalidCredentials so a locked-out
// user knows why the login failed.
const accountDeactivated = "Your account has been deactivated"

type AuthHandler struct {
	Users    store.UserStore
	Sessions session.Store
	Secret   string
}

func NewAuthHandler(users store.UserStore, sessions session.Store, secret string) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions, Secret: secret}
}

// userConflict maps a duplicate field to the signup form message.
func userConflict(field string) validation.Errors {
	msg := "Username is already taken"
	if field == "email" {
		msg = "This email is already registered"
	}
	var errs validation.Errors
	errs.Add(field, msg)
	return errs
}

func (h *AuthHandler) ShowSignup(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.SessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, "signup.html", http.StatusOK, map[string]any{
		"Input": validation.SignupInput{},
	})
}

func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, status int, in validation.SignupInput, errs validation.Errors) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, "signup_failed", errs)
		return
	}
	// Passwords are never echoed back.
	in.Password = ""
	in.ConfirmPassword = ""
	render(w, r, "signup.html", status, map[string]any{"Input": in, "Errors": errs})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	in := validation.SignupInput{
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
	}
	fields, errs := validation.ValidateSignup(in)
	if !errs.Empty() {
		h.renderSignup(w, r, http.StatusUnprocessableEntity, in, errs)
		return
	}

	// One combined lookup covers both uniqueness fields.
	existing, err := h.Users.FindByUsernameOrEmail(r.Context(), fields.Username, fields.Email)
	if err == nil {
		field := "email"
		if existing.Username == fields.Username {
			field = "username"
		}
		h.renderSignup(w, r, http.StatusConflict, in, userConflict(field))
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		fail(w, r, err)
		return
	}

	u := models.User{Username: fields.Username, Email: fields.Email, Password: fields.Password}
	if err := h.Users.Create(r.Context(), &u); err != nil {
		// A concurrent signup can still hit the unique index.
		if field, ok := store.DuplicateField(err); ok {
			h.renderSignup(w, r, http.StatusConflict, in, userConflict(field))
			return
		}
		fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/login?msg=signup_success", http.StatusSeeOther)
}

func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.SessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, "login.html", http.StatusOK, map[string]any{
		"Input": validation.LoginInput{},
		"Flash": flash(r),
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, in validation.LoginInput, errs validation.Errors, message string) {
	if httpx.WantsJSON(r) {
		detail := any(errs)
		if message != "" {
			detail = message
		}
		httpx.JSONError(w, status, "login_failed", detail)
		return
	}
	in.Password = ""
	render(w, r, "login.html", status, map[string]any{"Input": in, "Errors": errs, "Error": message})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	in := validation.LoginInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	fields, errs := validation.ValidateLogin(in)
	if !errs.Empty() {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, in, errs, "")
		return
	}

	user, err := h.Users.FindByEmail(r.Context(), fields.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.renderLogin(w, r, http.StatusUnauthorized, in, nil, invalidCredentials)
			return
		}
		fail(w, r, err)
		return
	}
	if !user.IsActive {
		h.renderLogin(w, r, http.StatusUnauthorized, in, nil, accountDeactivated)
		return
	}
	if !auth.CheckPassword(user.Password, fields.Password) {
		h.renderLogin(w, r, http.StatusUnauthorized, in, nil, invalidCredentials)
		return
	}

	id, err := h.Sessions.Create(r.Context(), session.Data{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	auth.SetSessionCookie(w, id, h.Secret)
	http.Redirect(w, r, "/?msg=login_success", http.StatusSeeOther)
}

// Logout destroys the session unconditionally. Destroy errors are logged,
// never surfaced; the redirect happens either way.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := auth.SessionID(r.Context()); id != "" {
		if err := h.Sessions.Destroy(r.Context(), id); err != nil {
			logger.Error().Err(err).Msg("session destroy failed")
		}
	}
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/?msg=logout_success", http.StatusSeeOther)
}
