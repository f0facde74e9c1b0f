package validation

import "strings"

// SignupInput holds the raw signup form values.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// SignupFields is the normalized result of a valid signup submission. The
// password is carried as submitted; hashing happens at the store boundary.
type SignupFields struct {
	Username string
	Email    string
	Password string
}

func ValidateSignup(in SignupInput) (SignupFields, Errors) {
	var errs Errors
	var out SignupFields

	username := strings.TrimSpace(in.Username)
	if required("username", username, "Username", &errs) {
		if lengthBetween("username", username, "Username", 3, 30, &errs) {
			if !usernameRe.MatchString(username) {
				errs.Add("username", "Username may only contain letters, numbers, and underscores")
			}
		}
	}
	out.Username = username

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if required("email", email, "Email", &errs) {
		validEmail("email", email, &errs)
	}
	out.Email = email

	if in.Password == "" {
		errs.Add("password", "Password is required")
	} else if len(in.Password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	}
	if in.ConfirmPassword != in.Password {
		errs.Add("confirmPassword", "Passwords do not match")
	}
	out.Password = in.Password

	return out, errs
}

// LoginInput holds the raw login form values.
type LoginInput struct {
	Email    string
	Password string
}

type LoginFields struct {
	Email    string
	Password string
}

func ValidateLogin(in LoginInput) (LoginFields, Errors) {
	var errs Errors
	var out LoginFields

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if required("email", email, "Email", &errs) {
		validEmail("email", email, &errs)
	}
	out.Email = email

	if in.Password == "" {
		errs.Add("password", "Password is required")
	}
	out.Password = in.Password

	return out, errs
}
