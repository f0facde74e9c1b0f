package validation

import "testing"

func TestValidateSignup(t *testing.T) {
	in := SignupInput{
		Username:        " jsmith_1 ",
		Email:           " JSmith@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
	fields, errs := ValidateSignup(in)
	if !errs.Empty() {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if fields.Username != "jsmith_1" {
		t.Errorf("username not trimmed: %q", fields.Username)
	}
	if fields.Email != "jsmith@example.com" {
		t.Errorf("email not normalized: %q", fields.Email)
	}
}

func TestValidateSignupUsernameRules(t *testing.T) {
	cases := []struct {
		username string
		ok       bool
	}{
		{"ab", false},
		{"abc", true},
		{"a_b_c", true},
		{"user-name", false},
		{"user name", false},
		{"abcdefghijklmnopqrstuvwxyz12345", false}, // 31 chars
	}
	for _, tc := range cases {
		in := SignupInput{Username: tc.username, Email: "a@b.com", Password: "secret1", ConfirmPassword: "secret1"}
		_, errs := ValidateSignup(in)
		if tc.ok != errs.Empty() {
			t.Errorf("username=%q: ok=%v, errs=%v", tc.username, tc.ok, errs)
		}
	}
}

func TestValidateSignupPassword(t *testing.T) {
	in := SignupInput{Username: "jsmith", Email: "a@b.com", Password: "short", ConfirmPassword: "short"}
	if _, errs := ValidateSignup(in); !errs.Has("password") {
		t.Fatal("expected password length error")
	}

	in = SignupInput{Username: "jsmith", Email: "a@b.com", Password: "secret1", ConfirmPassword: "secret2"}
	if _, errs := ValidateSignup(in); !errs.Has("confirmPassword") {
		t.Fatal("expected confirm mismatch error")
	}
}

func TestValidateLogin(t *testing.T) {
	if _, errs := ValidateLogin(LoginInput{Email: "A@B.com", Password: "x"}); !errs.Empty() {
		t.Fatalf("expected valid login input, got %v", errs)
	}
	fields, _ := ValidateLogin(LoginInput{Email: " A@B.com ", Password: "x"})
	if fields.Email != "a@b.com" {
		t.Errorf("email not normalized: %q", fields.Email)
	}
	if _, errs := ValidateLogin(LoginInput{Email: "bad", Password: "x"}); !errs.Has("email") {
		t.Fatal("expected email error")
	}
	if _, errs := ValidateLogin(LoginInput{Email: "a@b.com"}); !errs.Has("password") {
		t.Fatal("expected password required error")
	}
}
