package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Errors is an ordered list of field errors. Order follows rule declaration
// order so forms re-render messages deterministically.
type Errors []FieldError

func (e Errors) Empty() bool { return len(e) == 0 }

func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Has reports whether any error was recorded for field (used by templates to
// highlight inputs).
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Get returns the first message for field, or "".
func (e Errors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

var (
	rollNumberRe = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	usernameRe   = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Basic validators. Each records at most one error per call.

func required(field, value, label string, errs *Errors) bool {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, label+" is required")
		return false
	}
	return true
}

func lengthBetween(field, value, label string, minLen, maxLen int, errs *Errors) bool {
	n := len([]rune(value))
	if n < minLen || n > maxLen {
		errs.Add(field, label+" must be between "+strconv.Itoa(minLen)+" and "+strconv.Itoa(maxLen)+" characters")
		return false
	}
	return true
}

func validEmail(field, value string, errs *Errors) bool {
	if !emailRe.MatchString(value) {
		errs.Add(field, "Please enter a valid email address")
		return false
	}
	return true
}
