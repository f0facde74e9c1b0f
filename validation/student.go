package validation

import (
	"strconv"
	"strings"
)

// CustomDepartment is the sentinel department value signalling that the
// companion customDepartment field carries the real department name.
const CustomDepartment = "custom"

// Departments is the preset list offered by the student form. Anything else
// is entered through the CustomDepartment sentinel.
var Departments = []string{
	"Computer Science",
	"Electrical Engineering",
	"Mechanical Engineering",
	"Mathematics",
	"Physics",
	"Business Administration",
}

// PresetDepartment reports whether d is one of the form's preset options.
func PresetDepartment(d string) bool {
	for _, p := range Departments {
		if p == d {
			return true
		}
	}
	return false
}

// StudentInput holds the raw form values of a create/edit submission. Forms
// re-render these exact values on failure, never the normalized ones.
type StudentInput struct {
	Name             string
	RollNumber       string
	Email            string
	Department       string
	CustomDepartment string
	GPA              string
}

// StudentFields is the normalized, accepted result of a valid StudentInput:
// trimmed values, uppercased roll number, lowercased email, sentinel
// department resolved, GPA parsed.
type StudentFields struct {
	Name       string
	RollNumber string
	Email      string
	Department string
	GPA        float64
}

// ValidateStudent checks in against the student rule set. On success the
// returned Errors is empty and StudentFields carries the normalized values.
func ValidateStudent(in StudentInput) (StudentFields, Errors) {
	var errs Errors
	var out StudentFields

	name := strings.TrimSpace(in.Name)
	if required("name", name, "Name", &errs) {
		lengthBetween("name", name, "Name", 2, 100, &errs)
	}
	out.Name = name

	roll := strings.TrimSpace(in.RollNumber)
	if required("rollNumber", roll, "Roll number", &errs) {
		if !rollNumberRe.MatchString(roll) {
			errs.Add("rollNumber", "Roll number may only contain letters, numbers, and hyphens")
		}
	}
	out.RollNumber = strings.ToUpper(roll)

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if required("email", email, "Email", &errs) {
		validEmail("email", email, &errs)
	}
	out.Email = email

	dept := strings.TrimSpace(in.Department)
	if required("department", dept, "Department", &errs) {
		if len([]rune(dept)) > 100 {
			errs.Add("department", "Department must be at most 100 characters")
		}
	}
	if dept == CustomDepartment {
		custom := strings.TrimSpace(in.CustomDepartment)
		if required("customDepartment", custom, "Custom department", &errs) {
			lengthBetween("customDepartment", custom, "Custom department", 2, 100, &errs)
		}
		// The custom value becomes the effective department; the sentinel
		// itself is never persisted.
		dept = custom
	}
	out.Department = dept

	gpaStr := strings.TrimSpace(in.GPA)
	if required("gpa", gpaStr, "GPA", &errs) {
		gpa, err := strconv.ParseFloat(gpaStr, 64)
		switch {
		case err != nil:
			errs.Add("gpa", "GPA must be a number")
		case gpa < 0 || gpa > 4:
			errs.Add("gpa", "GPA must be between 0.0 and 4.0")
		default:
			out.GPA = gpa
		}
	}

	return out, errs
}
