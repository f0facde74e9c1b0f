package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zebmuhammad/Student-Management-System/httpx"
	"github.com/zebmuhammad/Student-Management-System/internal/models"
	"github.com/zebmuhammad/Student-Management-System/internal/store"
	"github.com/zebmuhammad/Student-Management-System/validation"
	"golang.org/x/sync/errgroup"
)

type StudentHandler struct {
	Students store.StudentStore
}

func NewStudentHandler(students store.StudentStore) *StudentHandler {
	return &StudentHandler{Students: students}
}

// studentConflict maps a duplicate field to the message shown on the form.
func studentConflict(field string) validation.Errors {
	msg := "A student with this roll number already exists"
	if field == "email" {
		msg = "A student with this email already exists"
	}
	var errs validation.Errors
	errs.Add(field, msg)
	return errs
}

// List renders the paginated, filterable student index. Count and page are
// fetched concurrently; they may drift under concurrent writes, which is
// acceptable for a list view.
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := store.ParseStudentQuery(r.URL.Query())

	var (
		students []models.Student
		total    int64
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		total, err = h.Students.Count(ctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		students, err = h.Students.FindMany(ctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		fail(w, r, err)
		return
	}

	page := q.Paginate(total)
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"items":      students,
			"page":       page.Page,
			"limit":      page.Limit,
			"total":      page.Total,
			"totalPages": page.TotalPages,
		})
		return
	}
	render(w, r, "students/index.html", http.StatusOK, map[string]any{
		"Students":   students,
		"Pagination": page,
		"Query":      q,
		"BaseQuery":  listBaseQuery(q),
		"Flash":      flash(r),
	})
}

// listBaseQuery rebuilds the filter portion of the query string so pager
// links keep the current filters.
func listBaseQuery(q store.StudentQuery) string {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if q.Department != "" {
		v.Set("department", q.Department)
	}
	if s := q.MinGPAString(); s != "" {
		v.Set("minGpa", s)
	}
	if s := q.MaxGPAString(); s != "" {
		v.Set("maxGpa", s)
	}
	v.Set("sortBy", q.SortBy)
	v.Set("order", q.Order)
	return v.Encode()
}

// New renders the blank creation form.
func (h *StudentHandler) New(w http.ResponseWriter, r *http.Request) {
	render(w, r, "students/form.html", http.StatusOK, map[string]any{
		"Title":       "Add Student",
		"Action":      "/students",
		"Input":       validation.StudentInput{},
		"Departments": validation.Departments,
	})
}

func trimFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func studentInput(r *http.Request) validation.StudentInput {
	return validation.StudentInput{
		Name:             r.FormValue("name"),
		RollNumber:       r.FormValue("rollNumber"),
		Email:            r.FormValue("email"),
		Department:       r.FormValue("department"),
		CustomDepartment: r.FormValue("customDepartment"),
		GPA:              r.FormValue("gpa"),
	}
}

// renderForm re-presents the form with the original submitted values.
func (h *StudentHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, title, action string, in validation.StudentInput, errs validation.Errors) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, "validation_failed", errs)
		return
	}
	render(w, r, "students/form.html", status, map[string]any{
		"Title":       title,
		"Action":      action,
		"Input":       in,
		"Errors":      errs,
		"Departments": validation.Departments,
	})
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	in := studentInput(r)
	fields, errs := validation.ValidateStudent(in)
	if !errs.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "Add Student", "/students", in, errs)
		return
	}
	s := models.Student{
		Name:       fields.Name,
		RollNumber: fields.RollNumber,
		Email:      fields.Email,
		Department: fields.Department,
		GPA:        fields.GPA,
	}
	if err := h.Students.Create(r.Context(), &s); err != nil {
		if field, ok := store.DuplicateField(err); ok {
			h.renderForm(w, r, http.StatusConflict, "Add Student", "/students", in, studentConflict(field))
			return
		}
		if violations, ok := schemaViolations(err); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, "Add Student", "/students", in, violations)
			return
		}
		fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/students/"+s.ID.Hex()+"?msg=created", http.StatusSeeOther)
}

// Show renders the detail view. Malformed ids 404 without a store call.
func (h *StudentHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !store.ValidID(id) {
		notFound(w, r)
		return
	}
	s, err := h.Students.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, r)
			return
		}
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, s)
		return
	}
	render(w, r, "students/show.html", http.StatusOK, map[string]any{
		"Student": s,
		"Flash":   flash(r),
	})
}

// Edit renders the form pre-filled from the stored record.
func (h *StudentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !store.ValidID(id) {
		notFound(w, r)
		return
	}
	s, err := h.Students.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, r)
			return
		}
		fail(w, r, err)
		return
	}
	in := validation.StudentInput{
		Name:       s.Name,
		RollNumber: s.RollNumber,
		Email:      s.Email,
		Department: s.Department,
		GPA:        trimFloat(s.GPA),
	}
	// A department outside the preset list was stored through the custom
	// sentinel; reselect it so the form can represent the stored value.
	if !validation.PresetDepartment(s.Department) {
		in.Department = validation.CustomDepartment
		in.CustomDepartment = s.Department
	}
	render(w, r, "students/form.html", http.StatusOK, map[string]any{
		"Title":       "Edit Student",
		"Action":      "/students/" + id,
		"Update":      true,
		"Input":       in,
		"Departments": validation.Departments,
	})
}

// Update is a full replace; every field is re-validated.
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !store.ValidID(id) {
		notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	in := studentInput(r)
	action := "/students/" + id
	fields, errs := validation.ValidateStudent(in)
	if !errs.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "Edit Student", action, in, errs)
		return
	}
	s := models.Student{
		Name:       fields.Name,
		RollNumber: fields.RollNumber,
		Email:      fields.Email,
		Department: fields.Department,
		GPA:        fields.GPA,
	}
	if err := h.Students.UpdateByID(r.Context(), id, &s); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, r)
			return
		}
		if field, ok := store.DuplicateField(err); ok {
			h.renderForm(w, r, http.StatusConflict, "Edit Student", action, in, studentConflict(field))
			return
		}
		if violations, ok := schemaViolations(err); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, "Edit Student", action, in, violations)
			return
		}
		fail(w, r, err)
		return
	}
	http.Redirect(w, r, action+"?msg=updated", http.StatusSeeOther)
}

// Delete is idempotent from the caller's perspective: absent records still
// redirect with the success indicator.
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Students.DeleteByID(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/students?msg=deleted", http.StatusSeeOther)
}
