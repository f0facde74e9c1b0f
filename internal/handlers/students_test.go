package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/zebmuhammad/Student-Management-System/internal/models"
	"github.com/zebmuhammad/Student-Management-System/internal/store"
	"github.com/zebmuhammad/Student-Management-System/validation"
)

func postForm(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func studentForm() url.Values {
	return url.Values{
		"name":       {"Ada Lovelace"},
		"rollNumber": {"cs-101"},
		"email":      {"Ada@Example.com"},
		"department": {"Computer Science"},
		"gpa":        {"3.5"},
	}
}

func TestStudentCreateRedirectsToDetail(t *testing.T) {
	st := store.NewMemoryStudentStore()
	h := NewStudentHandler(st)

	w := httptest.NewRecorder()
	h.Create(w, postForm("/students", studentForm()))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d body=%s", w.Code, w.Body.String())
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/students/") || !strings.HasSuffix(loc, "?msg=created") {
		t.Fatalf("unexpected redirect target: %s", loc)
	}

	id := strings.TrimSuffix(strings.TrimPrefix(loc, "/students/"), "?msg=created")
	got, err := st.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("created record not found: %v", err)
	}
	if got.RollNumber != "CS-101" || got.Email != "ada@example.com" {
		t.Fatalf("normalization not applied: %+v", got)
	}
}

func TestStudentCreateCustomDepartment(t *testing.T) {
	st := store.NewMemoryStudentStore()
	h := NewStudentHandler(st)

	form := studentForm()
	form.Set("department", "custom")
	form.Set("customDepartment", "Physics")
	w := httptest.NewRecorder()
	h.Create(w, postForm("/students", form))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d body=%s", w.Code, w.Body.String())
	}

	q := store.ParseStudentQuery(url.Values{})
	students, err := st.FindMany(context.Background(), q)
	if err != nil || len(students) != 1 {
		t.Fatalf("expected 1 student, got %d (%v)", len(students), err)
	}
	if students[0].Department != "Physics" {
		t.Fatalf(`expected department "Physics", got %q`, students[0].Department)
	}
}

func TestStudentEditPrefillsCustomDepartment(t *testing.T) {
	st := store.NewMemoryStudentStore()
	h := NewStudentHandler(st)

	s := &models.Student{Name: "Ada Lovelace", RollNumber: "CS-101", Email: "ada@example.com", Department: "History", GPA: 3.5}
	if err := st.Create(context.Background(), s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	id := s.ID.Hex()

	r := httptest.NewRequest(http.MethodGet, "/students/"+id+"/edit", nil)
	r.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.Edit(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `value="custom" selected`) {
		t.Fatalf("expected the custom option to be selected: %s", body)
	}
	if !strings.Contains(body, `value="History"`) {
		t.Fatalf("expected the stored department in the custom input: %s", body)
	}

	// Saving the prefilled form keeps the department intact.
	form := studentForm()
	form.Set("department", "custom")
	form.Set("customDepartment", "History")
	ur := postForm("/students/"+id, form)
	ur.Method = http.MethodPut
	ur.SetPathValue("id", id)
	w = httptest.NewRecorder()
	h.Update(w, ur)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("update: expected 303, got %d body=%s", w.Code, w.Body.String())
	}
	got, err := st.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("findById: %v", err)
	}
	if got.Department != "History" {
		t.Fatalf(`expected department "History" after save, got %q`, got.Department)
	}
}

func TestStudentEditPrefillsPresetDepartment(t *testing.T) {
	st := store.NewMemoryStudentStore()
	h := NewStudentHandler(st)

	s := &models.Student{Name: "Ada Lovelace", RollNumber: "CS-101", Email: "ada@example.com", Department: "Mathematics", GPA: 3.5}
	if err := st.Create(context.Background(), s); err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/students/"+s.ID.Hex()+"/edit", nil)
	r.SetPathValue("id", s.ID.Hex())
	w := httptest.NewRecorder()
	h.Edit(w, r)
	body := w.Body.String()
	if !strings.Contains(body, `value="Mathematics" selected`) {
		t.Fatalf("expected the preset option to be selected: %s", body)
	}
	if strings.Contains(body, `value="custom" selected`) {
		t.Fatalf("custom option must not be selected for a preset department: %s", body)
	}
}

// schemaFailStore forces a store-boundary schema failure that the handler's
// own validation pass cannot produce.
type schemaFailStore struct {
	store.StudentStore
}

func (schemaFailStore) Create(context.Context, *models.Student) error {
	var errs validation.Errors
	errs.Add("gpa", "GPA must be between 0.0 and 4.0")
	return &store.SchemaError{Violations: errs}
}

func TestStudentCreateSchemaFailureShowsViolations(t *testing.T) {
	h := NewStudentHandler(schemaFailStore{store.NewMemoryStudentStore()})

	w := httptest.NewRecorder()
	h.Create(w, postForm("/students", studentForm()))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "GPA must be between 0.0 and 4.0") {
		t.Fatalf("expected the schema violation on the form: %s", w.Body.String())
	}
}

func TestStudentCreateValidationFailure(t *testing.T) {
	st := store.NewMemoryStudentStore()
	h := NewStudentHandler(st)

	form := studentForm()
	form.Set("gpa", "4.5")
	w := httptest.NewRecorder()
	h.Create(w, postForm("/students", form))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "GPA must be between 0.0 and 4.0") {
		t.Fatalf("expected gpa error in body: %s", body)
	}
	// Original submitted value is echoed back.
	if !strings.Contains(body, `value="4.5"`) {
		t.Fatalf("expected submitted gpa echoed in form: %s", body)
	}
}

func TestStudentCreateConflict(t *testing.T) {
	st := store.NewMemoryStudentStore()
	h := NewStudentHandler(st)

	w := httptest.NewRecorder()
	h.Create(w, postForm("/students", studentForm()))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("seed create failed: %d", w.Code)
	}

	form := studentForm()
	form.Set("email", "other@example.com")
	form.Set("rollNumber", "CS-101") // same roll, different case on first insert
	w = httptest.NewRecorder()
	h.Create(w, postForm("/students", form))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "A student with this roll number already exists") {
		t.Fatalf("expected conflict message in body: %s", w.Body.String())
	}
}

func TestStudentShowNotFound(t *testing.T) {
	h := NewStudentHandler(store.NewMemoryStudentStore())

	// Malformed id: 404 without touching the store.
	r := httptest.NewRequest(http.MethodGet, "/students/oops", nil)
	r.SetPathValue("id", "oops")
	w := httptest.NewRecorder()
	h.Show(w, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("malformed id: expected 404, got %d", w.Code)
	}

	// Well-formed but absent id.
	r = httptest.NewRequest(http.MethodGet, "/students/ffffffffffffffffffffffff", nil)
	r.SetPathValue("id", "ffffffffffffffffffffffff")
	w = httptest.NewRecorder()
	h.Show(w, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("absent id: expected 404, got %d", w.Code)
	}
}

func TestStudentUpdate(t *testing.T) {
	st := store.NewMemoryStudentStore()
	h := NewStudentHandler(st)

	s := &models.Student{Name: "Ada Lovelace", RollNumber: "CS-101", Email: "ada@example.com", Department: "Mathematics", GPA: 3.5}
	if err := st.Create(context.Background(), s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	id := s.ID.Hex()

	form := studentForm()
	form.Set("name", "Ada King")
	form.Set("gpa", "4")
	r := postForm("/students/"+id, form)
	r.Method = http.MethodPut
	r.SetPathValue("id", id)
	w := httptest.NewRecorder()
	h.Update(w, r)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/students/"+id+"?msg=updated" {
		t.Fatalf("unexpected redirect: %s", loc)
	}

	got, err := st.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("findById: %v", err)
	}
	if got.Name != "Ada King" || got.GPA != 4 {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestStudentUpdateNotFound(t *testing.T) {
	h := NewStudentHandler(store.NewMemoryStudentStore())
	r := postForm("/students/ffffffffffffffffffffffff", studentForm())
	r.Method = http.MethodPut
	r.SetPathValue("id", "ffffffffffffffffffffffff")
	w := httptest.NewRecorder()
	h.Update(w, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestStudentDeleteIdempotentRedirect(t *testing.T) {
	st := store.NewMemoryStudentStore()
	h := NewStudentHandler(st)

	s := &models.Student{Name: "Ada Lovelace", RollNumber: "CS-101", Email: "ada@example.com", Department: "Mathematics", GPA: 3.5}
	if err := st.Create(context.Background(), s); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for _, id := range []string{s.ID.Hex(), s.ID.Hex(), "ffffffffffffffffffffffff"} {
		r := httptest.NewRequest(http.MethodDelete, "/students/"+id, nil)
		r.SetPathValue("id", id)
		w := httptest.NewRecorder()
		h.Delete(w, r)
		if w.Code != http.StatusSeeOther {
			t.Fatalf("delete %s: expected 303, got %d", id, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/students?msg=deleted" {
			t.Fatalf("delete %s: unexpected redirect %s", id, loc)
		}
	}
}

func TestStudentListJSON(t *testing.T) {
	st := store.NewMemoryStudentStore()
	h := NewStudentHandler(st)
	for _, s := range []*models.Student{
		{Name: "Ada Lovelace", RollNumber: "CS-1", Email: "ada@example.com", Department: "Mathematics", GPA: 4.0},
		{Name: "Grace Hopper", RollNumber: "CS-2", Email: "grace@example.com", Department: "Computer Science", GPA: 3.7},
		{Name: "Alan Turing", RollNumber: "CS-3", Email: "alan@example.com", Department: "Mathematics", GPA: 3.2},
	} {
		if err := st.Create(context.Background(), s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/students?limit=2&sortBy=name&order=asc", nil)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	h.List(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload struct {
		Items      []models.Student `json:"items"`
		Total      int64            `json:"total"`
		TotalPages int              `json:"totalPages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != 3 || payload.TotalPages != 2 {
		t.Fatalf("expected total=3 totalPages=2, got %+v", payload)
	}
	if len(payload.Items) != 2 || payload.Items[0].Name != "Ada Lovelace" {
		t.Fatalf("unexpected page: %+v", payload.Items)
	}
}
