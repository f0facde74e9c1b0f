package handlers

import (
	"net/http"

	"github.com/zebmuhammad/Student-Management-System/httpx"
	"github.com/zebmuhammad/Student-Management-System/internal/store"
)

type DashboardHandler struct {
	Students store.StudentStore
}

func NewDashboardHandler(students store.StudentStore) *DashboardHandler {
	return &DashboardHandler{Students: students}
}

// Home renders the dashboard: total students, top-5 departments, average GPA.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Students.Stats(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"totalStudents":  stats.TotalStudents,
			"topDepartments": stats.TopDepartments,
			"averageGpa":     stats.AverageGPA,
		})
		return
	}
	render(w, r, "dashboard.html", http.StatusOK, map[string]any{
		"Stats": stats,
		"Flash": flash(r),
	})
}
