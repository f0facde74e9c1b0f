package store

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	DefaultSort  = "createdAt"
)

// sortable is the allow-list of sort keys. Anything else falls back to
// createdAt silently.
var sortable = map[string]bool{
	"name":       true,
	"rollNumber": true,
	"email":      true,
	"department": true,
	"gpa":        true,
	"createdAt":  true,
}

// StudentQuery is the parsed and normalized list-view query: filter, sort,
// and pagination in one place. Build it with ParseStudentQuery.
type StudentQuery struct {
	Page       int
	Limit      int
	Q          string
	Department string
	MinGPA     *float64
	MaxGPA     *float64
	SortBy     string
	Order      string // "asc" or "desc"
}

// ParseStudentQuery turns raw request parameters into a StudentQuery,
// applying defaults, clamps, and the sort allow-list.
func ParseStudentQuery(values url.Values) StudentQuery {
	q := StudentQuery{
		Page:   DefaultPage,
		Limit:  DefaultLimit,
		SortBy: DefaultSort,
		Order:  "desc",
	}
	if n, err := strconv.Atoi(values.Get("page")); err == nil && n > 1 {
		q.Page = n
	}
	if n, err := strconv.Atoi(values.Get("limit")); err == nil {
		switch {
		case n < 1:
			q.Limit = 1
		case n > MaxLimit:
			q.Limit = MaxLimit
		default:
			q.Limit = n
		}
	}
	q.Q = strings.TrimSpace(values.Get("q"))
	q.Department = strings.TrimSpace(values.Get("department"))
	if f, err := strconv.ParseFloat(strings.TrimSpace(values.Get("minGpa")), 64); err == nil {
		q.MinGPA = &f
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(values.Get("maxGpa")), 64); err == nil {
		q.MaxGPA = &f
	}
	if s := values.Get("sortBy"); sortable[s] {
		q.SortBy = s
	}
	if values.Get("order") == "asc" {
		q.Order = "asc"
	}
	return q
}

// MinGPAString echoes the lower gpa bound for form re-rendering ("" if unset).
func (q StudentQuery) MinGPAString() string {
	if q.MinGPA == nil {
		return ""
	}
	return strconv.FormatFloat(*q.MinGPA, 'f', -1, 64)
}

// MaxGPAString echoes the upper gpa bound for form re-rendering ("" if unset).
func (q StudentQuery) MaxGPAString() string {
	if q.MaxGPA == nil {
		return ""
	}
	return strconv.FormatFloat(*q.MaxGPA, 'f', -1, 64)
}

// Skip returns the pagination offset.
func (q StudentQuery) Skip() int64 { return int64(q.Page-1) * int64(q.Limit) }

// Ascending reports the sort direction.
func (q StudentQuery) Ascending() bool { return q.Order == "asc" }

// Pagination is the page metadata handed to the list view.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// Paginate computes the metadata for a total match count. TotalPages is at
// least 1 so the pager always renders.
func (q StudentQuery) Paginate(total int64) Pagination {
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	if pages < 1 {
		pages = 1
	}
	return Pagination{Page: q.Page, Limit: q.Limit, Total: total, TotalPages: pages}
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p Pagination) Prev() int     { return p.Page - 1 }
func (p Pagination) Next() int     { return p.Page + 1 }
