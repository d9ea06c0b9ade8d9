// Package listing holds the paged list engine every screen is built from:
// filter and pagination state, a controller that loads pages through an
// ordered chain of endpoints, and a mutator that patches loaded rows in place.
package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// Criteria is a screen's filter record. Values must omit every empty field.
type Criteria interface {
	Values() url.Values
}

type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// Pagination is the cursor part of a query. Page is always 0-based here.
type Pagination struct {
	Page    int
	Size    int
	SortBy  string
	SortDir SortDir
}

// ParamNames are the query parameter names one backend route expects.
type ParamNames struct {
	Page    string
	Size    string
	SortBy  string
	SortDir string
}

var (
	DefaultParamNames = ParamNames{Page: "page", Size: "size", SortBy: "sortBy", SortDir: "sortDir"}
	// AccountParamNames is used by /admin/accounts.
	AccountParamNames = ParamNames{Page: "page", Size: "size", SortBy: "sortBy", SortDir: "sortOrder"}
)

// State is the filter and cursor of one list. It is not safe for concurrent
// use on its own; Controller guards it.
type State[C Criteria] struct {
	Criteria   C
	Pagination Pagination
	Names      ParamNames

	defaults          C
	defaultPagination Pagination
}

// NewState starts from the screen defaults, which ClearFilters restores.
func NewState[C Criteria](defaults C, pagination Pagination, names ParamNames) *State[C] {
	if pagination.Size <= 0 {
		pagination.Size = 10
	}
	pagination.Page = 0
	if names == (ParamNames{}) {
		names = DefaultParamNames
	}
	return &State[C]{
		Criteria:          defaults,
		Pagination:        pagination,
		Names:             names,
		defaults:          defaults,
		defaultPagination: pagination,
	}
}

// ResetPage returns to the first page, keeping criteria and sort.
func (s *State[C]) ResetPage() {
	s.Pagination.Page = 0
}

// Clear restores the default criteria and cursor.
func (s *State[C]) Clear() {
	s.Criteria = s.defaults
	s.Pagination = s.defaultPagination
}

// SetPageSize changes the size and returns to the first page.
func (s *State[C]) SetPageSize(size int) bool {
	if size <= 0 {
		return false
	}
	s.Pagination.Size = size
	s.Pagination.Page = 0
	return true
}

// Sort sets the sort field; sorting by the current field again flips the
// direction.
func (s *State[C]) Sort(field string) {
	if s.Pagination.SortBy == field {
		if s.Pagination.SortDir == Asc {
			s.Pagination.SortDir = Desc
		} else {
			s.Pagination.SortDir = Asc
		}
	} else {
		s.Pagination.SortBy = field
		s.Pagination.SortDir = Asc
	}
	s.Pagination.Page = 0
}

// Query serialises criteria and cursor. Empty values are never emitted.
func (s *State[C]) Query() url.Values {
	q := s.Criteria.Values()
	if q == nil {
		q = url.Values{}
	}
	names := s.Names
	setParam(q, names.Page, strconv.Itoa(s.Pagination.Page))
	if s.Pagination.Size > 0 {
		setParam(q, names.Size, strconv.Itoa(s.Pagination.Size))
	}
	setParam(q, names.SortBy, s.Pagination.SortBy)
	setParam(q, names.SortDir, string(s.Pagination.SortDir))
	return q
}

func setParam(q url.Values, key, value string) {
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return
	}
	q.Set(key, value)
}
