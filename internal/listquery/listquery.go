// Package listquery keeps the state of a listing screen (search text, page, page size,
// sort, date range and named filters) in a URL query string.
//
// The query string is the single source of truth: State is derived from it with Read and
// changed only through a Writer, which merges its keys into the current query and hands the
// result to a Location in one navigation. Every key can carry a prefix so several
// independent listings can share one URL.
package listquery

import (
	"encoding/json"
	"math"
	"strings"
)

// Canonical query keys. The prefix of a State or Writer is prepended to each of them.
const (
	KeySearch    = "searchValue"
	KeyPage      = "page"
	KeyLimit     = "limit"
	KeyStartDate = "startDate"
	KeyEndDate   = "endDate"
	KeySort      = "sort"
)

// Keys used only by the request contract sent to list endpoints.
const (
	KeySearchIn = "searchIn"
	KeyFilterBy = "filterBy"
)

const (
	DefaultPage     = 1
	DefaultLimit    = 10
	DefaultMaxLimit = 100

	// DateLayout is the yyyy-MM-dd layout used for startDate and endDate.
	DateLayout = "2006-01-02"
)

var canonicalKeys = []string{KeySearch, KeyPage, KeyLimit, KeyStartDate, KeyEndDate, KeySort}

func isCanonical(key string) bool {
	for _, k := range canonicalKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Direction represents sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is a column sort, encoded in the URL as "field:direction".
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

func (s Sort) String() string {
	return s.Field + ":" + string(s.Direction)
}

// parseSort returns nil for anything that is not "field:asc" or "field:desc".
func parseSort(s string) *Sort {
	field, dir, ok := strings.Cut(s, ":")
	if !ok || field == "" {
		return nil
	}

	direction := Direction(strings.ToLower(dir))
	if direction != Asc && direction != Desc {
		return nil
	}

	return &Sort{Field: field, Direction: direction}
}

// DateFilter holds the optional, independent bounds of a date range.
type DateFilter struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (d DateFilter) IsZero() bool {
	return d.StartDate == "" && d.EndDate == ""
}

// FilterValue is the value of a named filter. Single values encode to JSON as a bare
// string, several values as an array.
type FilterValue []string

func (v FilterValue) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return json.Marshal(v[0])
	}
	if v == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(v))
}

func (v *FilterValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*v = nil
			return nil
		}
		*v = FilterValue{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*v = FilterValue(nonEmpty(many))
	return nil
}

// AppliedFilter is one tracked filter with a non-empty value.
type AppliedFilter struct {
	FieldName string      `json:"fieldName"`
	Value     FilterValue `json:"value"`
}

// State is the list-view state derived from a query string.
type State struct {
	Prefix         string
	SearchQuery    string
	Page           int
	Limit          int
	DateFilter     DateFilter
	Sort           *Sort
	AppliedFilters []AppliedFilter
}

// Filter returns the value of a tracked filter, if it was applied.
func (s State) Filter(fieldName string) (FilterValue, bool) {
	for _, f := range s.AppliedFilters {
		if f.FieldName == fieldName {
			return f.Value, true
		}
	}
	return nil, false
}

// Offset is the number of rows before the current page.
func (s State) Offset() int {
	return offset(s.Page, s.Limit)
}

// offset is (page-1)*limit, saturated at math.MaxInt so a page far past the end stays
// past the end.
func offset(page, limit int) int {
	skipped := atLeast(page, DefaultPage) - 1
	if limit <= 0 {
		return 0
	}
	if skipped > math.MaxInt/limit {
		return math.MaxInt
	}
	return skipped * limit
}

func nonEmpty(values []string) []string {
	var result []string
	for _, v := range values {
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
