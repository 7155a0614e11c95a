package listquery

import (
	"net/url"
	"reflect"
	"testing"
)

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()

	q, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("failed to parse query %q: %v", raw, err)
	}
	return q
}

func TestReadDefaults(t *testing.T) {
	state := Read(url.Values{}, nil)

	if state.Page != DefaultPage {
		t.Errorf("expected page %d, got %d", DefaultPage, state.Page)
	}
	if state.Limit != DefaultLimit {
		t.Errorf("expected limit %d, got %d", DefaultLimit, state.Limit)
	}
	if state.SearchQuery != "" {
		t.Errorf("expected empty search, got %q", state.SearchQuery)
	}
	if !state.DateFilter.IsZero() {
		t.Errorf("expected empty date filter, got %+v", state.DateFilter)
	}
	if state.Sort != nil {
		t.Errorf("expected no sort, got %+v", state.Sort)
	}
	if len(state.AppliedFilters) != 0 {
		t.Errorf("expected no applied filters, got %+v", state.AppliedFilters)
	}
}

func TestReadNilQuery(t *testing.T) {
	state := Read(nil, []string{"outletId"})

	if state.Page != DefaultPage || state.Limit != DefaultLimit {
		t.Errorf("expected defaults, got page %d limit %d", state.Page, state.Limit)
	}
}

func TestReadDegradesInvalidNumbers(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{name: "valid", query: "page=3&limit=25", wantPage: 3, wantLimit: 25},
		{name: "non numeric", query: "page=abc&limit=xyz", wantPage: DefaultPage, wantLimit: DefaultLimit},
		{name: "zero", query: "page=0&limit=0", wantPage: DefaultPage, wantLimit: DefaultLimit},
		{name: "negative", query: "page=-2&limit=-10", wantPage: DefaultPage, wantLimit: DefaultLimit},
		{name: "decimal", query: "page=1.5&limit=2.5", wantPage: DefaultPage, wantLimit: DefaultLimit},
		{name: "empty", query: "page=&limit=", wantPage: DefaultPage, wantLimit: DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Read(mustParseQuery(t, tt.query), nil)

			if state.Page != tt.wantPage {
				t.Errorf("expected page %d, got %d", tt.wantPage, state.Page)
			}
			if state.Limit != tt.wantLimit {
				t.Errorf("expected limit %d, got %d", tt.wantLimit, state.Limit)
			}
		})
	}
}

func TestReadCustomDefaultLimit(t *testing.T) {
	state := Read(mustParseQuery(t, "limit=nope"), nil, WithDefaultLimit(50))
	if state.Limit != 50 {
		t.Errorf("expected limit 50, got %d", state.Limit)
	}

	state = Read(url.Values{}, nil, WithDefaultLimit(0))
	if state.Limit != DefaultLimit {
		t.Errorf("expected limit %d, got %d", DefaultLimit, state.Limit)
	}
}

func TestReadDates(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantStart string
		wantEnd   string
	}{
		{name: "both", query: "startDate=2024-01-01&endDate=2024-01-31", wantStart: "2024-01-01", wantEnd: "2024-01-31"},
		{name: "start only", query: "startDate=2024-02-01", wantStart: "2024-02-01"},
		{name: "end only", query: "endDate=2024-02-29", wantEnd: "2024-02-29"},
		{name: "malformed start", query: "startDate=01/02/2024&endDate=2024-01-31", wantEnd: "2024-01-31"},
		{name: "impossible date", query: "startDate=2024-02-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Read(mustParseQuery(t, tt.query), nil)

			if state.DateFilter.StartDate != tt.wantStart {
				t.Errorf("expected start %q, got %q", tt.wantStart, state.DateFilter.StartDate)
			}
			if state.DateFilter.EndDate != tt.wantEnd {
				t.Errorf("expected end %q, got %q", tt.wantEnd, state.DateFilter.EndDate)
			}
		})
	}
}

func TestReadSort(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  *Sort
	}{
		{name: "ascending", query: "sort=name:asc", want: &Sort{Field: "name", Direction: Asc}},
		{name: "descending upper case", query: "sort=createdAt:DESC", want: &Sort{Field: "createdAt", Direction: Desc}},
		{name: "missing direction", query: "sort=name"},
		{name: "unknown direction", query: "sort=name:up"},
		{name: "missing field", query: "sort=:asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Read(mustParseQuery(t, tt.query), nil)

			if !reflect.DeepEqual(state.Sort, tt.want) {
				t.Errorf("expected sort %+v, got %+v", tt.want, state.Sort)
			}
		})
	}
}

func TestReadTrackedFilters(t *testing.T) {
	q := mustParseQuery(t, "customerId=7&outletId=b&outletId=a&outletId=b&outletId=&unrelated=1")

	state := Read(q, []string{"outletId", "customerId", "productId", "outletId"})

	expected := []AppliedFilter{
		{FieldName: "outletId", Value: FilterValue{"b", "a", "b"}},
		{FieldName: "customerId", Value: FilterValue{"7"}},
	}

	if !reflect.DeepEqual(state.AppliedFilters, expected) {
		t.Errorf("expected %+v, got %+v", expected, state.AppliedFilters)
	}

	if _, ok := state.Filter("unrelated"); ok {
		t.Error("expected untracked key to be ignored")
	}
	if _, ok := state.Filter("productId"); ok {
		t.Error("expected absent tracked key to have no entry")
	}
}

func TestReadIgnoresCanonicalKeysAsFilters(t *testing.T) {
	state := Read(mustParseQuery(t, "page=2"), []string{"page"})

	if len(state.AppliedFilters) != 0 {
		t.Errorf("expected no applied filters, got %+v", state.AppliedFilters)
	}
}

func TestReadPrefixIsolation(t *testing.T) {
	q := mustParseQuery(t, "page=4&searchValue=root&a_page=2&a_searchValue=alpha&a_outletId=1&b_limit=30&outletId=9")

	plain := Read(q, []string{"outletId"})
	a := Read(q, []string{"outletId"}, WithPrefix("a_"))
	b := Read(q, []string{"outletId"}, WithPrefix("b_"))

	if plain.Page != 4 || plain.SearchQuery != "root" {
		t.Errorf("unexpected unprefixed state %+v", plain)
	}
	if value, _ := plain.Filter("outletId"); !reflect.DeepEqual(value, FilterValue{"9"}) {
		t.Errorf("expected unprefixed outletId [9], got %v", value)
	}

	if a.Page != 2 || a.SearchQuery != "alpha" || a.Limit != DefaultLimit {
		t.Errorf("unexpected a_ state %+v", a)
	}
	if value, _ := a.Filter("outletId"); !reflect.DeepEqual(value, FilterValue{"1"}) {
		t.Errorf("expected a_outletId [1], got %v", value)
	}

	if b.Page != DefaultPage || b.SearchQuery != "" || b.Limit != 30 {
		t.Errorf("unexpected b_ state %+v", b)
	}
	if len(b.AppliedFilters) != 0 {
		t.Errorf("expected no b_ filters, got %+v", b.AppliedFilters)
	}
	if b.Prefix != "b_" {
		t.Errorf("expected prefix %q, got %q", "b_", b.Prefix)
	}
}

func TestStateOffset(t *testing.T) {
	state := Read(mustParseQuery(t, "page=3&limit=20"), nil)

	if state.Offset() != 40 {
		t.Errorf("expected offset 40, got %d", state.Offset())
	}
}
