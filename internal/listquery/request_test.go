package listquery

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"testing"
)

func TestStateRequestValues(t *testing.T) {
	q := mustParseQuery(t, "searchValue=spa&page=2&limit=20&outletId=1&outletId=2&customerId=9&startDate=2024-01-01&sort=name:desc")
	state := Read(q, []string{"outletId", "customerId"})

	values := state.Request("name", "code").Values()

	expected := map[string]string{
		KeySearch:    "spa",
		KeyPage:      "2",
		KeyLimit:     "20",
		KeySearchIn:  `["name","code"]`,
		KeyFilterBy:  `[{"fieldName":"outletId","value":["1","2"]},{"fieldName":"customerId","value":"9"}]`,
		KeyStartDate: "2024-01-01",
		KeySort:      "name:desc",
	}

	for key, want := range expected {
		if got := values.Get(key); got != want {
			t.Errorf("expected %s=%q, got %q", key, want, got)
		}
	}
	if values.Has(KeyEndDate) {
		t.Errorf("expected no %s, got %q", KeyEndDate, values.Get(KeyEndDate))
	}
}

func TestParseRequestRoundTrip(t *testing.T) {
	original := Request{
		SearchValue: "gold",
		Page:        3,
		Limit:       25,
		SearchIn:    []string{"code"},
		FilterBy: []AppliedFilter{
			{FieldName: "outletId", Value: FilterValue{"4", "5"}},
			{FieldName: "status", Value: FilterValue{"active"}},
		},
		StartDate: "2024-05-01",
		EndDate:   "2024-05-31",
		Sort:      &Sort{Field: "issuedOn", Direction: Asc},
	}

	parsed := ParseRequest(original.Values(), DefaultMaxLimit)

	if !reflect.DeepEqual(parsed, original) {
		t.Errorf("expected %+v, got %+v", original, parsed)
	}
}

func TestParseRequestDegrades(t *testing.T) {
	q := mustParseQuery(t, `page=zero&limit=1000&searchIn=notjson&filterBy=[{"fieldName":"","value":"x"},{"fieldName":"status","value":""}]&startDate=yesterday`)

	req := ParseRequest(q, DefaultMaxLimit)

	if req.Page != DefaultPage {
		t.Errorf("expected page %d, got %d", DefaultPage, req.Page)
	}
	if req.Limit != DefaultMaxLimit {
		t.Errorf("expected limit capped at %d, got %d", DefaultMaxLimit, req.Limit)
	}
	if req.SearchIn != nil {
		t.Errorf("expected no searchIn, got %v", req.SearchIn)
	}
	if req.FilterBy != nil {
		t.Errorf("expected no filterBy, got %v", req.FilterBy)
	}
	if req.StartDate != "" {
		t.Errorf("expected no start date, got %q", req.StartDate)
	}
}

func TestOffsetSaturates(t *testing.T) {
	huge := strconv.Itoa(math.MaxInt / 5)

	tests := []struct {
		name  string
		page  int
		limit int
		want  int
	}{
		{"first page", 1, 10, 0},
		{"third page", 3, 25, 50},
		{"page below one", -4, 10, 0},
		{"no limit", 7, 0, 0},
		{"overflowing page", math.MaxInt / 5, 10, math.MaxInt},
		{"largest page", math.MaxInt, math.MaxInt, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Request{Page: tt.page, Limit: tt.limit}).Offset(); got != tt.want {
				t.Errorf("Request.Offset() = %d, want %d", got, tt.want)
			}
			if got := (State{Page: tt.page, Limit: tt.limit}).Offset(); got != tt.want {
				t.Errorf("State.Offset() = %d, want %d", got, tt.want)
			}
		})
	}

	req := ParseRequest(mustParseQuery(t, "page="+huge+"&limit=5"), DefaultMaxLimit)
	if req.Offset() < 0 {
		t.Errorf("expected a non-negative offset for page %s, got %d", huge, req.Offset())
	}
}

func TestParseRequestWithoutCap(t *testing.T) {
	req := ParseRequest(mustParseQuery(t, "limit=1000"), 0)

	if req.Limit != 1000 {
		t.Errorf("expected limit 1000, got %d", req.Limit)
	}
}

func TestFilterValueJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FilterValue
		wantErr bool
	}{
		{name: "string", input: `"a"`, want: FilterValue{"a"}},
		{name: "array", input: `["a","b"]`, want: FilterValue{"a", "b"}},
		{name: "array with empties", input: `["","b"]`, want: FilterValue{"b"}},
		{name: "empty string", input: `""`, want: nil},
		{name: "number", input: `1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FilterValue
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		limit     int
		wantPages int
	}{
		{name: "exact", total: 20, limit: 10, wantPages: 2},
		{name: "remainder", total: 21, limit: 10, wantPages: 3},
		{name: "empty", total: 0, limit: 10, wantPages: 0},
		{name: "no limit", total: 5, limit: 0, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage[string](nil, tt.total, tt.limit)

			if page.TotalPages != tt.wantPages {
				t.Errorf("expected %d pages, got %d", tt.wantPages, page.TotalPages)
			}
			if page.Data == nil {
				t.Error("expected non-nil data")
			}
		})
	}
}
