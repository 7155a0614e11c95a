package router

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/GustavoCaso/spadesk/internal/resource"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

func insertGiftCards(t *testing.T, s storage.Storage, n int) {
	t.Helper()

	issued := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		_, err := s.GiftCards().Create(context.Background(), storage.GiftCard{
			Code:     fmt.Sprintf("CARD%04d", i),
			OutletID: 1,
			Amount:   1000,
			Balance:  1000,
			IssuedOn: issued.AddDate(0, 0, i),
			Status:   storage.GiftCardActive,
		})
		if err != nil {
			t.Fatalf("failed to create gift card: %v", err)
		}
	}
}

func TestHomeHandler(t *testing.T) {
	handler, s, _ := newTestHandler(t, testConfig())
	insertGiftCards(t, s, 12)

	w := serve(handler, http.MethodGet, "/?gift_card_page=2&inventory_page=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, expected := range []string{
		`id="gift-cards"`,
		`id="inventory"`,
		"Page 2 of 2",
		"No records found",
		`name="gift_card_searchValue"`,
		`name="inventory_searchValue"`,
	} {
		if !strings.Contains(body, expected) {
			t.Errorf("expected dashboard to contain %q", expected)
		}
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML content type, got %q", ct)
	}
}

func TestListingHandler(t *testing.T) {
	handler, s, _ := newTestHandler(t, testConfig())
	insertGiftCards(t, s, 3)

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		contains       []string
	}{
		{
			name:           "lists records",
			target:         "/gift-cards",
			expectedStatus: http.StatusOK,
			contains:       []string{"CARD0000", "CARD0002", "10.00", "Page 1 of 1"},
		},
		{
			name:           "search narrows the table",
			target:         "/gift-cards?searchValue=0001",
			expectedStatus: http.StatusOK,
			contains:       []string{"CARD0001", "(1)"},
		},
		{
			name:           "date range uses the issue date",
			target:         "/gift-cards?startDate=2024-01-02&endDate=2024-01-02",
			expectedStatus: http.StatusOK,
			contains:       []string{"CARD0001", "(1)"},
		},
		{
			name:           "empty entity",
			target:         "/measurement-units",
			expectedStatus: http.StatusOK,
			contains:       []string{"No records found"},
		},
		{
			name:           "unknown entity",
			target:         "/expenses",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler, http.MethodGet, tt.target, nil)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			for _, expected := range tt.contains {
				if !strings.Contains(w.Body.String(), expected) {
					t.Errorf("expected body to contain %q", expected)
				}
			}
		})
	}
}

func TestBuildListingLinks(t *testing.T) {
	_, s, router := newTestHandler(t, testConfig())
	insertGiftCards(t, s, 12)

	res, _ := resource.Lookup(router.resources, storage.GiftCardsEntity)
	u, err := url.Parse("/?gift_card_page=1&inventory_page=3&inventory_searchValue=oil")
	if err != nil {
		t.Fatal(err)
	}

	view := router.buildListing(context.Background(), u, res, giftCardPrefix)

	if view.TotalPages != 2 || len(view.Rows) != 10 {
		t.Fatalf("expected 10 rows of 2 pages, got %d rows of %d", len(view.Rows), view.TotalPages)
	}
	if view.PrevHref != "" {
		t.Errorf("expected no previous link on the first page, got %q", view.PrevHref)
	}
	if expected := "/?gift_card_page=2&inventory_page=3&inventory_searchValue=oil"; view.NextHref != expected {
		t.Errorf("expected next link %q, got %q", expected, view.NextHref)
	}
	if expected := "/?inventory_page=3&inventory_searchValue=oil"; view.ResetHref != expected {
		t.Errorf("expected reset link %q, got %q", expected, view.ResetHref)
	}

	var codeHref string
	for _, h := range view.Headers {
		if h.Title == "Code" {
			codeHref = h.Href
		}
	}
	if expected := "/?gift_card_page=1&gift_card_sort=code%3Aasc&inventory_page=3&inventory_searchValue=oil"; codeHref != expected {
		t.Errorf("expected sort link %q, got %q", expected, codeHref)
	}

	if len(view.Hidden) != 2 || view.Hidden[0].Name != "inventory_page" || view.Hidden[1].Name != "inventory_searchValue" {
		t.Errorf("expected the inventory keys to be carried, got %+v", view.Hidden)
	}

	if view.SearchKey != "gift_card_searchValue" {
		t.Errorf("expected prefixed search key, got %q", view.SearchKey)
	}
	if len(view.Filters) != 3 || view.Filters[0].Key != "gift_card_outletId" {
		t.Errorf("unexpected filters %+v", view.Filters)
	}
	if !view.PageSizes[0].Current || view.PageSizes[0].Limit != 10 {
		t.Errorf("expected 10 to be the current page size, got %+v", view.PageSizes)
	}
}

func TestBuildListingSortCycle(t *testing.T) {
	_, _, router := newTestHandler(t, testConfig())
	res, _ := resource.Lookup(router.resources, storage.GiftCardsEntity)

	tests := []struct {
		current  string
		expected string
	}{
		{"/gift-cards", "/gift-cards?page=1&sort=code%3Aasc"},
		{"/gift-cards?sort=code:asc", "/gift-cards?page=1&sort=code%3Adesc"},
		{"/gift-cards?sort=code:desc", "/gift-cards?page=1"},
	}

	for _, tt := range tests {
		u, err := url.Parse(tt.current)
		if err != nil {
			t.Fatal(err)
		}

		view := router.buildListing(context.Background(), u, res, "")
		for _, h := range view.Headers {
			if h.Title == "Code" && h.Href != tt.expected {
				t.Errorf("from %q expected %q, got %q", tt.current, tt.expected, h.Href)
			}
		}
	}
}

func TestBuildListingAppliedFilter(t *testing.T) {
	_, _, router := newTestHandler(t, testConfig())
	res, _ := resource.Lookup(router.resources, storage.GiftCardsEntity)

	u, err := url.Parse("/gift-cards?outletId=2&status=active&limit=500")
	if err != nil {
		t.Fatal(err)
	}

	view := router.buildListing(context.Background(), u, res, "")

	if view.State.Limit != 100 {
		t.Errorf("expected limit capped at 100, got %d", view.State.Limit)
	}

	for _, f := range view.Filters {
		switch f.FieldName {
		case "outletId":
			if !reflect.DeepEqual(f.Values, []string{"2"}) || f.ClearHref != "/gift-cards?limit=500&page=1&status=active" {
				t.Errorf("unexpected outlet filter %+v", f)
			}
		case "customerId":
			if !reflect.DeepEqual(f.Values, []string{""}) || f.ClearHref != "" {
				t.Errorf("expected customer filter to be unset, got %+v", f)
			}
		}
	}

	current := 0
	for _, size := range view.PageSizes {
		if size.Current {
			current = size.Limit
			if size.Href != "/gift-cards?limit=100&outletId=2&page=1&status=active" {
				t.Errorf("expected the capped size to link to limit=100, got %q", size.Href)
			}
		}
	}
	if current != 100 {
		t.Errorf("expected the capped limit 100 to be the current page size, got %+v", view.PageSizes)
	}
}

func TestBuildListingRepeatedFilter(t *testing.T) {
	_, _, router := newTestHandler(t, testConfig())
	res, _ := resource.Lookup(router.resources, storage.GiftCardsEntity)

	u, err := url.Parse("/gift-cards?outletId=3&outletId=1&searchValue=gold")
	if err != nil {
		t.Fatal(err)
	}

	view := router.buildListing(context.Background(), u, res, "")

	for _, f := range view.Filters {
		if f.FieldName == "outletId" && !reflect.DeepEqual(f.Values, []string{"3", "1"}) {
			t.Errorf("expected both outlet values in URL order, got %v", f.Values)
		}
	}
}

func TestListingFormKeepsRepeatedFilter(t *testing.T) {
	handler, _, _ := newTestHandler(t, testConfig())

	w := serve(handler, http.MethodGet, "/gift-cards?outletId=3&outletId=1&searchValue=gold", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	first := strings.Index(body, `name="outletId" value="3"`)
	second := strings.Index(body, `name="outletId" value="1"`)
	if first < 0 || second < 0 || first > second {
		t.Errorf("expected one outletId input per value in URL order, got:\n%s", body)
	}
}

func TestWithLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  []int
	}{
		{10, []int{10, 25, 50}},
		{100, []int{10, 25, 50, 100}},
		{5, []int{5, 10, 25, 50}},
		{30, []int{10, 25, 30, 50}},
	}

	for _, tt := range tests {
		if got := withLimit(pageSizes, tt.limit); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("withLimit(%d) = %v, want %v", tt.limit, got, tt.want)
		}
	}
}
