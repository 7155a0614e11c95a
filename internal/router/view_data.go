package router

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/resource"
	"github.com/GustavoCaso/spadesk/internal/table"
)

var pageSizes = []int{10, 25, 50}

type navItem struct {
	Name    string
	Title   string
	Current bool
}

type viewBase struct {
	Title string
	Nav   []navItem
}

func (router *router) newViewBase(title, current string) viewBase {
	nav := make([]navItem, 0, len(router.resources))
	for _, r := range router.resources {
		nav = append(nav, navItem{Name: r.Name(), Title: r.Title(), Current: r.Name() == current})
	}
	return viewBase{Title: title, Nav: nav}
}

type headerView struct {
	Title     string
	Href      string
	Sortable  bool
	Direction listquery.Direction
}

// filterView is one tracked filter. Values has one entry per input, in URL order, and a
// single empty entry when the filter is not applied.
type filterView struct {
	FieldName string
	Key       string
	Values    []string
	ClearHref string
}

type hiddenField struct {
	Name  string
	Value string
}

type pageSizeView struct {
	Limit   int
	Href    string
	Current bool
}

// listingView is one listing widget: filter bar, table and pagination. Every link is the
// current URL with a single change, so keys of other widgets survive.
type listingView struct {
	Name   string
	Title  string
	Action string

	SearchKey string
	StartKey  string
	EndKey    string
	State     listquery.State

	Headers []headerView
	Rows    []table.Row

	TotalCount int
	TotalPages int
	PrevHref   string
	NextHref   string
	ResetHref  string
	PageSizes  []pageSizeView
	Filters    []filterView
	Hidden     []hiddenField

	Error string
}

func (router *router) buildListing(ctx context.Context, u *url.URL, res resource.Resource, prefix string) listingView {
	tracked := res.Tracked()
	state := listquery.Read(u.Query(), tracked,
		listquery.WithPrefix(prefix),
		listquery.WithDefaultLimit(router.conf.Listing.DefaultLimit),
	)
	if state.Limit > router.conf.Listing.MaxLimit {
		state.Limit = router.conf.Listing.MaxLimit
	}

	href := func(apply func(w *listquery.Writer)) string {
		return listquery.Href(u, prefix, apply, listquery.WithTracked(tracked...))
	}

	view := listingView{
		Name:      res.Name(),
		Title:     res.Title(),
		Action:    u.Path,
		SearchKey: prefix + listquery.KeySearch,
		StartKey:  prefix + listquery.KeyStartDate,
		EndKey:    prefix + listquery.KeyEndDate,
		State:     state,
		ResetHref: href(func(w *listquery.Writer) { w.Reset() }),
	}

	listing, err := res.List(ctx, state.Request(res.SearchIn()...))
	if err != nil {
		router.logger.Error("Failed to list records", "entity", res.Name(), "error", err)
		view.Error = "Failed to load " + strings.ToLower(res.Title())
	}
	router.metrics.RecordListed(res.Name(), len(listing.Grid.Rows))

	view.Rows = listing.Grid.Rows
	view.TotalCount = listing.TotalCount
	view.TotalPages = listing.TotalPages

	for _, h := range listing.Grid.Headers {
		header := headerView{Title: h.Title, Sortable: h.Sortable, Direction: h.Direction}
		if h.Sortable {
			field, direction := nextSort(h)
			header.Href = href(func(w *listquery.Writer) { w.SetSort(field, direction) })
		}
		view.Headers = append(view.Headers, header)
	}

	if state.Page > 1 {
		view.PrevHref = href(func(w *listquery.Writer) { w.SetPage(state.Page - 1) })
	}
	if state.Page < listing.TotalPages {
		view.NextHref = href(func(w *listquery.Writer) { w.SetPage(state.Page + 1) })
	}

	for _, limit := range withLimit(pageSizes, state.Limit) {
		view.PageSizes = append(view.PageSizes, pageSizeView{
			Limit:   limit,
			Href:    href(func(w *listquery.Writer) { w.SetLimit(limit) }),
			Current: limit == state.Limit,
		})
	}

	for _, field := range tracked {
		filter := filterView{FieldName: field, Key: prefix + field, Values: []string{""}}
		if values, ok := state.Filter(field); ok {
			filter.Values = values
			filter.ClearHref = href(func(w *listquery.Writer) { w.SetFilterValue(field) })
		}
		view.Filters = append(view.Filters, filter)
	}

	view.Hidden = hiddenFields(u.Query(), prefix, tracked)

	return view
}

// withLimit returns sizes with limit added in order when it is not one of them, so the
// size in effect is always shown.
func withLimit(sizes []int, limit int) []int {
	result := make([]int, 0, len(sizes)+1)
	for _, size := range sizes {
		if size == limit {
			return sizes
		}
		if limit > 0 && limit < size && (len(result) == 0 || result[len(result)-1] < limit) {
			result = append(result, limit)
		}
		result = append(result, size)
	}
	if limit > 0 && (len(result) == 0 || result[len(result)-1] < limit) {
		result = append(result, limit)
	}
	return result
}

// nextSort cycles a column through ascending, descending and unsorted.
func nextSort(h table.Header) (string, listquery.Direction) {
	switch h.Direction {
	case listquery.Asc:
		return h.FieldName, listquery.Desc
	case listquery.Desc:
		return "", ""
	default:
		return h.FieldName, listquery.Asc
	}
}

// hiddenFields carries every key the filter form does not own, so submitting it only
// changes this widget. The page key is dropped to go back to the first page.
func hiddenFields(q url.Values, prefix string, tracked []string) []hiddenField {
	owned := map[string]bool{
		prefix + listquery.KeySearch:    true,
		prefix + listquery.KeyPage:      true,
		prefix + listquery.KeyStartDate: true,
		prefix + listquery.KeyEndDate:   true,
	}
	for _, field := range tracked {
		owned[prefix+field] = true
	}

	keys := make([]string, 0, len(q))
	for key := range q {
		if !owned[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var fields []hiddenField
	for _, key := range keys {
		for _, value := range q[key] {
			fields = append(fields, hiddenField{Name: key, Value: value})
		}
	}
	return fields
}
