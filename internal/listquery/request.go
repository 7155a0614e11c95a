package listquery

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
)

// Request is what a listing hands to a list endpoint. On the wire searchIn and filterBy
// are JSON-encoded query parameters.
type Request struct {
	SearchValue string
	Page        int
	Limit       int
	SearchIn    []string
	FilterBy    []AppliedFilter
	StartDate   string
	EndDate     string
	Sort        *Sort
}

// Request builds the list request for this state. searchIn names the fields the search
// text is matched against.
func (s State) Request(searchIn ...string) Request {
	return Request{
		SearchValue: s.SearchQuery,
		Page:        s.Page,
		Limit:       s.Limit,
		SearchIn:    nonEmpty(searchIn),
		FilterBy:    s.AppliedFilters,
		StartDate:   s.DateFilter.StartDate,
		EndDate:     s.DateFilter.EndDate,
		Sort:        s.Sort,
	}
}

func (r Request) Offset() int {
	return offset(r.Page, r.Limit)
}

// Values encodes r as unprefixed HTTP query parameters.
func (r Request) Values() url.Values {
	v := url.Values{}

	if r.SearchValue != "" {
		v.Set(KeySearch, r.SearchValue)
	}
	v.Set(KeyPage, strconv.Itoa(atLeast(r.Page, DefaultPage)))
	if r.Limit > 0 {
		v.Set(KeyLimit, strconv.Itoa(r.Limit))
	}

	if len(r.SearchIn) > 0 {
		if encoded, err := json.Marshal(r.SearchIn); err == nil {
			v.Set(KeySearchIn, string(encoded))
		}
	}

	if len(r.FilterBy) > 0 {
		if encoded, err := json.Marshal(r.FilterBy); err == nil {
			v.Set(KeyFilterBy, string(encoded))
		}
	}

	if r.StartDate != "" {
		v.Set(KeyStartDate, r.StartDate)
	}
	if r.EndDate != "" {
		v.Set(KeyEndDate, r.EndDate)
	}
	if r.Sort != nil {
		v.Set(KeySort, r.Sort.String())
	}

	return v
}

// ParseRequest decodes a list request on the server side. Like Read it never fails:
// malformed parts are dropped and the limit is capped at maxLimit when maxLimit > 0.
func ParseRequest(q url.Values, maxLimit int) Request {
	req := Request{
		SearchValue: q.Get(KeySearch),
		Page:        positiveInt(q.Get(KeyPage), DefaultPage),
		Limit:       positiveInt(q.Get(KeyLimit), DefaultLimit),
		StartDate:   validDate(q.Get(KeyStartDate)),
		EndDate:     validDate(q.Get(KeyEndDate)),
		Sort:        parseSort(q.Get(KeySort)),
	}

	if maxLimit > 0 && req.Limit > maxLimit {
		req.Limit = maxLimit
	}

	if raw := q.Get(KeySearchIn); raw != "" {
		var fields []string
		if err := json.Unmarshal([]byte(raw), &fields); err == nil {
			req.SearchIn = nonEmpty(fields)
		}
	}

	if raw := q.Get(KeyFilterBy); raw != "" {
		var filters []AppliedFilter
		if err := json.Unmarshal([]byte(raw), &filters); err == nil {
			for _, f := range filters {
				if f.FieldName == "" || len(f.Value) == 0 {
					continue
				}
				req.FilterBy = append(req.FilterBy, f)
			}
		}
	}

	return req
}

// Page is the response shape of every list endpoint.
type Page[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

func NewPage[T any](data []T, totalCount, limit int) Page[T] {
	if data == nil {
		data = []T{}
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(totalCount) / float64(limit)))
	}

	return Page[T]{
		Data:       data,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
