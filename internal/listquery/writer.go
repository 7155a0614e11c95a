package listquery

import (
	"net/url"
	"strconv"
)

// Mode determines how a navigation is recorded.
type Mode int

const (
	// Push adds a new history entry.
	Push Mode = iota

	// Replace overwrites the current history entry.
	Replace
)

// Location owns the current query string.
type Location interface {
	// Query returns a copy of the current query.
	Query() url.Values
	// Navigate makes q the current query.
	Navigate(q url.Values, mode Mode)
}

// Writer updates the keys of one prefix in a Location. Keys outside its prefix are
// carried over untouched on every write.
type Writer struct {
	loc          Location
	prefix       string
	mode         Mode
	defaultLimit int
	tracked      []string
}

func NewWriter(loc Location, opts ...Option) *Writer {
	o := newOptions(opts)
	return &Writer{
		loc:          loc,
		prefix:       o.prefix,
		mode:         o.mode,
		defaultLimit: o.defaultLimit,
		tracked:      uniqueFields(o.tracked),
	}
}

// Read derives the State of this writer's prefix from the current location.
func (w *Writer) Read(tracked []string) State {
	return Read(w.loc.Query(), tracked, WithPrefix(w.prefix), WithDefaultLimit(w.defaultLimit))
}

// SetSearch writes the search text and goes back to the first page.
func (w *Writer) SetSearch(value string) {
	w.update(func(q url.Values) {
		w.setOrDelete(q, KeySearch, value)
		w.resetPage(q)
	})
}

// SetPage writes the page number. Values below 1 are clamped to 1.
func (w *Writer) SetPage(page int) {
	w.update(func(q url.Values) {
		q.Set(w.key(KeyPage), strconv.Itoa(atLeast(page, DefaultPage)))
	})
}

// SetLimit writes the page size and goes back to the first page. A limit below 1
// removes the key so readers fall back to their default.
func (w *Writer) SetLimit(limit int) {
	w.update(func(q url.Values) {
		if limit > 0 {
			q.Set(w.key(KeyLimit), strconv.Itoa(limit))
		} else {
			q.Del(w.key(KeyLimit))
		}
		w.resetPage(q)
	})
}

// SetDateRange writes both date bounds in a single navigation. Empty or malformed
// bounds are removed.
func (w *Writer) SetDateRange(start, end string) {
	w.update(func(q url.Values) {
		w.setOrDelete(q, KeyStartDate, validDate(start))
		w.setOrDelete(q, KeyEndDate, validDate(end))
		w.resetPage(q)
	})
}

// SetFilterValue writes every non-empty value under the field key, or removes the key
// when none is left, and goes back to the first page.
func (w *Writer) SetFilterValue(fieldName string, values ...string) {
	if fieldName == "" || isCanonical(fieldName) {
		return
	}

	w.update(func(q url.Values) {
		vals := nonEmpty(values)
		if len(vals) == 0 {
			q.Del(w.key(fieldName))
		} else {
			q[w.key(fieldName)] = vals
		}
		w.resetPage(q)
	})
}

// SetSort writes the column sort and goes back to the first page. An empty field clears
// the sort; an unknown direction becomes Asc.
func (w *Writer) SetSort(field string, direction Direction) {
	w.update(func(q url.Values) {
		if field == "" {
			q.Del(w.key(KeySort))
		} else {
			if direction != Desc {
				direction = Asc
			}
			q.Set(w.key(KeySort), Sort{Field: field, Direction: direction}.String())
		}
		w.resetPage(q)
	})
}

// Reset removes every canonical and tracked key of this prefix.
func (w *Writer) Reset() {
	w.update(func(q url.Values) {
		for _, k := range canonicalKeys {
			q.Del(w.key(k))
		}
		for _, k := range w.tracked {
			q.Del(w.key(k))
		}
	})
}

func (w *Writer) update(apply func(q url.Values)) {
	q := w.loc.Query()
	if q == nil {
		q = url.Values{}
	}
	apply(q)
	w.loc.Navigate(q, w.mode)
}

func (w *Writer) key(canonical string) string {
	return w.prefix + canonical
}

func (w *Writer) setOrDelete(q url.Values, canonical, value string) {
	if value == "" {
		q.Del(w.key(canonical))
		return
	}
	q.Set(w.key(canonical), value)
}

func (w *Writer) resetPage(q url.Values) {
	q.Set(w.key(KeyPage), strconv.Itoa(DefaultPage))
}
