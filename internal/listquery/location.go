package listquery

import (
	"net/url"
)

// URLLocation keeps the query in the RawQuery of a URL. Push and Replace behave the same.
type URLLocation struct {
	u *url.URL
}

func NewURLLocation(u *url.URL) *URLLocation {
	return &URLLocation{u: u}
}

func (l *URLLocation) Query() url.Values {
	return l.u.Query()
}

func (l *URLLocation) Navigate(q url.Values, _ Mode) {
	l.u.RawQuery = q.Encode()
}

func (l *URLLocation) URL() *url.URL {
	return l.u
}

// Href returns base with one writer operation applied. base itself is not modified.
// opts are passed to the writer after the prefix.
func Href(base *url.URL, prefix string, apply func(w *Writer), opts ...Option) string {
	u := *base
	apply(NewWriter(NewURLLocation(&u), append([]Option{WithPrefix(prefix)}, opts...)...))
	return u.String()
}

// History is an in-memory navigation history, the terminal counterpart of the browser's.
// It is not safe for concurrent use.
type History struct {
	entries []string
	index   int
}

func NewHistory(initial url.Values) *History {
	return &History{
		entries: []string{initial.Encode()},
	}
}

func (h *History) Query() url.Values {
	q, err := url.ParseQuery(h.entries[h.index])
	if err != nil {
		return url.Values{}
	}
	return q
}

// Navigate records q. Push drops any forward entries; pushing the current query again
// is a no-op.
func (h *History) Navigate(q url.Values, mode Mode) {
	encoded := q.Encode()

	if mode == Replace {
		h.entries[h.index] = encoded
		return
	}

	if encoded == h.entries[h.index] {
		return
	}

	h.entries = append(h.entries[:h.index+1], encoded)
	h.index++
}

// Back moves to the previous entry and reports whether it moved.
func (h *History) Back() bool {
	if h.index == 0 {
		return false
	}
	h.index--
	return true
}

// Forward moves to the next entry and reports whether it moved.
func (h *History) Forward() bool {
	if h.index >= len(h.entries)-1 {
		return false
	}
	h.index++
	return true
}

func (h *History) Len() int {
	return len(h.entries)
}

// Current returns the encoded query of the current entry.
func (h *History) Current() string {
	return h.entries[h.index]
}
