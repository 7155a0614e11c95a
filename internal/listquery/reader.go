package listquery

import (
	"net/url"
	"strconv"
	"time"

	"golang.org/x/exp/constraints"
)

type options struct {
	prefix       string
	defaultLimit int
	mode         Mode
	tracked      []string
}

// Option configures Read and NewWriter.
type Option func(*options)

// WithPrefix namespaces every key read or written.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithDefaultLimit overrides DefaultLimit. Values below 1 are ignored.
func WithDefaultLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.defaultLimit = limit
		}
	}
}

// WithMode sets the navigation mode used by a Writer. Push is the default.
func WithMode(mode Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithTracked declares the filter keys owned by a Writer, so Reset can clear them.
func WithTracked(fieldNames ...string) Option {
	return func(o *options) {
		o.tracked = append(o.tracked, fieldNames...)
	}
}

func newOptions(opts []Option) options {
	o := options{
		defaultLimit: DefaultLimit,
		mode:         Push,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Read derives a State from q. It never fails: malformed numbers, dates and sorts fall
// back to their defaults. Only the tracked filter keys are surfaced, in the order given.
func Read(q url.Values, tracked []string, opts ...Option) State {
	o := newOptions(opts)
	key := func(k string) string { return o.prefix + k }

	state := State{
		Prefix:      o.prefix,
		SearchQuery: q.Get(key(KeySearch)),
		Page:        positiveInt(q.Get(key(KeyPage)), DefaultPage),
		Limit:       positiveInt(q.Get(key(KeyLimit)), o.defaultLimit),
		DateFilter: DateFilter{
			StartDate: validDate(q.Get(key(KeyStartDate))),
			EndDate:   validDate(q.Get(key(KeyEndDate))),
		},
		Sort: parseSort(q.Get(key(KeySort))),
	}

	for _, field := range uniqueFields(tracked) {
		values := nonEmpty(q[key(field)])
		if len(values) == 0 {
			continue
		}
		state.AppliedFilters = append(state.AppliedFilters, AppliedFilter{
			FieldName: field,
			Value:     FilterValue(values),
		})
	}

	return state
}

// uniqueFields drops duplicates, empty names and names that clash with canonical keys.
func uniqueFields(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" || isCanonical(f) {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		result = append(result, f)
	}
	return result
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func atLeast[T constraints.Integer](v, floor T) T {
	if v < floor {
		return floor
	}
	return v
}

func validDate(s string) string {
	if s == "" {
		return ""
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ""
	}
	return s
}
