// Package table turns typed rows into the header and cell strings every listing surface
// renders: the HTML pages, the terminal browser and the CLI printer.
package table

import (
	"unicode/utf8"

	"github.com/GustavoCaso/spadesk/internal/listquery"
)

// Column describes how one field of Row is shown.
type Column[Row any] struct {
	FieldName  string
	HeaderName string
	Render     func(Row) string
	Sortable   bool
}

type Header struct {
	FieldName string
	Title     string
	Sortable  bool
	// Direction is set on the column the grid is sorted by.
	Direction listquery.Direction
}

type Row struct {
	Key   string
	Cells []string
}

type Grid struct {
	Headers []Header
	Rows    []Row
}

// Build renders rows through columns. key identifies each row and may be nil.
func Build[R any](columns []Column[R], rows []R, key func(R) string) Grid {
	grid := Grid{
		Headers: make([]Header, 0, len(columns)),
		Rows:    make([]Row, 0, len(rows)),
	}

	for _, c := range columns {
		grid.Headers = append(grid.Headers, Header{
			FieldName: c.FieldName,
			Title:     c.HeaderName,
			Sortable:  c.Sortable,
		})
	}

	for _, r := range rows {
		row := Row{Cells: make([]string, 0, len(columns))}
		if key != nil {
			row.Key = key(r)
		}
		for _, c := range columns {
			if c.Render == nil {
				row.Cells = append(row.Cells, "")
				continue
			}
			row.Cells = append(row.Cells, c.Render(r))
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid
}

// WithSort marks the header sort points at. Sorting by a field that is not a sortable
// column marks nothing.
func (g Grid) WithSort(sort *listquery.Sort) Grid {
	headers := make([]Header, len(g.Headers))
	copy(headers, g.Headers)

	for i := range headers {
		headers[i].Direction = ""
		if sort != nil && headers[i].Sortable && headers[i].FieldName == sort.Field {
			headers[i].Direction = sort.Direction
		}
	}

	g.Headers = headers
	return g
}

// SortableFields lists the sortable columns in display order.
func (g Grid) SortableFields() []string {
	var fields []string
	for _, h := range g.Headers {
		if h.Sortable {
			fields = append(fields, h.FieldName)
		}
	}
	return fields
}

// Widths returns the widest header or cell of every column, in runes.
func (g Grid) Widths() []int {
	widths := make([]int, len(g.Headers))
	for i, h := range g.Headers {
		widths[i] = utf8.RuneCountInString(h.Title)
	}
	for _, r := range g.Rows {
		for i, cell := range r.Cells {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}
	return widths
}

func (g Grid) Empty() bool {
	return len(g.Rows) == 0
}
