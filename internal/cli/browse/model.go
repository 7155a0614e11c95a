package browse

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/resource"
)

const (
	maxColumnWidth = 28
	// rows taken by the title, query, status, dialog and help lines
	chromeHeight = 8
)

var pageSizes = []int{5, 10, 25, 50, 100}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("69")).
			Padding(0, 1)
)

// dialog is the overlay currently capturing keys.
type dialog int

const (
	dialogNone dialog = iota
	dialogSearch
	dialogDelete
)

type listingMsg struct {
	seq     int
	listing resource.Listing
	err     error
}

type deletedMsg struct {
	id  int64
	err error
}

// model browses one resource. The history is the source of truth for the listing state;
// every key that changes the listing goes through the writer and triggers a fetch.
type model struct {
	ctx     context.Context
	res     resource.Resource
	history *listquery.History
	writer  *listquery.Writer

	table  table.Model
	search textinput.Model
	help   help.Model
	keys   keyMap

	dialog  dialog
	loading bool
	// seq identifies the latest fetch. Responses of older fetches are dropped.
	seq       int
	listing   resource.Listing
	pendingID int64
	// clampPage moves to the last page when the next listing ends before the current page.
	clampPage bool
	err       error
	status    string

	width  int
	height int
}

func newModel(ctx context.Context, res resource.Resource, history *listquery.History, defaultLimit, width, height int) model {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "text to match"

	m := model{
		ctx:     ctx,
		res:     res,
		history: history,
		writer: listquery.NewWriter(history,
			listquery.WithDefaultLimit(defaultLimit),
			listquery.WithTracked(res.Tracked()...),
		),
		table:   table.New(table.WithFocused(true)),
		search:  search,
		help:    help.New(),
		keys:    defaultKeyMap(),
		loading: true,
		seq:     1,
		width:   width,
		height:  height,
	}
	m.resize()

	return m
}

func (m model) Init() tea.Cmd {
	return m.load(m.seq)
}

func (m model) state() listquery.State {
	return m.writer.Read(m.res.Tracked())
}

func (m model) load(seq int) tea.Cmd {
	ctx, res := m.ctx, m.res
	req := m.state().Request(res.SearchIn()...)

	return func() tea.Msg {
		listing, err := res.List(ctx, req)
		return listingMsg{seq: seq, listing: listing, err: err}
	}
}

// fetch starts loading the listing for the current history entry.
func (m *model) fetch() tea.Cmd {
	m.seq++
	m.loading = true
	m.status = ""
	return m.load(m.seq)
}

func (m model) delete(id int64) tea.Cmd {
	ctx, res := m.ctx, m.res
	return func() tea.Msg {
		return deletedMsg{id: id, err: res.Delete(ctx, id)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case listingMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		clamp := m.clampPage
		m.clampPage = false
		if page := m.state().Page; clamp && msg.err == nil && msg.listing.TotalPages > 0 && page > msg.listing.TotalPages {
			m.writer.SetPage(msg.listing.TotalPages)
			status := m.status
			cmd := m.fetch()
			m.status = status
			return m, cmd
		}

		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.listing = msg.listing
			m.setRows()
		}
		return m, nil
	case deletedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to delete #%d: %w", msg.id, msg.err)
			return m, nil
		}
		cmd := m.fetch()
		m.clampPage = true
		m.status = fmt.Sprintf("Deleted #%d", msg.id)
		return m, cmd
	case tea.KeyMsg:
		switch m.dialog {
		case dialogSearch:
			return m.updateSearch(msg)
		case dialogDelete:
			return m.updateDelete(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.state()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextPage):
		if state.Page >= m.listing.TotalPages {
			return m, nil
		}
		m.writer.SetPage(state.Page + 1)
		return m, m.fetch()
	case key.Matches(msg, m.keys.PrevPage):
		if state.Page <= 1 {
			return m, nil
		}
		m.writer.SetPage(state.Page - 1)
		return m, m.fetch()
	case key.Matches(msg, m.keys.Grow):
		return m.setLimit(nextPageSize(state.Limit, true))
	case key.Matches(msg, m.keys.Shrink):
		return m.setLimit(nextPageSize(state.Limit, false))
	case key.Matches(msg, m.keys.Search):
		m.dialog = dialogSearch
		m.search.SetValue(state.SearchQuery)
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Sort):
		field, direction := nextSort(m.listing.Grid.SortableFields(), state.Sort)
		m.writer.SetSort(field, direction)
		return m, m.fetch()
	case key.Matches(msg, m.keys.Back):
		if !m.history.Back() {
			return m, nil
		}
		return m, m.fetch()
	case key.Matches(msg, m.keys.Forward):
		if !m.history.Forward() {
			return m, nil
		}
		return m, m.fetch()
	case key.Matches(msg, m.keys.Reset):
		m.writer.Reset()
		return m, m.fetch()
	case key.Matches(msg, m.keys.Delete):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		m.pendingID = id
		m.dialog = dialogDelete
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.dialog = dialogNone
		m.search.Blur()
		m.writer.SetSearch(m.search.Value())
		return m, m.fetch()
	case tea.KeyEsc:
		m.dialog = dialogNone
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m model) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.dialog = dialogNone
		return m, m.delete(m.pendingID)
	case "n", "N", "esc":
		m.dialog = dialogNone
		m.pendingID = 0
	}
	return m, nil
}

func (m model) setLimit(limit int) (tea.Model, tea.Cmd) {
	if limit == m.state().Limit {
		return m, nil
	}
	m.writer.SetLimit(limit)
	return m, m.fetch()
}

func (m model) selectedID() (int64, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.listing.Grid.Rows) {
		return 0, false
	}
	id, err := strconv.ParseInt(m.listing.Grid.Rows[cursor].Key, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (m *model) setRows() {
	grid := m.listing.Grid
	widths := grid.Widths()

	columns := make([]table.Column, 0, len(grid.Headers))
	for i, h := range grid.Headers {
		title := h.Title + sortMarker(h.Direction)
		columns = append(columns, table.Column{
			Title: title,
			Width: min(max(widths[i], len([]rune(title))), maxColumnWidth),
		})
	}

	rows := make([]table.Row, 0, len(grid.Rows))
	for _, r := range grid.Rows {
		rows = append(rows, table.Row(r.Cells))
	}

	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *model) resize() {
	m.help.Width = m.width
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(m.height-chromeHeight, 3))
}

func (m model) View() string {
	state := m.state()

	query := m.history.Current()
	if query == "" {
		query = "(defaults)"
	}

	parts := []string{
		titleStyle.Render(m.res.Title()),
		faintStyle.Render("?" + query),
	}

	if len(m.listing.Grid.Rows) == 0 && !m.loading {
		parts = append(parts, faintStyle.Render("No records found"))
	} else {
		parts = append(parts, m.table.View())
	}

	status := fmt.Sprintf("Page %d of %d, %d records", state.Page, m.listing.TotalPages, m.listing.TotalCount)
	if m.loading {
		status = "Loading..."
	}
	if m.status != "" {
		status += "  " + m.status
	}
	parts = append(parts, faintStyle.Render(status))

	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	}

	switch m.dialog {
	case dialogSearch:
		parts = append(parts, dialogStyle.Render(m.search.View()))
	case dialogDelete:
		parts = append(parts, dialogStyle.Render(fmt.Sprintf("Delete %s #%d? (y/n)", m.res.Title(), m.pendingID)))
	}

	parts = append(parts, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func sortMarker(direction listquery.Direction) string {
	switch direction {
	case listquery.Asc:
		return " ▲"
	case listquery.Desc:
		return " ▼"
	default:
		return ""
	}
}

// nextSort cycles through every sortable field, ascending then descending, and ends
// unsorted.
func nextSort(fields []string, current *listquery.Sort) (string, listquery.Direction) {
	if len(fields) == 0 {
		return "", ""
	}

	index := -1
	if current != nil {
		for i, f := range fields {
			if f == current.Field {
				index = i
			}
		}
	}

	switch {
	case index < 0:
		return fields[0], listquery.Asc
	case current.Direction == listquery.Asc:
		return current.Field, listquery.Desc
	case index+1 < len(fields):
		return fields[index+1], listquery.Asc
	default:
		return "", ""
	}
}

// nextPageSize returns the next larger or smaller page size, or limit when there is none.
func nextPageSize(limit int, grow bool) int {
	if grow {
		for _, size := range pageSizes {
			if size > limit {
				return size
			}
		}
		return limit
	}

	for i := len(pageSizes) - 1; i >= 0; i-- {
		if pageSizes[i] < limit {
			return pageSizes[i]
		}
	}
	return limit
}
