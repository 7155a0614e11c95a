package list

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/GustavoCaso/spadesk/internal/cli"
	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/logger"
	"github.com/GustavoCaso/spadesk/internal/resource"
	"github.com/GustavoCaso/spadesk/internal/storage"
	"github.com/GustavoCaso/spadesk/internal/table"
	"github.com/GustavoCaso/spadesk/internal/util"
)

const columnGap = "  "

type listCommand struct {
	entity string
	query  string
	prefix string
	remote cli.Remote
	out    io.Writer
}

func NewCommand() cli.Command {
	return &listCommand{out: os.Stdout}
}

func (c *listCommand) Description() string {
	return "Print one page of an entity"
}

func (c *listCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.entity, "e", storage.GiftCardsEntity, "entity: "+strings.Join(resource.Names(), ", "))
	fs.StringVar(&c.query, "q", "", `listing query string, e.g. "searchValue=gold&page=2&sort=amount:desc"`)
	fs.StringVar(&c.prefix, "p", "", "key prefix used in the query string")
	c.remote.SetFlags(fs)
}

func (c *listCommand) Run(conf *config.Config, s storage.Storage, logger *logger.Logger) error {
	repos, err := c.remote.Repositories(s)
	if err != nil {
		return err
	}

	res, ok := resource.Lookup(resource.All(repos, conf.Location()), c.entity)
	if !ok {
		return fmt.Errorf("unknown entity %q, expected one of: %s", c.entity, strings.Join(resource.Names(), ", "))
	}

	q, err := url.ParseQuery(strings.TrimPrefix(c.query, "?"))
	if err != nil {
		return fmt.Errorf("invalid query %q: %w", c.query, err)
	}

	state := listquery.Read(q, res.Tracked(),
		listquery.WithPrefix(c.prefix),
		listquery.WithDefaultLimit(conf.Listing.DefaultLimit),
	)

	logger.Debug("Listing records", "entity", res.Name(), "page", state.Page, "limit", state.Limit)

	listing, err := res.List(context.Background(), state.Request(res.SearchIn()...))
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", res.Name(), err)
	}

	printListing(c.out, res.Title(), state, listing)
	return nil
}

func printListing(out io.Writer, title string, state listquery.State, listing resource.Listing) {
	fmt.Fprintln(out, util.ColorOutput(title, "bold"))

	if listing.Grid.Empty() {
		fmt.Fprintln(out, util.ColorOutput("No records found", "faint"))
		return
	}

	widths := listing.Grid.Widths()

	headers := make([]string, 0, len(listing.Grid.Headers))
	for i, h := range listing.Grid.Headers {
		header := h.Title + sortMarker(h)
		widths[i] = max(widths[i], utf8.RuneCountInString(header))
		headers = append(headers, util.ColorOutput(header, "cyan", "underline")+padding(header, widths[i]))
	}
	fmt.Fprintln(out, strings.TrimRight(strings.Join(headers, columnGap), " "))

	for _, row := range listing.Grid.Rows {
		cells := make([]string, 0, len(row.Cells))
		for i, cell := range row.Cells {
			text := cell
			if listing.Grid.Headers[i].FieldName == "status" {
				text = util.ColorStatus(cell)
			}
			cells = append(cells, text+padding(cell, widths[i]))
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, columnGap), " "))
	}

	fmt.Fprintln(out, util.ColorOutput(
		fmt.Sprintf("Page %d of %d, %d records", state.Page, listing.TotalPages, listing.TotalCount),
		"faint",
	))
}

func sortMarker(h table.Header) string {
	switch h.Direction {
	case listquery.Asc:
		return " ^"
	case listquery.Desc:
		return " v"
	default:
		return ""
	}
}

// padding returns the spaces that fill s up to width runes.
func padding(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
