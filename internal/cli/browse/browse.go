package browse

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/GustavoCaso/spadesk/internal/cli"
	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/logger"
	"github.com/GustavoCaso/spadesk/internal/resource"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

type browseCommand struct {
	entity string
	query  string
	remote cli.Remote
}

func NewCommand() cli.Command {
	return &browseCommand{}
}

func (c *browseCommand) Description() string {
	return "Browse an entity in an interactive terminal listing"
}

func (c *browseCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.entity, "e", storage.GiftCardsEntity, "entity: "+strings.Join(resource.Names(), ", "))
	fs.StringVar(&c.query, "q", "", "initial listing query string")
	c.remote.SetFlags(fs)
}

func (c *browseCommand) Run(conf *config.Config, s storage.Storage, logger *logger.Logger) error {
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

	w, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}

	if len(os.Getenv("SPADESK_DEBUG")) > 0 {
		f, logErr := tea.LogToFile("debug.log", "debug")
		if logErr != nil {
			return fmt.Errorf("failed to log to file: %w", logErr)
		}
		defer f.Close()
	}

	logger.Debug("Starting browser", "entity", res.Name(), "query", q.Encode())

	m := newModel(context.Background(), res, listquery.NewHistory(q), conf.Listing.DefaultLimit, w, h)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("error running browser: %w", err)
	}

	return nil
}
