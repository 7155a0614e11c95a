package cli

import (
	"flag"
	"fmt"

	"github.com/GustavoCaso/spadesk/internal/client"
	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/logger"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

type Command interface {
	SetFlags(fset *flag.FlagSet)
	Description() string
	Run(conf *config.Config, storage storage.Storage, logger *logger.Logger) error
}

// Remote names a spadesk server to read from instead of the local database.
type Remote struct {
	URL      string
	Username string
	Password string
}

// SetFlags registers -server, -user and -password.
func (r *Remote) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&r.URL, "server", "", "read from a spadesk server instead of the local database")
	fset.StringVar(&r.Username, "user", "", "API username")
	fset.StringVar(&r.Password, "password", "", "API password")
}

// Repositories returns the API client when a server is set, and local otherwise.
func (r *Remote) Repositories(local storage.Storage) (storage.Repositories, error) {
	if r.URL == "" {
		return local, nil
	}

	var opts []client.Option
	if r.Username != "" {
		opts = append(opts, client.WithBasicAuth(r.Username, r.Password))
	}

	c, err := client.New(r.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return c, nil
}
