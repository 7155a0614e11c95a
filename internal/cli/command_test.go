package cli

import (
	"flag"
	"fmt"
	"testing"

	"github.com/GustavoCaso/spadesk/internal/client"
	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/logger"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

// mockCommand implements the Command interface for testing.
type mockCommand struct {
	description string
	runError    error
}

func (c mockCommand) SetFlags(fset *flag.FlagSet) {
	fset.String("test", "", "test flag")
}

func (c mockCommand) Description() string {
	return c.description
}

func (c mockCommand) Run(_ *config.Config, _ storage.Storage, _ *logger.Logger) error {
	return c.runError
}

func TestCommandInterface(t *testing.T) {
	var cmd Command = mockCommand{description: "Test command"}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cmd.SetFlags(fs)
	if fs.Lookup("test") == nil {
		t.Error("SetFlags() did not register the test flag")
	}

	if desc := cmd.Description(); desc != "Test command" {
		t.Errorf("Description() = %v, want %v", desc, "Test command")
	}

	if err := cmd.Run(nil, nil, nil); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}

	cmdWithError := mockCommand{
		description: "Error command",
		runError:    fmt.Errorf("test error"),
	}

	err := cmdWithError.Run(nil, nil, nil)
	if err == nil || err.Error() != "test error" {
		t.Errorf("Run() error = %v, want %v", err, "test error")
	}
}

func TestRemoteFlags(t *testing.T) {
	var remote Remote

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	remote.SetFlags(fs)
	if err := fs.Parse([]string{"-server", "http://localhost:8080", "-user", "admin", "-password", "secret"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	if remote.URL != "http://localhost:8080" || remote.Username != "admin" || remote.Password != "secret" {
		t.Errorf("unexpected remote %+v", remote)
	}
}

func TestRemoteRepositories(t *testing.T) {
	remote := Remote{}
	repos, err := remote.Repositories(nil)
	if err != nil || repos != nil {
		t.Errorf("expected the local storage to be returned, got %v, %v", repos, err)
	}

	remote.URL = "http://localhost:8080"
	repos, err = remote.Repositories(nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, ok := repos.(*client.Client); !ok {
		t.Errorf("expected an API client, got %T", repos)
	}

	remote.URL = "localhost"
	if _, err = remote.Repositories(nil); err == nil {
		t.Error("expected an error for a URL without scheme")
	}
}
