package user

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/GustavoCaso/spadesk/internal/cli"
	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/logger"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

const minPasswordLength = 8

type userCommand struct {
	username string
	password string
	out      io.Writer
}

func NewCommand() cli.Command {
	return &userCommand{out: os.Stdout}
}

func (c *userCommand) Description() string {
	return "Create a user for the JSON API"
}

func (c *userCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "u", "", "username")
	fs.StringVar(&c.password, "p", "", "password, at least 8 characters")
}

func (c *userCommand) Run(_ *config.Config, s storage.Storage, logger *logger.Logger) error {
	if c.username == "" || c.password == "" {
		return errors.New("username and password are required")
	}

	if len(c.password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(c.password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.CreateUser(context.Background(), c.username, string(hashedPassword))
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", c.username, err)
	}

	logger.Info("User created", "username", user.Username(), "id", user.ID())
	fmt.Fprintf(c.out, "User %s created\n", user.Username())
	return nil
}
