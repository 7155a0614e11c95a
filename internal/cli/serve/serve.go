package serve

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GustavoCaso/spadesk/internal/cli"
	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/logger"
	"github.com/GustavoCaso/spadesk/internal/router"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type serveCommand struct {
	addr string
}

func NewCommand() cli.Command {
	return &serveCommand{}
}

func (c *serveCommand) Description() string {
	return "Run the web interface and JSON API"
}

func (c *serveCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "listen address, overrides server.addr")
}

func (c *serveCommand) Run(conf *config.Config, s storage.Storage, logger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.serve(ctx, conf, s, logger)
}

func (c *serveCommand) serve(ctx context.Context, conf *config.Config, s storage.Storage, logger *logger.Logger) error {
	addr := conf.Server.Addr
	if c.addr != "" {
		addr = c.addr
	}

	handler, _ := router.New(conf, s, logger)

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: conf.Server.ReadHeaderTimeout,
		Handler:           handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", addr, "auth", conf.Server.Auth)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
