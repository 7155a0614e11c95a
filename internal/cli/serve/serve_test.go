package serve

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/testutil"
)

func TestDescription(t *testing.T) {
	cmd := NewCommand()
	if desc := cmd.Description(); desc != "Run the web interface and JSON API" {
		t.Errorf("Description() = %v", desc)
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

func TestServeUntilCancelled(t *testing.T) {
	logger := testutil.TestLogger(t)
	s := testutil.SetupTestStorage(t)
	addr := freeAddr(t)

	cmd := &serveCommand{}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	cmd.SetFlags(fs)
	if err := fs.Parse([]string{"-addr", addr}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	conf := &config.Config{
		Server:   config.ServerConfig{Addr: ":0", ReadHeaderTimeout: time.Second},
		Listing:  config.ListingConfig{DefaultLimit: 10, MaxLimit: 100},
		Timezone: "UTC",
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cmd.serve(ctx, conf, s, logger)
	}()

	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get(fmt.Sprintf("http://%s/healthz", addr))
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server did not come up: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()

	select {
	case err = <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
