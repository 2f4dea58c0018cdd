package bootstrap_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/PrjctQ/qcore/pkg/bootstrap"
	"github.com/PrjctQ/qcore/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// occupyPort grabs a free port and keeps it held for the duration of the
// test, so a server configured with it must retry.
func occupyPort(t *testing.T) (net.Listener, int) {
	t.Helper()

	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() {
		listener.Close()
	})

	return listener, listener.Addr().(*net.TCPAddr).Port
}

// waitForServer polls until something accepts connections on the port.
func waitForServer(t *testing.T, port int) {
	t.Helper()

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	for i := 0; i < 100; i++ {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server never started listening on %s", addr)
}

func TestServerStart_RetriesNextPortWhenInUse(t *testing.T) {
	// Given: the configured port is already taken
	_, port := occupyPort(t)

	cfg := testutil.NewTestConfig()
	cfg.App.Port = port
	cfg.App.PortRetries = 2

	srv := bootstrap.New(cfg, http.NotFoundHandler())

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// Then: the server comes up on the next port
	waitForServer(t, port+1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	err := <-serverErrors
	assert.ErrorIs(t, err, http.ErrServerClosed)
	assert.Equal(t, port+1, srv.Port())
}

func TestServerStart_FailsWhenRetriesExhausted(t *testing.T) {
	// Given: the configured port is taken and no retries are allowed
	_, port := occupyPort(t)

	cfg := testutil.NewTestConfig()
	cfg.App.Port = port
	cfg.App.PortRetries = 0

	srv := bootstrap.New(cfg, http.NotFoundHandler())

	// When: starting the server
	err := srv.Start()

	// Then: the bind error surfaces instead of an endless retry
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind listener")
}
