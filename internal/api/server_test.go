package api

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pickupgames/internal/testutil"
)

// Test: OnShutdown hooks release a long-lived response so Shutdown returns promptly
func TestServerShutdownReleasesStreams(t *testing.T) {
	release := make(chan struct{})
	streaming := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		close(streaming)
		<-release
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := DefaultServerConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = 5 * time.Second
	server := NewServer(handler, cfg, testutil.NopLogger())
	server.OnShutdown(func() { close(release) })

	served := make(chan error, 1)
	go func() { served <- server.Serve(ln) }()

	require.Eventually(t, func() bool { return server.Addr() == ln.Addr().String() }, time.Second, 10*time.Millisecond)

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err == nil {
			_ = resp.Body.Close()
		}
	}()
	select {
	case <-streaming:
	case <-time.After(2 * time.Second):
		t.Fatal("stream never started")
	}

	start := time.Now()
	require.NoError(t, server.Shutdown(context.Background()))
	assert.Less(t, time.Since(start), cfg.ShutdownTimeout)
	assert.NoError(t, <-served)
}
