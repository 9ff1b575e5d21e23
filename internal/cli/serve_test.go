package cli

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, flags ServeFlags) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	srv, err := NewServer(ctx, flags)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	return "http://" + ln.Addr().String(), cancel, done
}

func TestServer_ServeAndShutdown(t *testing.T) {
	mr := miniredis.RunT(t)
	base, cancel, done := startServer(t, ServeFlags{RedisAddr: mr.Addr(), RedisTTL: time.Hour, LogLevel: "off"})

	req, err := http.NewRequest(http.MethodPut, base+"/sessions/s1", strings.NewReader(`{"width": 1024, "height": 768}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(base+"/sessions/s1/events", "application/json",
		strings.NewReader(`{"events": [{"kind": "pointermove", "x": 10, "y": 10}]}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", mr.HGet("exitintent:session:s1", "exit-intent-triggered"))

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "exitintent_triggers_total")
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewServer_RedisUnavailable(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	addr := mr.Addr()
	mr.Close()

	_, err := NewServer(context.Background(), ServeFlags{RedisAddr: addr, LogLevel: "off"})
	assert.ErrorContains(t, err, "redis unavailable")
}

func TestNewServer_BadLogLevel(t *testing.T) {
	_, err := NewServer(context.Background(), ServeFlags{LogLevel: "loud"})
	assert.Error(t, err)
}
