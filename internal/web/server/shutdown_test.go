package server

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *Server {
	cfg := DefaultConfig()
	cfg.Port = 0
	return New(cfg)
}

func TestDefaultShutdownConfig(t *testing.T) {
	config := DefaultShutdownConfig()

	assert.Equal(t, 30*time.Second, config.Timeout)
	require.Len(t, config.Signals, 2)

	expected := map[os.Signal]bool{
		syscall.SIGINT:  true,
		syscall.SIGTERM: true,
	}
	for _, sig := range config.Signals {
		assert.True(t, expected[sig], "unexpected signal %v", sig)
	}
}

func TestNewGracefulShutdownWithConfig(t *testing.T) {
	gs := NewGracefulShutdown(testServer(), &ShutdownConfig{
		Timeout: 10 * time.Second,
		Signals: []os.Signal{syscall.SIGTERM},
	})

	assert.Equal(t, 10*time.Second, gs.timeout)
	assert.Len(t, gs.signals, 1)
}

func TestNewGracefulShutdownNilConfig(t *testing.T) {
	gs := NewGracefulShutdown(testServer(), nil)

	assert.Equal(t, 30*time.Second, gs.timeout)
	assert.Len(t, gs.signals, 2)
}

func TestShutdownIsIdempotent(t *testing.T) {
	s := testServer()
	gs := NewGracefulShutdown(s, &ShutdownConfig{Timeout: time.Second})

	go func() {
		_ = s.Start()
	}()
	// Give the listener a moment to come up.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, gs.Shutdown())
	require.NoError(t, gs.Shutdown())
	require.NoError(t, gs.Wait())
}
