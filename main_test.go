package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_3.txt")
	cfg, err := parseConfig([]string{"-n", "5", "-nnz", "10", "-o", path, "-buffer", "4KiB"})
	require.NoError(t, err)

	require.NoError(t, run(context.Background(), cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, smallMatrix, string(data))
}

func TestRunRejectsZeroDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_3.txt")
	cfg, err := parseConfig([]string{"-n", "0", "-o", path})
	require.NoError(t, err)

	assert.ErrorIs(t, run(context.Background(), cfg), ErrInvalidDimension)
}

func TestServePortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := DefaultConfig()
	cfg.Listen = ln.Addr().String()
	assert.Error(t, serve(context.Background(), cfg))
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Listen = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
