package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sparsegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, Params{N: 5000, NNZ: 50000000}, cfg.Params())
	assert.Equal(t, "test_3.txt", cfg.Output)

	size, err := cfg.BufferBytes()
	require.NoError(t, err)
	assert.Equal(t, writeBufferSize, size)
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := parseConfig([]string{"-n", "5", "-nnz", "10", "-o", "out.txt", "-buffer", "1MiB", "-verbose"})
	require.NoError(t, err)
	assert.Equal(t, Params{N: 5, NNZ: 10}, cfg.Params())
	assert.Equal(t, "out.txt", cfg.Output)
	assert.True(t, cfg.Verbose)

	size, err := cfg.BufferBytes()
	require.NoError(t, err)
	assert.Equal(t, 1<<20, size)
}

func TestParseConfigFileAndFlags(t *testing.T) {
	path := writeConfig(t, "n: 7\nnnz: 70\noutput: from_file.txt\nlisten: \":9090\"\nmax_n: 50\n")

	cfg, err := parseConfig([]string{"-config", path, "-nnz", "3", "-max-nnz", "9"})
	require.NoError(t, err)
	// flag wins over file, file wins over defaults
	assert.Equal(t, Params{N: 7, NNZ: 3}, cfg.Params())
	assert.Equal(t, "from_file.txt", cfg.Output)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 50, cfg.MaxN)
	assert.Equal(t, 9, cfg.MaxNNZ)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "rows: 5\n"))
		assert.Error(t, err)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})
}

func TestParseConfigInvalid(t *testing.T) {
	_, err := parseConfig([]string{"-n", "abc"})
	assert.Error(t, err)

	_, err = parseConfig([]string{"extra"})
	assert.Error(t, err)
}

func TestBufferBytesInvalid(t *testing.T) {
	for _, v := range []string{"lots", "0", "2GiB"} {
		cfg := DefaultConfig()
		cfg.BufferSize = v
		_, err := cfg.BufferBytes()
		assert.Error(t, err, v)
	}
}
