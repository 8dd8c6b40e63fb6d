package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

type Config struct {
	N          int    `yaml:"n"`
	NNZ        int    `yaml:"nnz"`
	Output     string `yaml:"output"`
	BufferSize string `yaml:"buffer_size"`
	Listen     string `yaml:"listen"`
	MaxN       int    `yaml:"max_n"`
	MaxNNZ     int    `yaml:"max_nnz"`
	Verbose    bool   `yaml:"verbose"`
}

func DefaultConfig() *Config {
	return &Config{
		N:          defaultN,
		NNZ:        defaultNNZ,
		Output:     defaultOutput,
		BufferSize: humanize.IBytes(writeBufferSize),
		MaxN:       defaultMaxN,
		MaxNNZ:     defaultMaxNNZ,
	}
}

// LoadConfig reads a YAML file on top of the defaults.
// Keys missing from the file keep their default value.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fail to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("fail to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Params() Params {
	return Params{N: c.N, NNZ: c.NNZ}
}

// BufferBytes parses BufferSize ("128KiB", "1MB", "4096").
func (c *Config) BufferBytes() (int, error) {
	if c.BufferSize == "" {
		return writeBufferSize, nil
	}
	size, err := humanize.ParseBytes(c.BufferSize)
	if err != nil {
		return 0, fmt.Errorf("invalid buffer size %q: %w", c.BufferSize, err)
	}
	if size == 0 || size > 1<<30 {
		return 0, fmt.Errorf("invalid buffer size %q: must be between 1B and 1GiB", c.BufferSize)
	}
	return int(size), nil
}

// parseConfig builds the configuration from defaults, the optional -config
// file and the command line, in increasing precedence.
func parseConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("sparsegen", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "YAML config file")
		n          = fs.Int(Param_N, defaultN, "number of rows and columns")
		nnz        = fs.Int(Param_NNZ, defaultNNZ, "number of matrix entries to generate")
		output     = fs.String("o", defaultOutput, "output file")
		bufSize    = fs.String("buffer", humanize.IBytes(writeBufferSize), "write buffer size")
		listen     = fs.String("listen", "", "serve downloads on this address instead of writing a file")
		maxN       = fs.Int("max-n", defaultMaxN, "largest n accepted over HTTP, 0 for no limit")
		maxNNZ     = fs.Int("max-nnz", defaultMaxNNZ, "largest nnz accepted over HTTP, 0 for no limit")
		verbose    = fs.Bool("verbose", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return nil, err
		}
	}

	// only flags given explicitly override the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case Param_N:
			cfg.N = *n
		case Param_NNZ:
			cfg.NNZ = *nnz
		case "o":
			cfg.Output = *output
		case "buffer":
			cfg.BufferSize = *bufSize
		case "listen":
			cfg.Listen = *listen
		case "max-n":
			cfg.MaxN = *maxN
		case "max-nnz":
			cfg.MaxNNZ = *maxNNZ
		case "verbose":
			cfg.Verbose = *verbose
		}
	})
	return cfg, nil
}
