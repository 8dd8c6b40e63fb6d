package main

import (
	"time"

	"github.com/labstack/echo/v4"
)

const (
	writeBufferSize = 128 * 1024 // 128KB
	checkEvery      = 1 << 16    // entries between two context checks
	maxProcessTime  = 15 * time.Minute

	defaultN      = 5000
	defaultNNZ    = 50000000
	defaultOutput = "test_3.txt"
	defaultMaxN   = 1000000
	defaultMaxNNZ = 50000000

	Param_N   = "n"
	Param_NNZ = "nnz"
)

// Init registers the download routes on e, generating with the sizes in cfg.
func Init(e *echo.Echo, cfg *Config) error {
	bufSize, err := cfg.BufferBytes()
	if err != nil {
		return err
	}
	s := &service{cfg: cfg, gen: NewGenerator(bufSize)}
	setController(e, s)
	return nil
}

func setController(e *echo.Echo, s *service) {
	e.GET("/generate", func(c echo.Context) error { return s.Download(c) })
	e.GET("/size", func(c echo.Context) error { return s.Size(c) })
	e.HEAD("/size", func(c echo.Context) error { return s.Size(c) })
}
