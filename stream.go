package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
)

type service struct {
	cfg *Config
	gen *Generator
}

type sizeResponse struct {
	N     int    `json:"n"`
	NNZ   int    `json:"nnz"`
	Bytes int64  `json:"bytes"`
	Human string `json:"human"`
}

// flushWriter pushes every buffered chunk to the client as soon as it is written
type flushWriter struct {
	resp *echo.Response
}

func (f *flushWriter) Write(b []byte) (int, error) {
	n, err := f.resp.Write(b)
	if err != nil {
		return n, err
	}
	f.resp.Flush()
	return n, nil
}

// stream the generated file to the client
func (s *service) Download(c echo.Context) error {
	p, err := s.paramsFromQuery(c)
	if err != nil {
		return err
	}

	// generate context with specific timeout
	ctx, cancel := context.WithTimeout(c.Request().Context(), maxProcessTime)
	defer cancel()

	// nothing written yet, the status code can still be changed
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Errorf("Processing generate timeout")
			return echo.NewHTTPError(http.StatusGatewayTimeout, "Processing timeout")
		}
		return nil
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	resp.Header().Set(echo.HeaderContentLength, strconv.FormatInt(Size(p), 10))
	resp.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("matrix_%d_%d.txt", p.N, p.NNZ)))
	resp.WriteHeader(http.StatusOK)

	written, err := s.gen.WriteMatrix(ctx, &flushWriter{resp: resp}, p)
	if err != nil {
		// header is committed, status code cannot be changed anymore
		logger.Errorf("stream aborted after %s: %v", humanize.Bytes(uint64(written)), err)
		return nil
	}
	logger.Debugf("streamed %d x %d matrix, %s", p.N, p.N, humanize.Bytes(uint64(written)))
	return nil
}

// report the size of the file without generating it
func (s *service) Size(c echo.Context) error {
	p, err := s.paramsFromQuery(c)
	if err != nil {
		return err
	}
	size := Size(p)
	return c.JSON(http.StatusOK, sizeResponse{
		N:     p.N,
		NNZ:   p.NNZ,
		Bytes: size,
		Human: humanize.Bytes(uint64(size)),
	})
}

func (s *service) paramsFromQuery(c echo.Context) (Params, error) {
	p := s.cfg.Params()
	if v := c.QueryParam(Param_N); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Errorf("failed to parse n: %s", v)
			return p, echo.NewHTTPError(http.StatusBadRequest, v+" is not a number")
		}
		p.N = n
	}
	if v := c.QueryParam(Param_NNZ); v != "" {
		nnz, err := strconv.Atoi(v)
		if err != nil {
			logger.Errorf("failed to parse nnz: %s", v)
			return p, echo.NewHTTPError(http.StatusBadRequest, v+" is not a number")
		}
		p.NNZ = nnz
	}
	if err := p.Validate(); err != nil {
		logger.Errorf("rejected request: %v", err)
		return p, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if s.cfg.MaxN > 0 && p.N > s.cfg.MaxN {
		msg := fmt.Sprintf("n %d exceeds the limit of %d", p.N, s.cfg.MaxN)
		logger.Error(msg)
		return p, echo.NewHTTPError(http.StatusBadRequest, msg)
	}
	if s.cfg.MaxNNZ > 0 && p.NNZ > s.cfg.MaxNNZ {
		msg := fmt.Sprintf("nnz %d exceeds the limit of %d", p.NNZ, s.cfg.MaxNNZ)
		logger.Error(msg)
		return p, echo.NewHTTPError(http.StatusBadRequest, msg)
	}
	// with the limits disabled the size can still saturate
	if Size(p) == math.MaxInt64 {
		msg := fmt.Sprintf("n=%d nnz=%d is too large to stream", p.N, p.NNZ)
		logger.Error(msg)
		return p, echo.NewHTTPError(http.StatusBadRequest, msg)
	}
	return p, nil
}
