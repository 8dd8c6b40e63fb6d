package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidDimension is returned when n <= 0 or nnz < 0.
var ErrInvalidDimension = errors.New("invalid dimension")

// Params of one generated matrix: an N x N matrix with NNZ entries.
type Params struct {
	N   int
	NNZ int
}

func (p Params) Validate() error {
	if p.N <= 0 {
		return fmt.Errorf("%w: n must be positive, got %d", ErrInvalidDimension, p.N)
	}
	if p.NNZ < 0 {
		return fmt.Errorf("%w: nnz must not be negative, got %d", ErrInvalidDimension, p.NNZ)
	}
	return nil
}

type Generator struct {
	bufferSize int
}

// NewGenerator returns a Generator writing through a buffer of bufferSize
// bytes, or writeBufferSize if bufferSize <= 0.
func NewGenerator(bufferSize int) *Generator {
	if bufferSize <= 0 {
		bufferSize = writeBufferSize
	}
	return &Generator{bufferSize: bufferSize}
}

// Generate creates (or truncates) the file at path and writes the matrix
// described by p into it. A failed run leaves the partial file behind.
func (g *Generator) Generate(ctx context.Context, p Params, path string) (written int64, err error) {
	if err = p.Validate(); err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		logger.Errorf("failed to create output file: %v", err)
		return 0, fmt.Errorf("fail to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("fail to close file: %w", cerr)
		}
	}()

	logger.Debugf("generating %d x %d matrix with %d entries into %s", p.N, p.N, p.NNZ, path)
	return g.WriteMatrix(ctx, file, p)
}

// WriteMatrix streams the header, the nnz entries and the vector to w.
func (g *Generator) WriteMatrix(ctx context.Context, w io.Writer, p Params) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	bw := bufio.NewWriterSize(cw, g.bufferSize)
	line := make([]byte, 0, 64)

	line = appendHeader(line[:0], p)
	if _, err := bw.Write(line); err != nil {
		return cw.n, fmt.Errorf("writing header error: %w", err)
	}

	n, nnz := int64(p.N), int64(p.NNZ)
	for i := int64(0); i < nnz; i++ {
		if i%checkEvery == 0 {
			if err := checkContext(ctx, i); err != nil {
				return cw.n, err
			}
		}
		line = appendEntry(line[:0], i, n)
		if _, err := bw.Write(line); err != nil {
			return cw.n, fmt.Errorf("writing entry %d error: %w", i, err)
		}
	}

	if err := bw.WriteByte('\n'); err != nil {
		return cw.n, fmt.Errorf("writing separator error: %w", err)
	}

	for j := int64(0); j < n; j++ {
		if j%checkEvery == 0 {
			if err := checkContext(ctx, nnz+j); err != nil {
				return cw.n, err
			}
		}
		line = appendVector(line[:0], j)
		if _, err := bw.Write(line); err != nil {
			return cw.n, fmt.Errorf("writing vector[%d] error: %w", j, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("flush error: %w", err)
	}
	return cw.n, nil
}

func checkContext(ctx context.Context, line int64) error {
	select {
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Errorf("generation timeout after %d lines", line)
		} else {
			logger.Warnf("generation cancelled after %d lines", line)
		}
		return err
	default:
		return nil
	}
}

// countingWriter records how many bytes reached the underlying writer
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
