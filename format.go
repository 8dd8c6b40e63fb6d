package main

import (
	"bytes"
	"math"
	"strconv"
)

const (
	headerSuffix = "   # n y nnz\n"
	entryMarker  = "   # elemento "
	vectorPrefix = "1   # vector["
	vectorSuffix = "] = 1\n"
)

// entryAt returns the i-th generated triple of an n x n matrix.
// The same (row, col) pair repeats every n entries.
func entryAt(i, n int64) (row, col int64, value float64) {
	row = i % n
	return row, (row * 7) % n, float64(i%100) + 1.0
}

// header line followed by the blank separator
func appendHeader(dst []byte, p Params) []byte {
	dst = strconv.AppendInt(dst, int64(p.N), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(p.NNZ), 10)
	dst = append(dst, headerSuffix...)
	return append(dst, '\n')
}

func appendEntry(dst []byte, i, n int64) []byte {
	row, col, value := entryAt(i, n)
	dst = strconv.AppendInt(dst, row, 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, col, 10)
	dst = append(dst, ' ')
	dst = appendValue(dst, value)
	dst = append(dst, entryMarker...)
	dst = strconv.AppendInt(dst, i, 10)
	return append(dst, '\n')
}

func appendVector(dst []byte, j int64) []byte {
	dst = append(dst, vectorPrefix...)
	dst = strconv.AppendInt(dst, j, 10)
	return append(dst, vectorSuffix...)
}

// appendValue renders whole numbers with a trailing ".0" (1.0, 45.0),
// which is what existing consumers of the file expect.
func appendValue(dst []byte, v float64) []byte {
	start := len(dst)
	dst = strconv.AppendFloat(dst, v, 'f', -1, 64)
	if bytes.IndexByte(dst[start:], '.') < 0 {
		dst = append(dst, ".0"...)
	}
	return dst
}

// Size returns the exact number of bytes WriteMatrix produces for p,
// without generating the entries. It returns 0 for invalid params and
// saturates at math.MaxInt64. The cost is O(min(n, nnz)).
func Size(p Params) int64 {
	if p.Validate() != nil {
		return 0
	}
	n, nnz := int64(p.N), int64(p.NNZ)

	size := int64(len(appendHeader(nil, p)))

	// separators, marker and newline of every entry, plus the index digits
	size = satAdd(size, satMul(nnz, int64(2+len(entryMarker)+1)))
	size = satAdd(size, digitSum(nnz))

	// row and column digits repeat with period n
	var period, rem int64
	r := nnz % n
	for k := int64(0); k < min(n, nnz); k++ {
		_, col, _ := entryAt(k, n)
		w := digits(k) + digits(col)
		period += w
		if k < r {
			rem += w
		}
	}
	if nnz < n {
		period = 0
	}
	size = satAdd(size, satAdd(satMul(nnz/n, period), rem))

	// values repeat with period 100
	period, rem = 0, 0
	r = nnz % 100
	for k := int64(0); k < 100; k++ {
		w := int64(len(appendValue(nil, float64(k)+1.0)))
		period += w
		if k < r {
			rem += w
		}
	}
	size = satAdd(size, satAdd(satMul(nnz/100, period), rem))

	size = satAdd(size, 1) // blank line before the vector
	size = satAdd(size, satMul(n, int64(len(vectorPrefix)+len(vectorSuffix))))
	return satAdd(size, digitSum(n))
}

func digits(v int64) int64 {
	w := int64(1)
	for v >= 10 {
		v /= 10
		w++
	}
	return w
}

// digitSum is the total count of decimal digits of every integer in [0, m).
func digitSum(m int64) int64 {
	var total int64
	for lo, width := int64(0), int64(1); lo < m; width++ {
		hi := m
		if bound := pow10(width); bound > 0 && bound < m {
			hi = bound
		}
		total = satAdd(total, satMul(hi-lo, width))
		lo = hi
	}
	return total
}

// pow10 returns 10^w, or -1 when it does not fit in an int64.
func pow10(w int64) int64 {
	if w > 18 {
		return -1
	}
	v := int64(1)
	for ; w > 0; w-- {
		v *= 10
	}
	return v
}

// satAdd and satMul work on non-negative values and stop at math.MaxInt64.
func satAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func satMul(a, b int64) int64 {
	if a != 0 && b > math.MaxInt64/a {
		return math.MaxInt64
	}
	return a * b
}
