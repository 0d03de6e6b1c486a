// Package formatting converts between human-readable text and the values
// coursecast configures or receives: byte sizes in config files and JSON
// objects embedded in model output.
package formatting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrByteSize is returned for byte size strings that do not parse.
var ErrByteSize = errors.New("invalid byte size")

// Binary multiples. "KB" and "KiB" both mean 1024 bytes.
var multiples = map[string]int64{
	"":  1,
	"B": 1,
	"K": 1 << 10,
	"M": 1 << 20,
	"G": 1 << 30,
	"T": 1 << 40,
}

var suffixes = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders n with the largest binary unit that keeps the value at
// or above one, using one decimal place for fractional values.
func FormatBytes(n int64) string {
	if n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}

	v := float64(n)
	i := 0
	for v >= 1024 && i < len(suffixes)-1 {
		v /= 1024
		i++
	}

	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + " " + suffixes[i]
}

// ParseBytes parses sizes such as "1MB", "512 KiB", "1.5g" or "2048".
// A bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrByteSize)
	}

	end := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if end == -1 {
		end = len(s)
	}

	num, unit := s[:end], strings.TrimSpace(s[end:])
	value, err := strconv.ParseFloat(num, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %q", ErrByteSize, s)
	}

	unit = strings.ToUpper(unit)
	unit = strings.TrimSuffix(unit, "IB")
	if len(unit) == 2 && unit[1] == 'B' {
		unit = unit[:1]
	}

	mult, ok := multiples[unit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit in %q", ErrByteSize, s)
	}

	return int64(value * float64(mult)), nil
}
