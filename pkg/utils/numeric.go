package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseLooseFloat reads the longest numeric prefix of s after leading
// whitespace, the way browsers parse form numbers. Input without such a
// prefix yields NaN.
func ParseLooseFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	m := floatPrefix.FindString(s)
	if m == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	// out of range input saturates to ±Inf
	v, _ := strconv.ParseFloat(m, 64)
	return v
}

// ParseLooseInt reads the leading base-10 integer of s. ok is false when s
// has no integer prefix.
func ParseLooseInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	m := intPrefix.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}
