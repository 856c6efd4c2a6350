package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseThreshold parses an optional numeric query parameter; empty means fallback
func ParseThreshold(s string, fallback float64) (float64, error) {
	// Trim whitespace first
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
