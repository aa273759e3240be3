// Package utils provides small, generic helpers shared across layers.
// Nothing here knows about conversations, notifications, or HTTP.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def when s is empty or not a
// number. Used for optional numeric query parameters.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PageWindow translates a 1-based page and page size into an offset/limit
// window. A page or size below 1 selects the full range (offset 0, limit 0);
// sizes above maxSize are clamped when maxSize is positive.
func PageWindow(page, size, maxSize int) (offset, limit int) {
	if page < 1 || size < 1 {
		return 0, 0
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return (page - 1) * size, size
}
