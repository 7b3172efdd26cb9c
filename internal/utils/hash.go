package utils

import (
	"strconv"
	"unicode/utf16"
)

// Djb2 returns the djb2-xor hash of s as lowercase hex. The hash runs over UTF-16
// code units in 32-bit unsigned arithmetic so keys match those written by the
// extension. Not collision resistant; use only for cache bucketing.
func Djb2(s string) string {
	var h uint32 = 5381
	for _, c := range utf16.Encode([]rune(s)) {
		h = ((h << 5) + h) ^ uint32(c)
	}
	return strconv.FormatUint(uint64(h), 16)
}

// Truncate caps s at max UTF-16 code units, the length the extension measures.
// A character that needs a surrogate pair and would straddle the limit is dropped
// whole rather than split.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i, r := range s {
		w := 1
		if r > 0xFFFF {
			w = 2
		}
		if n+w > max {
			return s[:i]
		}
		n += w
	}
	return s
}
