package numutil

import "strconv"

// IntWithCommas returns a string representation of an integer with
// thousands separators.
//
// Example:
//
//	12345 -> "12,345"
func IntWithCommas[T ~int | ~int64](i T) string {
	s := strconv.FormatInt(int64(i), 10)

	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}

	for n := len(s) - 3; n > 0; n -= 3 {
		s = s[:n] + "," + s[n:]
	}
	return sign + s
}
