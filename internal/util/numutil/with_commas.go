package numutil

import "fmt"

type integer interface {
	~int | ~int64 | ~uint | ~uint64
}

// WithCommas returns a string representation of an integer with commas.
//
// Example:
//
//	12345 -> "12,345"
func WithCommas[T integer](i T) string {
	if i < 0 {
		return "-" + WithCommas(-i)
	}
	if i < 1000 {
		return fmt.Sprintf("%d", i)
	}
	return WithCommas(i/1000) + "," + fmt.Sprintf("%03d", i%1000)
}
