package numutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCommas(t *testing.T) {
	assert.Equal(t, "0", WithCommas(0))
	assert.Equal(t, "999", WithCommas(999))
	assert.Equal(t, "1,000", WithCommas(1000))
	assert.Equal(t, "12,345", WithCommas(12345))
	assert.Equal(t, "1,234,567", WithCommas(1234567))
	assert.Equal(t, "-12,345", WithCommas(-12345))
	assert.Equal(t, "9,876,543,210", WithCommas(uint64(9876543210)))
}
