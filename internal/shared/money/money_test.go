package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPaise(t *testing.T) {
	assert.Equal(t, "₹283.50", FormatPaise(28350))
	assert.Equal(t, "₹0.05", FormatPaise(5))
	assert.Equal(t, "₹0.00", FormatPaise(0))
	assert.Equal(t, "-₹1.00", FormatPaise(-100))
}
