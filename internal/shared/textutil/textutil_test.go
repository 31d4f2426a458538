package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 10, "abc"},
		{"exact", "abcdef", 6, "abcdef"},
		{"ascii", "abcdef", 4, "abcd"},
		{"zero keeps input", "abc", 0, "abc"},
		// ₹ is 3 bytes
		{"inside rune", "ab₹", 4, "ab"},
		{"rune boundary", "ab₹c", 5, "ab₹"},
		{"only multibyte", "₹₹", 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestTruncate_LongNote(t *testing.T) {
	s := strings.Repeat("a", 254) + "₹₹"
	got := Truncate(s, 255)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 254), got)
}
