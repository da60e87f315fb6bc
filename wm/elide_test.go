package wm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElide(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 35, "hello"},
		{"fits with room", "hello", 100, "hello"},
		{"empty", "", 0, ""},
		{"truncated", "hello world", 50, "hell..."},
		{"only ellipsis", "hello world", 21, "..."},
		{"nothing fits", "hello world", 20, ""},
		{"runes", "ééééé", 30, "é..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := elide(fakeFont{}, tt.in, tt.width)
			require.Equal(t, tt.want, got)
			require.LessOrEqual(t, fakeFont{}.TextWidth(got), max(tt.width, 0))
		})
	}
}
