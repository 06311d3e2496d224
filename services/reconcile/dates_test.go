package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"2025-01-15T00:00:00Z", "01/15/2025"},
		{"2025-01-15T18:30:00.000+00:00", "01/15/2025"},
		{"2025-01-15", "01/15/2025"},
		{"", UndefinedDate},
		{"not a date", UndefinedDate},
		{"2025-13-45T00:00:00Z", UndefinedDate},
	}

	for _, c := range cases {
		require.Equal(t, c.expected, FormatDate(c.input), c.input)
	}
}
