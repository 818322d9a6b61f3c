package mind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"Q", ModeProbe},
		{"T", ModeDeliberate},
		{"L", ModeDirect},
		{"SUM", ModeSummarize},
		{"D", ModeDeepen},
		{"sum", ModeSummarize},
		{"  t  ", ModeDeliberate},
		{"", ModeProbe},
		{"X", ModeProbe},
		{"question", ModeProbe},
		{"{\"mode\":\"T\"}", ModeProbe},
	}
	for _, c := range cases {
		require.Equal(t, c.want, ParseMode(c.in), "input %q", c.in)
	}
}
