package mind

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"companion/internal/ai"
)

func TestModeSelectorParsesMode(t *testing.T) {
	p := newStubProvider()
	sel := NewModeSelector(p)

	p.replies[ai.RoleSelectMode] = `{"mode": "L"}`
	require.Equal(t, ModeDirect, sel.Select(context.Background(), "just tell me", true, NewSnapshot(), nil))

	p.replies[ai.RoleSelectMode] = `{"mode": "sum"}`
	require.Equal(t, ModeSummarize, sel.Select(context.Background(), "", false, NewSnapshot(), nil))
}

func TestModeSelectorStripsCodeFences(t *testing.T) {
	p := newStubProvider()
	sel := NewModeSelector(p)

	p.replies[ai.RoleSelectMode] = "```json\n{\"mode\": \"T\"}\n```"
	require.Equal(t, ModeDeliberate, sel.Select(context.Background(), "", true, NewSnapshot(), nil))
}

func TestModeSelectorDefaultsToProbe(t *testing.T) {
	p := newStubProvider()
	sel := NewModeSelector(p)

	p.errs[ai.RoleSelectMode] = errors.New("capability down")
	require.Equal(t, ModeProbe, sel.Select(context.Background(), "", true, NewSnapshot(), nil))

	delete(p.errs, ai.RoleSelectMode)
	for _, raw := range []string{"", "no idea", `{"mode": "WALTZ"}`, `{"engine": "T"}`} {
		p.replies[ai.RoleSelectMode] = raw
		require.Equal(t, ModeProbe, sel.Select(context.Background(), "", true, NewSnapshot(), nil), "raw %q", raw)
	}
}
