package mind

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"companion/internal/ai"
)

// selectorWindow is how many recent turns the selector sees.
const selectorWindow = 10

// ModeSelector asks the judgment capability which persona runs this turn.
// The selection heuristics live entirely on the prompt side; this component
// only validates and clamps the result to the closed enum.
type ModeSelector struct {
	provider ai.Provider
}

// NewModeSelector creates a ModeSelector.
func NewModeSelector(provider ai.Provider) *ModeSelector {
	return &ModeSelector{provider: provider}
}

// Select returns the mode for this turn. Any failure or out-of-enum result
// yields ModeProbe.
func (s *ModeSelector) Select(ctx context.Context, userText string, userTriggered bool, snapshot Snapshot, recent []Turn) Mode {
	payload := map[string]any{
		"user_text":      userText,
		"user_triggered": userTriggered,
		"snapshot":       snapshot,
		"talk_history":   toLines(recent),
	}

	raw, err := s.provider.Invoke(ctx, ai.RoleSelectMode, payload, 0.0)
	if err != nil || raw == "" {
		return ModeProbe
	}

	var out struct {
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &out); err != nil {
		log.Debug().Err(err).Msg("mode selector returned unparseable result")
		return ModeProbe
	}
	return ParseMode(out.Mode)
}
