package mind

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"companion/internal/ai"
)

// speakGateWindow is how many recent turns the gate sees.
const speakGateWindow = 5

// SpeakGate asks the judgment capability whether the companion should say
// anything at all this cycle.
type SpeakGate struct {
	provider ai.Provider
}

// NewSpeakGate creates a SpeakGate.
func NewSpeakGate(provider ai.Provider) *SpeakGate {
	return &SpeakGate{provider: provider}
}

// ShouldReply returns the external judgment on whether to speak. On any
// failure it fails open when the user triggered this cycle and closed
// otherwise: always answer a direct message, never volunteer speech when
// uncertain in the idle path.
func (g *SpeakGate) ShouldReply(ctx context.Context, recent []Turn, userTriggered bool) bool {
	payload := map[string]any{
		"recent_lines":   toLines(recent),
		"user_triggered": userTriggered,
	}

	raw, err := g.provider.Invoke(ctx, ai.RoleShouldSpeak, payload, 0.1)
	if err != nil || raw == "" {
		return userTriggered
	}

	var out struct {
		ShouldReply any `json:"should_reply"`
	}
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &out); err != nil {
		log.Debug().Err(err).Msg("speak gate returned unparseable result")
		return userTriggered
	}

	switch v := out.ShouldReply.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return userTriggered
	}
}
