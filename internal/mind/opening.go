package mind

import (
	"context"

	"companion/internal/ai"
)

// openingFallback is the canned first line when the capability fails.
const openingFallback = "Hey, I'm here. Want to start with the one small thing that stood out to you today?"

// Opening builds the session's first line. The probe persona runs in opening
// mode: no history yet, just the snapshot carried over from last time.
type Opening struct {
	provider ai.Provider
}

// NewOpening creates an Opening.
func NewOpening(provider ai.Provider) *Opening {
	return &Opening{provider: provider}
}

// Build returns the opening line. Never empty.
func (o *Opening) Build(ctx context.Context, snapshot Snapshot) string {
	payload := map[string]any{
		"mode":         "opening",
		"user_state":   snapshot,
		"talk_history": []historyLine{},
	}
	reply, err := o.provider.Invoke(ctx, ai.RoleProbe, payload, 0.6)
	if err != nil || reply == "" {
		return openingFallback
	}
	return reply
}
