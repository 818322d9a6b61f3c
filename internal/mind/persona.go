package mind

import (
	"context"

	"github.com/rs/zerolog/log"

	"companion/internal/ai"
)

// History windows per persona. Deliberation and recap want more context than
// light probing.
const (
	probeWindow      = 10
	deliberateWindow = 10
	summarizeWindow  = 20
	deepenWindow     = 12
)

// Low-commitment fallback lines, used only on the user-triggered path when
// the completion capability fails. The tick path stays silent instead.
const (
	probeFallback      = "I'm listening, tell me more."
	deliberateFallback = "We could split this into two or three pieces and look at them one by one. Which part weighs on you most?"
	directFallback     = "Let me give you a rough direction for now; if you want, we can refine it together."
)

// Dispatcher routes a selected mode to its persona behavior. Each persona is
// a thin call to the completion capability under its own role and
// temperature; only the deliberative persona touches the graph.
type Dispatcher struct {
	provider ai.Provider
	nav      *Navigator
	advisor  *MoveAdvisor
	builder  *GraphBuilder
}

// NewDispatcher creates a Dispatcher around the shared navigator.
func NewDispatcher(provider ai.Provider, nav *Navigator, advisor *MoveAdvisor, builder *GraphBuilder) *Dispatcher {
	return &Dispatcher{provider: provider, nav: nav, advisor: advisor, builder: builder}
}

// Dispatch runs the persona for mode and returns the reply text. Empty text
// means "stay silent this cycle". Unrecognized modes behave as ModeProbe.
func (d *Dispatcher) Dispatch(ctx context.Context, mode Mode, userText string, userTriggered bool, snapshot Snapshot, history *History) string {
	switch mode {
	case ModeDeliberate:
		return d.deliberate(ctx, userText, userTriggered, snapshot, history)
	case ModeDirect:
		return d.direct(ctx, userText, userTriggered, snapshot)
	case ModeSummarize:
		return d.summarize(ctx, userText, snapshot, history)
	case ModeDeepen:
		return d.deepen(ctx, userText, snapshot, history)
	default:
		return d.probe(ctx, userText, userTriggered, snapshot, history)
	}
}

// probe is the light persona: short small talk that fills snapshot gaps.
func (d *Dispatcher) probe(ctx context.Context, userText string, userTriggered bool, snapshot Snapshot, history *History) string {
	payload := map[string]any{
		"user_text":    userText,
		"user_state":   snapshot,
		"talk_history": toLines(history.Recent(probeWindow)),
	}
	reply, err := d.provider.Invoke(ctx, ai.RoleProbe, payload, 0.5)
	if (err != nil || reply == "") && userTriggered {
		return probeFallback
	}
	if err != nil {
		return ""
	}
	return reply
}

// deliberate grounds the reply in the current graph node, then lets the move
// advisor steer the graph: rebuild wins when signaled, otherwise the decision
// is applied as a plain move.
func (d *Dispatcher) deliberate(ctx context.Context, userText string, userTriggered bool, snapshot Snapshot, history *History) string {
	recent := history.Recent(deliberateWindow)

	payload := map[string]any{
		"user_text":     userText,
		"snapshot":      snapshot,
		"talk_history":  toLines(recent),
		"current_graph": d.nav.Export(),
	}
	reply, err := d.provider.Invoke(ctx, ai.RoleDeliberate, payload, 0.6)
	if err != nil || reply == "" {
		if userTriggered {
			return deliberateFallback
		}
		return ""
	}

	current := d.nav.CurrentNode()
	decision := d.advisor.DecideMove(ctx, current, userText, reply, snapshot, recent, d.nav.Export())

	if decision.Rebuild {
		g, err := d.builder.Build(ctx, userText, snapshot, recent)
		if err != nil {
			log.Warn().Err(err).Msg("graph rebuild failed, keeping current graph")
		} else {
			d.nav.Load(g)
			log.Info().Str("graph", g.ID).Str("reason", decision.Reason).Msg("discussion graph rebuilt")
		}
		return reply
	}

	d.nav.ApplyMove(decision)
	if decision.Move {
		log.Debug().Str("node", decision.NextID).Str("reason", decision.Reason).Msg("discussion graph advanced")
	}
	return reply
}

// direct answers the question with no graph interaction.
func (d *Dispatcher) direct(ctx context.Context, userText string, userTriggered bool, snapshot Snapshot) string {
	payload := map[string]any{
		"question":   userText,
		"user_state": snapshot,
	}
	reply, err := d.provider.Invoke(ctx, ai.RoleDirect, payload, 0.3)
	if (err != nil || reply == "") && userTriggered {
		return directFallback
	}
	if err != nil {
		return ""
	}
	return reply
}

// summarize writes the session recap from history plus a read-only graph
// export.
func (d *Dispatcher) summarize(ctx context.Context, userText string, snapshot Snapshot, history *History) string {
	payload := map[string]any{
		"user_text":     userText,
		"snapshot":      snapshot,
		"talk_history":  toLines(history.Recent(summarizeWindow)),
		"current_graph": d.nav.Export(),
	}
	reply, err := d.provider.Invoke(ctx, ai.RoleSummarize, payload, 0.3)
	if err != nil {
		return ""
	}
	return reply
}

// deepen elaborates the previous deliberative reply. Same topic, no graph.
func (d *Dispatcher) deepen(ctx context.Context, userText string, snapshot Snapshot, history *History) string {
	payload := map[string]any{
		"user_text":    userText,
		"user_state":   snapshot,
		"talk_history": toLines(history.Recent(deepenWindow)),
	}
	reply, err := d.provider.Invoke(ctx, ai.RoleDeepen, payload, 0.7)
	if err != nil {
		return ""
	}
	return reply
}
