package mind

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"companion/internal/ai"
)

// stateUpdateWindow is how much history the updater sees. Wider than the
// selector's window: slow-moving attributes surface over many turns.
const stateUpdateWindow = 30

// SnapshotUpdater infers snapshot attribute updates from the latest user
// message.
type SnapshotUpdater struct {
	provider ai.Provider
}

// NewSnapshotUpdater creates a SnapshotUpdater.
func NewSnapshotUpdater(provider ai.Provider) *SnapshotUpdater {
	return &SnapshotUpdater{provider: provider}
}

// Infer returns the attributes to merge. An empty map on any failure; an
// uncertain update never touches the snapshot.
func (u *SnapshotUpdater) Infer(ctx context.Context, userText string, recent []Turn, snapshot Snapshot) map[string]string {
	payload := map[string]any{
		"user_text": userText,
		"history":   toLines(recent),
		"snapshot":  snapshot,
	}

	raw, err := u.provider.Invoke(ctx, ai.RoleSnapshotUpdate, payload, 0.4)
	if err != nil || raw == "" {
		return nil
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &out); err != nil {
		log.Debug().Err(err).Msg("snapshot updater returned unparseable result")
		return nil
	}

	updates := make(map[string]string, len(out))
	for k, v := range out {
		switch val := v.(type) {
		case string:
			updates[k] = val
		case float64, bool:
			updates[k] = fmt.Sprint(val)
		}
	}
	return updates
}
