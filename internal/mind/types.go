// Package mind is the companion's decision core: when to speak, which persona
// to speak with, and how to advance the discussion graph. All mutable state
// (history, snapshot, graph, rate counter) is owned by the Orchestrator and
// mutated only inside its pipeline.
package mind

import "time"

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerSystem Speaker = "system"
)

// Turn is one utterance by either party. Immutable once appended.
type Turn struct {
	At      time.Time `json:"time"`
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
}

// historyLine is the wire shape for turns inside judgment payloads. The
// completion side sees OpenAI-style roles, not internal speaker names.
type historyLine struct {
	Time string `json:"time"`
	Role string `json:"role"`
	Text string `json:"text"`
}

func toLines(turns []Turn) []historyLine {
	lines := make([]historyLine, 0, len(turns))
	for _, t := range turns {
		role := "assistant"
		if t.Speaker == SpeakerUser {
			role = "user"
		}
		lines = append(lines, historyLine{
			Time: t.At.Format("2006-01-02 15:04:05"),
			Role: role,
			Text: t.Text,
		})
	}
	return lines
}

// Undiscovered marks a snapshot attribute with no confident value yet.
const Undiscovered = "undiscovered"

// SnapshotKeys is the fixed attribute set of the understanding snapshot.
var SnapshotKeys = []string{
	"emotion",
	"energy",
	"activity",
	"location",
	"need",
	"social_state",
	"micro_desire",
	"body_state",
	"concern",
}

// Snapshot is the system's current best understanding of the user's
// situational attributes. Mutated only key-wise via Merge.
type Snapshot map[string]string

// NewSnapshot returns a snapshot with every attribute undiscovered.
func NewSnapshot() Snapshot {
	s := make(Snapshot, len(SnapshotKeys))
	for _, k := range SnapshotKeys {
		s[k] = Undiscovered
	}
	return s
}

// Merge overwrites attributes from updates. Keys outside the fixed set and
// empty values are dropped.
func (s Snapshot) Merge(updates map[string]string) {
	for _, k := range SnapshotKeys {
		if v, ok := updates[k]; ok && v != "" {
			s[k] = v
		}
	}
}

// Clone returns an independent copy.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
