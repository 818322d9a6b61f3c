package mind

import "time"

// historyCap bounds the in-memory log; older turns live only in storage.
const historyCap = 200

// History is the in-memory turn log. Append-only, bounded, not safe for
// concurrent use on its own; the orchestrator serializes access.
type History struct {
	turns []Turn
}

// NewHistory returns an empty log.
func NewHistory() *History {
	return &History{}
}

// AppendUser records a user turn and returns it.
func (h *History) AppendUser(text string) Turn {
	return h.append(SpeakerUser, text)
}

// AppendSystem records a system turn and returns it.
func (h *History) AppendSystem(text string) Turn {
	return h.append(SpeakerSystem, text)
}

func (h *History) append(sp Speaker, text string) Turn {
	t := Turn{At: time.Now(), Speaker: sp, Text: text}
	h.turns = append(h.turns, t)
	if len(h.turns) > historyCap {
		h.turns = h.turns[len(h.turns)-historyCap:]
	}
	return t
}

// Recent returns a copy of the most recent n turns, oldest first.
func (h *History) Recent(n int) []Turn {
	if n <= 0 || len(h.turns) == 0 {
		return nil
	}
	if n > len(h.turns) {
		n = len(h.turns)
	}
	out := make([]Turn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// Len returns the number of retained turns.
func (h *History) Len() int {
	return len(h.turns)
}
