package mind

// ReplyLimiter is the pacing guard: it caps how many turns the system takes
// in a row before the user speaks again. Purely local arithmetic, no
// external calls, cannot fail. Not safe for concurrent use on its own; the
// orchestrator serializes access.
type ReplyLimiter struct {
	consecutive int
	max         int
}

// NewReplyLimiter creates a limiter allowing max consecutive system turns.
func NewReplyLimiter(max int) *ReplyLimiter {
	if max < 1 {
		max = 1
	}
	return &ReplyLimiter{max: max}
}

// OnSystemTurn records one accepted system turn.
func (l *ReplyLimiter) OnSystemTurn() {
	l.consecutive++
}

// OnUserTurn resets the consecutive counter.
func (l *ReplyLimiter) OnUserTurn() {
	l.consecutive = 0
}

// MayReply reports whether another system turn is allowed. Pure, no side
// effects.
func (l *ReplyLimiter) MayReply() bool {
	return l.consecutive < l.max
}

// Consecutive returns the current counter, for logs.
func (l *ReplyLimiter) Consecutive() int {
	return l.consecutive
}
