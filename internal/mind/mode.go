package mind

import "strings"

// Mode is the persona selected for one turn.
type Mode string

const (
	ModeProbe      Mode = "Q"   // light probing, fills snapshot gaps
	ModeDeliberate Mode = "T"   // graph-grounded deliberation
	ModeDirect     Mode = "L"   // direct answer
	ModeSummarize  Mode = "SUM" // session recap
	ModeDeepen     Mode = "D"   // deepen the previous deliberative reply
)

// ParseMode maps arbitrary external text to a Mode. Anything outside the
// closed set, including empty input, resolves to ModeProbe. This is the single
// place the "unparseable means Q" rule lives.
func ParseMode(raw string) Mode {
	switch Mode(strings.ToUpper(strings.TrimSpace(raw))) {
	case ModeProbe:
		return ModeProbe
	case ModeDeliberate:
		return ModeDeliberate
	case ModeDirect:
		return ModeDirect
	case ModeSummarize:
		return ModeSummarize
	case ModeDeepen:
		return ModeDeepen
	default:
		return ModeProbe
	}
}
