package mind

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"companion/internal/ai"
)

func newTestOrchestrator(t *testing.T, p *stubProvider, store *memStore, maxReplies int) (*Orchestrator, *[]string) {
	t.Helper()
	var replies []string
	o := New(p, store, Options{
		TickInterval:          time.Hour, // ticks are driven manually
		MaxConsecutiveReplies: maxReplies,
		CallTimeout:           time.Second,
	}, func(text string) {
		replies = append(replies, text)
	})
	return o, &replies
}

func allowSpeech(p *stubProvider) {
	p.replies[ai.RoleShouldSpeak] = `{"should_reply": true}`
}

func TestTickStaysSilentWhenGateUncertain(t *testing.T) {
	p := newStubProvider() // gate returns "", which closes the idle path
	o, replies := newTestOrchestrator(t, p, newMemStore(), 3)

	o.OnTick()

	require.Empty(t, *replies)
	require.Zero(t, p.callCount(ai.RoleSelectMode))
}

func TestUserTextRunsFullPipeline(t *testing.T) {
	p := newStubProvider()
	allowSpeech(p)
	p.replies[ai.RoleSelectMode] = `{"mode": "L"}`
	p.replies[ai.RoleDirect] = "Short version: yes."
	store := newMemStore()
	o, replies := newTestOrchestrator(t, p, store, 3)

	before := o.nav.CurrentNode().ID
	o.OnUserText("just give me the answer")

	require.Equal(t, []string{"Short version: yes."}, *replies)
	require.Equal(t, before, o.nav.CurrentNode().ID)

	// Both turns were recorded and persisted.
	require.Equal(t, 2, o.history.Len())
	require.Len(t, store.turns, 2)
	require.Equal(t, SpeakerUser, store.turns[0].Speaker)
	require.Equal(t, SpeakerSystem, store.turns[1].Speaker)
	require.Equal(t, 1, o.limiter.Consecutive())
}

func TestUserTextIgnoresBlankInput(t *testing.T) {
	p := newStubProvider()
	allowSpeech(p)
	o, replies := newTestOrchestrator(t, p, newMemStore(), 3)

	o.OnUserText("   ")

	require.Empty(t, *replies)
	require.Zero(t, o.history.Len())
}

func TestPacingGuardSuppressesThirdTick(t *testing.T) {
	p := newStubProvider()
	allowSpeech(p)
	p.replies[ai.RoleSelectMode] = `{"mode": "Q"}`
	p.replies[ai.RoleProbe] = "Still thinking about what you said."
	o, replies := newTestOrchestrator(t, p, newMemStore(), 2)

	o.OnTick()
	o.OnTick()
	o.OnTick()
	require.Len(t, *replies, 2)

	// A user turn resets the counter and speech resumes.
	p.replies[ai.RoleDirect] = "Back with you."
	p.replies[ai.RoleSelectMode] = `{"mode": "L"}`
	o.OnUserText("still there?")
	require.Len(t, *replies, 3)
}

func TestUserTextMergesAndPersistsSnapshotUpdates(t *testing.T) {
	p := newStubProvider()
	allowSpeech(p)
	p.replies[ai.RoleSnapshotUpdate] = `{"emotion": "stressed", "concern": "deadline"}`
	p.replies[ai.RoleSelectMode] = `{"mode": "Q"}`
	p.replies[ai.RoleProbe] = "Deadline pressure again?"
	store := newMemStore()
	o, _ := newTestOrchestrator(t, p, store, 3)

	o.OnUserText("the deadline is killing me")

	require.Equal(t, "stressed", o.snapshot["emotion"])
	require.Equal(t, "deadline", o.snapshot["concern"])
	require.Equal(t, "stressed", store.snapshot["emotion"])
	require.Equal(t, Undiscovered, o.snapshot["energy"])
}

func TestFastForwardForcesDeliberationOnPooledGraph(t *testing.T) {
	p := newStubProvider()
	p.replies[ai.RoleDeliberate] = "Picking that thread back up."
	store := newMemStore()
	store.pool = twoBranchGraph()
	o, replies := newTestOrchestrator(t, p, store, 3)
	o.coin = func() float64 { return 0.0 }

	o.OnFastForward()

	require.Equal(t, []string{"Picking that thread back up."}, *replies)
	require.Equal(t, "N1", o.nav.CurrentNode().ID)
	require.Zero(t, p.callCount(ai.RoleSelectMode))
	require.Equal(t, 1, p.callCount(ai.RoleDeliberate))
}

func TestFastForwardFallsBackToSelectionWithoutPool(t *testing.T) {
	p := newStubProvider()
	p.replies[ai.RoleSelectMode] = `{"mode": "SUM"}`
	p.replies[ai.RoleSummarize] = "So far we covered two things."
	o, replies := newTestOrchestrator(t, p, newMemStore(), 3)
	o.coin = func() float64 { return 0.0 } // heads, but the pool is empty

	o.OnFastForward()

	require.Equal(t, []string{"So far we covered two things."}, *replies)
	require.Equal(t, 1, p.callCount(ai.RoleSelectMode))
}

func TestFastForwardTailsRunsNormalSelection(t *testing.T) {
	p := newStubProvider()
	p.replies[ai.RoleSelectMode] = `{"mode": "D"}`
	p.replies[ai.RoleDeepen] = "One layer further down."
	store := newMemStore()
	store.pool = twoBranchGraph()
	o, replies := newTestOrchestrator(t, p, store, 3)
	o.coin = func() float64 { return 0.9 }

	o.OnFastForward()

	require.Equal(t, []string{"One layer further down."}, *replies)
	require.Equal(t, DefaultGraphID, o.nav.Export().ID)
}

func TestFastForwardResetsPacingCounter(t *testing.T) {
	p := newStubProvider()
	allowSpeech(p)
	p.replies[ai.RoleSelectMode] = `{"mode": "Q"}`
	p.replies[ai.RoleProbe] = "Here's a thought."
	o, replies := newTestOrchestrator(t, p, newMemStore(), 1)

	o.OnTick()
	o.OnTick() // suppressed by the pacing guard
	require.Len(t, *replies, 1)

	o.coin = func() float64 { return 0.9 }
	o.OnFastForward()
	require.Len(t, *replies, 2)
}

func TestResetRestoresFirstMeetingState(t *testing.T) {
	p := newStubProvider()
	allowSpeech(p)
	p.replies[ai.RoleSnapshotUpdate] = `{"emotion": "upbeat"}`
	p.replies[ai.RoleSelectMode] = `{"mode": "Q"}`
	p.replies[ai.RoleProbe] = "Good to hear."
	store := newMemStore()
	o, _ := newTestOrchestrator(t, p, store, 3)

	o.OnUserText("feeling great today")
	o.nav.Advance("N1")
	require.Equal(t, "upbeat", o.snapshot["emotion"])

	o.Reset()

	require.Equal(t, "N0", o.nav.CurrentNode().ID)
	require.Equal(t, DefaultGraphID, o.nav.Export().ID)
	require.Equal(t, Undiscovered, o.snapshot["emotion"])
	require.Equal(t, Undiscovered, store.snapshot["emotion"])
	// History is deliberately kept across a reset.
	require.Equal(t, 2, o.history.Len())
}

func TestNewSeedsDefaultGraphIntoPool(t *testing.T) {
	p := newStubProvider()
	store := newMemStore()
	newTestOrchestrator(t, p, store, 3)

	require.Contains(t, store.graphs, DefaultGraphID)
}

func TestNewLoadsStoredSnapshot(t *testing.T) {
	p := newStubProvider()
	store := newMemStore()
	store.snapshot["emotion"] = "weary"
	o, _ := newTestOrchestrator(t, p, store, 3)

	require.Equal(t, "weary", o.snapshot["emotion"])
	require.Equal(t, Undiscovered, o.snapshot["need"])
}
