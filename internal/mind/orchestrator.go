package mind

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"companion/internal/ai"
	"companion/pkg/jobmgr"
)

const tickJobName = "tick-loop"

// Options configures the orchestrator's pacing.
type Options struct {
	TickInterval          time.Duration
	MaxConsecutiveReplies int
	// CallTimeout bounds one full pipeline execution, covering every
	// external judgment call it makes.
	CallTimeout time.Duration
}

func (o *Options) applyDefaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = 9 * time.Second
	}
	if o.MaxConsecutiveReplies <= 0 {
		o.MaxConsecutiveReplies = 3
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 3 * time.Minute
	}
}

// Orchestrator is the top-level scheduler. One background tick loop and one
// synchronous user path both funnel through the same decide-and-emit
// pipeline; the mutex makes them mutually exclusive, so the limiter, graph
// and history see mutations in arrival order.
type Orchestrator struct {
	mu   sync.Mutex
	opts Options

	store    Store
	history  *History
	snapshot Snapshot
	limiter  *ReplyLimiter
	nav      *Navigator

	gate       *SpeakGate
	selector   *ModeSelector
	updater    *SnapshotUpdater
	opening    *Opening
	dispatcher *Dispatcher

	jobs    *jobmgr.Manager
	onReply func(text string)

	// coin drives the fast-forward persona flip; replaceable in tests.
	coin func() float64
}

// New wires the full pipeline. onReply fires exactly once per accepted
// pipeline execution that produces non-empty text.
func New(provider ai.Provider, store Store, opts Options, onReply func(string)) *Orchestrator {
	opts.applyDefaults()

	snapshot := NewSnapshot()
	if stored, err := store.Snapshot(); err != nil {
		log.Warn().Err(err).Msg("could not load stored snapshot, starting fresh")
	} else {
		snapshot.Merge(stored)
	}

	nav := NewNavigator()
	if err := store.SaveGraph(DefaultFirstMeetGraph()); err != nil {
		log.Warn().Err(err).Msg("could not persist default graph")
	}

	builder := NewGraphBuilder(provider, store)

	o := &Orchestrator{
		opts:       opts,
		store:      store,
		history:    NewHistory(),
		snapshot:   snapshot,
		limiter:    NewReplyLimiter(opts.MaxConsecutiveReplies),
		nav:        nav,
		gate:       NewSpeakGate(provider),
		selector:   NewModeSelector(provider),
		updater:    NewSnapshotUpdater(provider),
		opening:    NewOpening(provider),
		dispatcher: NewDispatcher(provider, nav, NewMoveAdvisor(provider), builder),
		jobs: jobmgr.NewManager(func(msg string) {
			log.Debug().Str("job", msg).Msg("job status")
		}),
		onReply: onReply,
		coin:    rand.Float64,
	}
	return o
}

// Start launches the tick loop and emits the opening line.
func (o *Orchestrator) Start() error {
	if err := o.jobs.StartAsync(tickJobName, o.tickLoop); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	ctx, cancel := o.callCtx()
	defer cancel()
	o.emit(o.opening.Build(ctx, o.snapshot.Clone()), "opening")
	return nil
}

// Stop cancels the tick loop and waits for the current cycle to finish.
// In-flight external calls are not drained, only no new cycles start.
func (o *Orchestrator) Stop() {
	if err := o.jobs.Stop(tickJobName); err == nil {
		o.jobs.Wait(tickJobName)
	}
}

func (o *Orchestrator) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(o.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			o.OnTick()
		}
	}
}

// OnTick runs one idle cycle: no new user text, userTriggered=false.
func (o *Orchestrator) OnTick() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runPipeline("", false)
}

// OnUserText handles one inbound user message: record the turn, refresh the
// snapshot, reset the pacing counter, then run the same pipeline with
// userTriggered=true.
func (o *Orchestrator) OnUserText(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	turn := o.history.AppendUser(text)
	if err := o.store.AppendTurn(turn); err != nil {
		log.Warn().Err(err).Msg("could not persist user turn")
	}

	ctx, cancel := o.callCtx()
	updates := o.updater.Infer(ctx, text, o.history.Recent(stateUpdateWindow), o.snapshot.Clone())
	cancel()
	if len(updates) > 0 {
		o.snapshot.Merge(updates)
		if err := o.store.MergeSnapshot(updates); err != nil {
			log.Warn().Err(err).Msg("could not persist snapshot updates")
		}
		log.Debug().Int("keys", len(updates)).Msg("snapshot updated")
	}

	o.limiter.OnUserTurn()
	o.runPipeline(text, true)
}

// OnFastForward resets the pacing counter and runs one dispatch immediately.
// Half the time it forces the deliberative persona with a random non-default
// graph from the pool; otherwise the normal selection runs.
func (o *Orchestrator) OnFastForward() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.limiter.OnUserTurn()

	ctx, cancel := o.callCtx()
	defer cancel()

	mode := Mode("")
	if o.coin() < 0.5 {
		g, err := o.store.RandomNonDefaultGraph()
		if err != nil {
			log.Warn().Err(err).Msg("could not load graph pool")
		} else if g != nil {
			o.nav.Load(g)
			mode = ModeDeliberate
			log.Info().Str("graph", g.ID).Msg("fast-forward with pooled graph")
		}
	}
	if mode == "" {
		mode = o.selector.Select(ctx, "", false, o.snapshot.Clone(), o.history.Recent(selectorWindow))
		log.Info().Str("mode", string(mode)).Msg("fast-forward with selected mode")
	}

	o.emit(o.dispatcher.Dispatch(ctx, mode, "", false, o.snapshot.Clone(), o.history), mode)
}

// Reset returns the session to its first-meeting state: default graph, blank
// snapshot. History stays.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nav.Load(DefaultFirstMeetGraph())
	o.snapshot = NewSnapshot()
	if err := o.store.MergeSnapshot(o.snapshot); err != nil {
		log.Warn().Err(err).Msg("could not persist snapshot reset")
	}
	log.Info().Msg("session reset to first meeting")
}

// runPipeline is the single decide-and-emit path both event sources share.
// Caller must hold o.mu.
func (o *Orchestrator) runPipeline(userText string, userTriggered bool) {
	ctx, cancel := o.callCtx()
	defer cancel()

	if !o.gate.ShouldReply(ctx, o.history.Recent(speakGateWindow), userTriggered) {
		log.Debug().Bool("user_triggered", userTriggered).Msg("speak gate closed")
		return
	}
	if !o.limiter.MayReply() {
		log.Debug().Int("consecutive", o.limiter.Consecutive()).Msg("reply suppressed by pacing guard")
		return
	}

	mode := o.selector.Select(ctx, userText, userTriggered, o.snapshot.Clone(), o.history.Recent(selectorWindow))
	log.Info().Str("mode", string(mode)).Bool("user_triggered", userTriggered).Msg("persona selected")

	o.emit(o.dispatcher.Dispatch(ctx, mode, userText, userTriggered, o.snapshot.Clone(), o.history), mode)
}

// emit records and publishes a system reply. Empty text means the cycle
// stays silent and nothing fires. Caller must hold o.mu.
func (o *Orchestrator) emit(text string, mode Mode) {
	if strings.TrimSpace(text) == "" {
		return
	}

	turn := o.history.AppendSystem(text)
	if err := o.store.AppendTurn(turn); err != nil {
		log.Warn().Err(err).Msg("could not persist system turn")
	}
	o.limiter.OnSystemTurn()

	log.Info().Str("mode", string(mode)).Int("consecutive", o.limiter.Consecutive()).Msg("reply emitted")
	if o.onReply != nil {
		o.onReply(text)
	}
}

func (o *Orchestrator) callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), o.opts.CallTimeout)
}
