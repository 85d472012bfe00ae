package machine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/codec"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/runner"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/story"
	"github.com/google/uuid"
)

var (
	ErrStoryMismatch  = errors.New("story mismatch")
	ErrStopped        = errors.New("machine stopped")
	ErrAlreadyRunning = errors.New("machine already running")
)

type Scheduler interface {
	Execute(ctx context.Context, req runner.Request, onProgress runner.ProgressFunc) (*result.StoryResult, error)
}

// Downloader hands a saved result file to the user.
type Downloader interface {
	TriggerDownload(filename string, data []byte) error
}

type envelope struct {
	event Event
	reply chan Snapshot
}

// Machine is the benchmark controller for one active story. All context
// mutation happens on the goroutine running Run, one event at a time.
type Machine struct {
	provider   story.Provider
	scheduler  Scheduler
	downloader Downloader

	events  chan envelope
	done    chan struct{}
	started atomic.Bool
	current atomic.Pointer[Snapshot]

	observersMu sync.Mutex
	observers   map[int]func(Snapshot)
	nextObs     int

	// owned by the loop goroutine
	loopCtx   context.Context
	state     State
	story     story.Story
	rc        RunContext
	runID     string
	cancelRun context.CancelFunc
}

type Option func(*Machine)

func WithSizes(sizes ...int) Option {
	return func(m *Machine) {
		m.rc.Sizes = normalizeSizes(sizes)
	}
}

// WithValues sets the initial copies and samples; they are clamped to the sizes.
func WithValues(copies, samples int) Option {
	return func(m *Machine) {
		m.rc.Current.Copies = copies
		m.rc.Current.Samples = samples
	}
}

func New(provider story.Provider, scheduler Scheduler, downloader Downloader, storyID string, opts ...Option) (*Machine, error) {
	s, err := provider.Story(storyID)
	if err != nil {
		return nil, fmt.Errorf("resolve active story: %w", err)
	}

	m := &Machine{
		provider:   provider,
		scheduler:  scheduler,
		downloader: downloader,
		events:     make(chan envelope),
		done:       make(chan struct{}),
		observers:  make(map[int]func(Snapshot)),
		state:      StateIdle,
		story:      s,
		rc: RunContext{
			Current: Values{
				Copies:  runner.DefaultCopies,
				Samples: runner.DefaultSamples,
			},
			Sizes: append([]int(nil), runner.DefaultSizes...),
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.rc.Current.Copies = clamp(m.rc.Current.Copies, m.rc.Sizes)
	m.rc.Current.Samples = clamp(m.rc.Current.Samples, m.rc.Sizes)

	m.publish()
	return m, nil
}

// Run processes events until ctx is done. A run in flight is asked to stop at
// its next trial boundary; Run does not wait for it.
func (m *Machine) Run(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(m.done)

	m.loopCtx = ctx
	slog.Info("Benchmark machine started", "story", m.story.ID)

	for {
		select {
		case <-ctx.Done():
			if m.cancelRun != nil {
				m.cancelRun()
			}
			slog.Info("Benchmark machine stopped", "story", m.story.ID)
			return nil
		case env := <-m.events:
			m.handle(env.event)
			snap := m.publish()
			if env.reply != nil {
				env.reply <- snap
			}
			m.notify(snap)
		}
	}
}

// Dispatch hands ev to the machine and returns the snapshot after it was
// processed. Events the current state does not accept leave it unchanged.
func (m *Machine) Dispatch(ctx context.Context, ev Event) (Snapshot, error) {
	reply := make(chan Snapshot, 1)

	select {
	case m.events <- envelope{event: ev, reply: reply}:
	case <-m.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-m.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Snapshot returns the state published after the last processed event.
func (m *Machine) Snapshot() Snapshot {
	return *m.current.Load()
}

// OnChange registers fn to be called with every new snapshot. fn runs on the
// machine goroutine and must not call Dispatch. The returned func unregisters it.
func (m *Machine) OnChange(fn func(Snapshot)) func() {
	m.observersMu.Lock()
	defer m.observersMu.Unlock()

	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn

	return func() {
		m.observersMu.Lock()
		defer m.observersMu.Unlock()
		delete(m.observers, id)
	}
}

// Await blocks until a snapshot satisfies pred or ctx is done.
func (m *Machine) Await(ctx context.Context, pred func(Snapshot) bool) (Snapshot, error) {
	matched := make(chan Snapshot, 1)
	unsubscribe := m.OnChange(func(s Snapshot) {
		if pred(s) {
			select {
			case matched <- s:
			default:
			}
		}
	})
	defer unsubscribe()

	if s := m.Snapshot(); pred(s) {
		return s, nil
	}

	select {
	case s := <-matched:
		return s, nil
	case <-m.done:
		if s := m.Snapshot(); pred(s) {
			return s, nil
		}
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Healthy reports whether the event loop is running.
func (m *Machine) Healthy(ctx context.Context) bool {
	if !m.started.Load() {
		return false
	}
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

func (m *Machine) post(ev Event) {
	select {
	case m.events <- envelope{event: ev}:
	case <-m.done:
	}
}

func (m *Machine) publish() Snapshot {
	snap := Snapshot{
		State: m.state,
		Story: StoryInfo{
			ID:           m.story.ID,
			Name:         m.story.Name,
			Interactions: m.story.InteractionNames(),
		},
		Context:    m.rc.clone(),
		NextEvents: m.nextEvents(),
		Comparison: result.Compare(m.rc.Current.Results, m.rc.Pinned),
	}
	m.current.Store(&snap)
	return snap
}

func (m *Machine) notify(snap Snapshot) {
	m.observersMu.Lock()
	fns := make([]func(Snapshot), 0, len(m.observers))
	for _, fn := range m.observers {
		fns = append(fns, fn)
	}
	m.observersMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Machine) nextEvents() []EventType {
	var out []EventType
	for _, t := range publicEvents {
		if m.state.Accepts(t) && m.guard(t, nil) {
			out = append(out, t)
		}
	}
	return out
}

// guard holds the context conditions on top of the state table. ev is nil
// when only the event type is known.
func (m *Machine) guard(t EventType, ev Event) bool {
	switch t {
	case EventSetValues:
		return m.rc.Pinned == nil
	case EventPin, EventSave:
		return m.rc.Current.Results != nil
	case EventUnpin:
		return m.rc.Pinned != nil
	case eventRunProgress:
		p, ok := ev.(runProgress)
		return ok && p.runID == m.runID
	case eventRunFinished:
		f, ok := ev.(runFinished)
		return ok && f.runID == m.runID
	default:
		return true
	}
}

func (m *Machine) handle(ev Event) {
	if ev == nil {
		return
	}
	if !m.state.Accepts(ev.Type()) || !m.guard(ev.Type(), ev) {
		slog.Debug("Event ignored", "event", ev.Type(), "state", m.state)
		return
	}

	switch e := ev.(type) {
	case SetValues:
		m.setValues(e)
	case StartAll:
		m.startAll()
	case Cancel:
		m.cancel()
	case Pin:
		m.pin()
	case Unpin:
		m.unpin()
	case Save:
		m.save()
	case LoadFromFile:
		m.load(e)
	case SelectStory:
		m.selectStory(e)
	case runProgress:
		m.progress(e.progress)
	case runFinished:
		m.finish(e)
	}
}

func (m *Machine) setValues(e SetValues) {
	m.rc.Current.Copies = clamp(e.Copies, m.rc.Sizes)
	m.rc.Current.Samples = clamp(e.Samples, m.rc.Sizes)
	m.rc.Message = ""
}

func (m *Machine) startAll() {
	ctx := m.loopCtx
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)

	runID := uuid.NewString()
	m.runID = runID
	m.cancelRun = cancel
	m.state = StateRunning

	req := runner.Request{
		Story: m.story,
		Config: runner.Config{
			Copies:  m.rc.Current.Copies,
			Samples: m.rc.Current.Samples,
		},
		RunID: runID,
	}
	m.rc.Message = fmt.Sprintf("Running %s with %s of %s",
		m.story.Name, samplesLabel(req.Config.Samples), copiesLabel(req.Config.Copies))
	slog.Info("Run started", "story", m.story.ID, "run_id", runID, "copies", req.Config.Copies, "samples", req.Config.Samples)

	go func() {
		res, err := m.scheduler.Execute(runCtx, req, func(p runner.Progress) {
			m.post(runProgress{runID: runID, progress: p})
		})
		m.post(runFinished{runID: runID, result: res, err: err})
	}()
}

func (m *Machine) cancel() {
	m.state = StateCancelling
	m.cancelRun()
	m.rc.Message = "Cancelling after the current trial"
	slog.Info("Run cancellation requested", "story", m.story.ID, "run_id", m.runID)
}

func (m *Machine) progress(p runner.Progress) {
	if m.state == StateCancelling {
		return
	}
	switch p.Kind {
	case runner.ProgressTrial:
		m.rc.Message = fmt.Sprintf("%s: copy %d/%d, sample %d/%d (%d/%d trials)",
			p.Interaction, p.Copy+1, m.rc.Current.Copies, p.Sample+1, m.rc.Current.Samples, p.Completed, p.Total)
	case runner.ProgressInteraction:
		if p.Result != nil {
			m.rc.Message = fmt.Sprintf("%s finished (%d/%d): mean %.2fms",
				p.Interaction, p.InteractionIndex+1, p.InteractionCount, p.Result.Aggregate.Mean)
		}
	}
}

func (m *Machine) finish(f runFinished) {
	wasCancelling := m.state == StateCancelling
	if m.cancelRun != nil {
		m.cancelRun()
	}
	m.cancelRun = nil
	m.runID = ""
	m.state = StateIdle

	total := len(m.story.Interactions)
	completed := 0
	if f.result != nil {
		completed = len(f.result.Interactions)
	}

	switch {
	case f.err == nil:
		m.rc.Current.Results = f.result
		if wasCancelling {
			m.rc.Message = "Run completed before cancellation took effect"
		} else {
			m.rc.Message = fmt.Sprintf("Completed %s of %s across %d interactions",
				samplesLabel(f.result.Samples), copiesLabel(f.result.Copies), completed)
		}
		slog.Info("Run completed", "story", m.story.ID, "run_id", f.runID, "interactions", completed)

	case errors.Is(f.err, runner.ErrCancelled):
		m.rc.Message = fmt.Sprintf("Cancelled after %d of %d interactions", completed, total)
		slog.Info("Run cancelled", "story", m.story.ID, "run_id", f.runID, "completed", completed, "total", total)

	case errors.Is(f.err, result.ErrEmptySampleSet):
		m.rc.Message = fmt.Sprintf("Run aborted: %v", f.err)
		slog.Error("Run aborted on invariant violation", "story", m.story.ID, "run_id", f.runID, "error", f.err)

	default:
		m.rc.Message = fmt.Sprintf("Run failed: %v", f.err)
		slog.Warn("Run failed", "story", m.story.ID, "run_id", f.runID, "error", f.err)
	}
}

func (m *Machine) pin() {
	m.rc.Pinned = m.rc.Current.Results.Clone()
	m.lockValuesTo(m.rc.Pinned)
	m.rc.Message = "Pinned current result as baseline"
}

func (m *Machine) unpin() {
	m.rc.Pinned = nil
	m.rc.Message = "Baseline unpinned"
}

// lockValuesTo makes the next run use the baseline's configuration.
func (m *Machine) lockValuesTo(r *result.StoryResult) {
	m.rc.Current.Copies = r.Copies
	m.rc.Current.Samples = r.Samples
}

func (m *Machine) save() {
	payload := codec.Payload{
		Current: *m.rc.Current.Results,
		Pinned:  m.rc.Pinned,
	}
	data, err := codec.Encode(payload)
	if err != nil {
		m.rc.Message = fmt.Sprintf("Could not save results: %v", err)
		slog.Error("Encode results failed", "story", m.story.ID, "error", err)
		return
	}

	filename := Filename(m.story.Name)
	if err := m.downloader.TriggerDownload(filename, data); err != nil {
		m.rc.Message = fmt.Sprintf("Could not save results: %v", err)
		slog.Error("Download failed", "story", m.story.ID, "file", filename, "error", err)
		return
	}
	m.rc.Message = fmt.Sprintf("Saved results to %s", filename)
	slog.Info("Results saved", "story", m.story.ID, "file", filename, "with_pinned", m.rc.Pinned != nil)
}

func (m *Machine) load(e LoadFromFile) {
	name := e.FileName
	if name == "" {
		name = "file"
	}

	p, err := codec.Decode(e.Data)
	if err != nil {
		m.rc.Message = fmt.Sprintf("Could not load %s: %v", name, err)
		slog.Warn("Load results failed", "story", m.story.ID, "file", e.FileName, "error", err)
		return
	}
	if p.Current.StoryName != m.story.Name {
		err := fmt.Errorf("%w: file holds results for %q, active story is %q", ErrStoryMismatch, p.Current.StoryName, m.story.Name)
		m.rc.Message = fmt.Sprintf("Could not load %s: %v", name, err)
		slog.Warn("Load results rejected", "story", m.story.ID, "file", e.FileName, "error", err)
		return
	}

	if !isSize(p.Current.Copies, m.rc.Sizes) || !isSize(p.Current.Samples, m.rc.Sizes) {
		err := fmt.Errorf("%w: %s and %s are not selectable sizes %v", codec.ErrMalformedPayload,
			copiesLabel(p.Current.Copies), samplesLabel(p.Current.Samples), m.rc.Sizes)
		m.rc.Message = fmt.Sprintf("Could not load %s: %v", name, err)
		slog.Warn("Load results rejected", "story", m.story.ID, "file", e.FileName, "error", err)
		return
	}

	pinned := p.Current
	m.rc.Pinned = &pinned
	m.lockValuesTo(m.rc.Pinned)
	m.rc.Message = fmt.Sprintf("Loaded baseline from %s", name)
	slog.Info("Baseline loaded", "story", m.story.ID, "file", e.FileName)
}

func (m *Machine) selectStory(e SelectStory) {
	if e.StoryID == m.story.ID {
		return
	}
	s, err := m.provider.Story(e.StoryID)
	if err != nil {
		m.rc.Message = fmt.Sprintf("Could not select story: %v", err)
		return
	}
	m.story = s
	m.rc.Current.Results = nil
	m.rc.Pinned = nil
	m.rc.Message = ""
	slog.Info("Story selected", "story", s.ID)
}
