package syncer

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ivlev/scrolly/internal/media"
	"github.com/ivlev/scrolly/internal/playback"
	"github.com/ivlev/scrolly/internal/ticker"
)

const frame = time.Second / 60

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	sched *ticker.Manual
	media *media.Simulated
	sync  *Synchronizer
}

func newHarness(duration float64, opts Options) *harness {
	opts.Logger = quietLogger()
	sched := ticker.NewManual(epoch)
	m := media.NewSimulated(duration, 0)
	return &harness{sched: sched, media: m, sync: New(m, sched, opts)}
}

// run advances the element and then the scheduler, as a browser frame would.
func (h *harness) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		h.media.Advance(frame)
		h.sched.Tick(frame)
	}
}

func TestWaitsForMedia(t *testing.T) {
	h := newHarness(10, Options{Framerate: 30})
	h.media.SetReady(false)
	h.sync.Start()
	h.sync.SetProgress(0.5)
	h.run(100 * time.Millisecond)

	if h.sync.State().Loaded {
		t.Fatal("Expected not loaded before media is ready")
	}
	if !h.media.Paused() {
		t.Error("Media should not be driven before it is ready")
	}

	h.media.SetReady(true)
	h.run(frame)
	st := h.sync.State()
	if !st.Loaded || st.Duration != 10 {
		t.Errorf("Expected loaded with duration 10, got %+v", st)
	}
}

func TestForwardCatchUp(t *testing.T) {
	h := newHarness(10, Options{Framerate: 30, MaxSpeed: 4})
	h.sync.Start()
	h.sync.SetProgress(0.5)
	h.run(frame)

	if h.media.Paused() {
		t.Fatal("Expected playback to start")
	}
	if rate := h.media.PlaybackRate(); rate != 4 {
		t.Errorf("Expected saturated rate 4, got %f", rate)
	}

	h.run(5 * time.Second)
	st := h.sync.State()
	if st.TargetFrame != 150 {
		t.Errorf("Expected target frame 150, got %f", st.TargetFrame)
	}
	if st.ActualFrame < 148 || st.ActualFrame > 152 {
		t.Errorf("Expected actual frame near 150, got %f", st.ActualFrame)
	}
	if st.Rewinding {
		t.Error("Did not expect a rewind")
	}
	t.Logf("Settled at frame %.0f (%s)", st.ActualFrame, st.Decision)
}

func TestRewindTowardTarget(t *testing.T) {
	h := newHarness(10, Options{Framerate: 30, MaxSpeed: 4})
	h.media.SetCurrentTime(8)
	h.sync.Start()
	h.sync.SetProgress(0.5)
	h.run(frame)

	if !h.media.Paused() {
		t.Error("Expected forward playback paused during rewind")
	}
	if !h.sync.State().Rewinding {
		t.Fatal("Expected rewind request")
	}

	prev := h.media.CurrentTime()
	for i := 0; i < 300 && h.sync.State().Rewinding; i++ {
		h.run(frame)
		if cur := h.media.CurrentTime(); cur > prev {
			t.Fatalf("Media time increased during rewind: %f > %f", cur, prev)
		}
		prev = h.media.CurrentTime()
	}
	if h.sync.State().Rewinding {
		t.Fatal("Rewind did not finish")
	}
	if target := 151.0 / 30; h.media.CurrentTime() < target-1e-9 {
		t.Errorf("Rewound below target %f: %f", target, h.media.CurrentTime())
	}
}

func TestBoundarySnaps(t *testing.T) {
	h := newHarness(10, Options{Framerate: 30, MaxSpeed: 4})
	h.media.SetCurrentTime(5)
	h.sync.Start()
	h.run(frame)
	h.sync.SetProgress(0)
	if h.media.CurrentTime() != 0 {
		t.Errorf("Expected snap to 0, got %f", h.media.CurrentTime())
	}

	h.sync.SetProgress(1)
	if h.media.CurrentTime() != 10 {
		t.Errorf("Expected snap to 10, got %f", h.media.CurrentTime())
	}
	if h.sync.State().Decision != playback.SnapEnd {
		t.Errorf("Expected snap-end decision, got %s", h.sync.State().Decision)
	}
}

func TestHoldPauses(t *testing.T) {
	h := newHarness(10, Options{Framerate: 30})
	h.media.SetCurrentTime(5)
	h.sync.Start()
	h.sync.SetProgress(0.5)
	h.run(frame)

	if !h.media.Paused() {
		t.Error("Expected paused at equilibrium")
	}
	if h.sync.State().Decision != playback.Hold {
		t.Errorf("Expected hold, got %s", h.sync.State().Decision)
	}
}

func TestCloseCancelsEverything(t *testing.T) {
	h := newHarness(10, Options{Framerate: 30})
	h.media.SetCurrentTime(9)
	h.sync.Start()
	h.sync.SetProgress(0.2)
	h.run(frame)
	if !h.sync.State().Rewinding {
		t.Fatal("Expected a running rewind")
	}

	h.sync.Close()
	if h.sched.Pending() != 0 {
		t.Errorf("Expected no pending callbacks after Close, got %d", h.sched.Pending())
	}
	at := h.media.CurrentTime()
	h.run(time.Second)
	if h.media.CurrentTime() != at {
		t.Errorf("Media moved after Close: %f -> %f", at, h.media.CurrentTime())
	}
}

func TestObserver(t *testing.T) {
	var states []State
	h := newHarness(10, Options{Framerate: 30, Observer: func(s State) { states = append(states, s) }})
	h.sync.Start()
	h.sync.SetProgress(0.5)
	h.run(frame)

	if len(states) == 0 {
		t.Fatal("Observer not called")
	}
	last := states[len(states)-1]
	if last.ID != h.sync.ID() || last.Decision != playback.Forward {
		t.Errorf("Unexpected observed state: %+v", last)
	}
}

func TestDefaults(t *testing.T) {
	h := newHarness(10, Options{})
	if h.sync.opts.Framerate != 60 || h.sync.opts.MaxSpeed != 4 {
		t.Errorf("Expected defaults 60/4, got %v/%v", h.sync.opts.Framerate, h.sync.opts.MaxSpeed)
	}
}
