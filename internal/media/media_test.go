package media

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSimulatedAdvance(t *testing.T) {
	s := NewSimulated(10, 0)
	s.Advance(time.Second)
	if s.CurrentTime() != 0 {
		t.Errorf("Paused element moved to %f", s.CurrentTime())
	}

	if err := s.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	s.SetPlaybackRate(2)
	s.Advance(500 * time.Millisecond)
	if math.Abs(s.CurrentTime()-1) > 1e-9 {
		t.Errorf("Expected 1s at 2x, got %f", s.CurrentTime())
	}

	s.Advance(time.Minute)
	if s.CurrentTime() != 10 || !s.Paused() {
		t.Errorf("Expected ended at 10s, got %f paused=%v", s.CurrentTime(), s.Paused())
	}
}

func TestSimulatedSeekLatency(t *testing.T) {
	s := NewSimulated(10, 50*time.Millisecond)
	s.SetCurrentTime(4)
	if !s.Seeking() {
		t.Error("Expected seeking right after SetCurrentTime")
	}
	s.Advance(30 * time.Millisecond)
	if !s.Seeking() {
		t.Error("Expected still seeking after 30ms")
	}
	s.Advance(30 * time.Millisecond)
	if s.Seeking() {
		t.Error("Expected seek complete after 60ms")
	}
	s.SetCurrentTime(-3)
	if s.CurrentTime() != 0 {
		t.Errorf("Expected clamp to 0, got %f", s.CurrentTime())
	}
	if s.Seeks != 2 {
		t.Errorf("Expected 2 seeks, got %d", s.Seeks)
	}
}

func TestSimulatedNotReady(t *testing.T) {
	s := NewSimulated(10, 0)
	s.SetReady(false)
	if err := s.Play(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}
}

func TestRemoteCommands(t *testing.T) {
	r := NewRemote()
	if err := r.Play(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}

	r.Report(State{Ready: true, Duration: 12, CurrentTime: 3, Paused: true})
	r.SetPlaybackRate(1) // unchanged, not sent
	r.SetPlaybackRate(3)
	if err := r.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	r.Pause()
	r.Pause() // already paused, not sent
	r.SetCurrentTime(2.5)

	cmds := r.Drain()
	want := []Command{{Op: "rate", Value: 3}, {Op: "play"}, {Op: "pause"}, {Op: "seek", Value: 2.5}}
	if len(cmds) != len(want) {
		t.Fatalf("Expected %d commands, got %v", len(want), cmds)
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Errorf("Command %d: expected %+v, got %+v", i, want[i], cmds[i])
		}
	}
	if r.CurrentTime() != 2.5 {
		t.Errorf("Expected mirrored time 2.5, got %f", r.CurrentTime())
	}
	if len(r.Drain()) != 0 {
		t.Error("Drain should clear the queue")
	}
}
