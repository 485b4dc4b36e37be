package transcript

import (
	"context"
	"testing"
	"time"
)

type fakeController struct {
	position float64
	playing  bool
	seeks    []float64
	pauses   int
}

func (f *fakeController) Seek(s float64) { f.position = s; f.seeks = append(f.seeks, s) }
func (f *fakeController) Play()          { f.playing = true }
func (f *fakeController) Pause()         { f.playing = false; f.pauses++ }
func (f *fakeController) Playing() bool  { return f.playing }

func TestActiveSegmentAtBoundaryTieBreak(t *testing.T) {
	segments := []Segment{
		{ID: "1", StartTime: 0, EndTime: 5},
		{ID: "2", StartTime: 5, EndTime: 10},
	}
	if i := ActiveSegmentAt(5.0, segments); i != 0 {
		t.Fatalf("position 5.0 resolved to index %d, want 0 (first in list order)", i)
	}
}

func TestActiveSegmentAtGap(t *testing.T) {
	segments := []Segment{
		{ID: "1", StartTime: 0, EndTime: 2},
		{ID: "2", StartTime: 4, EndTime: 6},
	}
	if i := ActiveSegmentAt(3.0, segments); i != -1 {
		t.Fatalf("gap position resolved to index %d, want -1", i)
	}
	if i := ActiveSegmentAt(4.5, segments); i != 1 {
		t.Fatalf("position 4.5 resolved to index %d, want 1", i)
	}
}

func TestPlaySegmentBoundedStop(t *testing.T) {
	ctrl := &fakeController{}
	sync := NewSynchronizer(ctrl)
	seg := Segment{ID: "1", StartTime: 2, EndTime: 5}

	sync.PlaySegment(seg)
	if ctrl.position != 2 || !ctrl.playing {
		t.Fatalf("expected seek to 2 and playing, got position=%v playing=%v", ctrl.position, ctrl.playing)
	}

	// Samples before the boundary must never fire the stop.
	sync.OnPosition(3.0)
	sync.OnPosition(4.99)
	if !ctrl.playing {
		t.Fatalf("stopped before reaching segment end")
	}

	sync.OnPosition(5.1)
	if ctrl.playing {
		t.Fatalf("expected pause at first sample past the boundary")
	}
	if ctrl.pauses != 1 {
		t.Fatalf("pauses = %d, want 1", ctrl.pauses)
	}

	// The stop is disarmed once fired; later samples must not pause again.
	ctrl.Play()
	sync.OnPosition(9.0)
	if !ctrl.playing || ctrl.pauses != 1 {
		t.Fatalf("stale bounded stop fired again (pauses=%d)", ctrl.pauses)
	}
}

func TestPlaySegmentStopAtExactBoundary(t *testing.T) {
	ctrl := &fakeController{}
	sync := NewSynchronizer(ctrl)
	sync.PlaySegment(Segment{ID: "1", StartTime: 0, EndTime: 5})

	sync.OnPosition(5.0)
	if ctrl.playing {
		t.Fatalf("expected pause at a sample exactly on the boundary")
	}
}

func TestToggle(t *testing.T) {
	ctrl := &fakeController{}
	sync := NewSynchronizer(ctrl)

	sync.Toggle()
	if !ctrl.playing {
		t.Fatalf("toggle from paused should play")
	}
	sync.Toggle()
	if ctrl.playing {
		t.Fatalf("toggle from playing should pause")
	}
}

func TestRunConsumesPositionStream(t *testing.T) {
	ctrl := &fakeController{}
	sync := NewSynchronizer(ctrl)
	sync.PlaySegment(Segment{ID: "1", StartTime: 0, EndTime: 3})

	positions := make(chan float64, 8)
	done := make(chan struct{})
	go func() {
		sync.Run(context.Background(), positions)
		close(done)
	}()

	positions <- 1.0
	positions <- 2.0
	positions <- 3.5
	close(positions)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after channel close")
	}
	if ctrl.playing {
		t.Fatalf("bounded stop did not fire from the position stream")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctrl := &fakeController{}
	sync := NewSynchronizer(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	positions := make(chan float64)
	done := make(chan struct{})
	go func() {
		sync.Run(ctx, positions)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after context cancel")
	}
}
