package transcript

import (
	"context"
	"sync"
)

// Controller is the audio side of the playback contract. The synchronizer
// never touches a media element directly; it issues seek/play/pause calls
// and consumes discrete position samples.
type Controller interface {
	Seek(seconds float64)
	Play()
	Pause()
	Playing() bool
}

// ActiveSegmentAt returns the index of the first segment in list order
// whose time range contains pos, or -1 when the position falls in a gap.
// Overlapping segments resolve to the first match.
func ActiveSegmentAt(pos float64, segments []Segment) int {
	for i := range segments {
		if pos >= segments[i].StartTime && pos <= segments[i].EndTime {
			return i
		}
	}
	return -1
}

// Synchronizer bridges the audio position stream to segment boundaries.
// It does not own the segment list.
type Synchronizer struct {
	ctrl Controller

	mu     sync.Mutex
	bound  bool
	stopAt float64
}

func NewSynchronizer(ctrl Controller) *Synchronizer {
	return &Synchronizer{ctrl: ctrl}
}

// PlaySegment seeks to the segment start, starts playback, and arms a
// bounded stop at the segment end. A later PlaySegment replaces any
// previously armed stop.
func (s *Synchronizer) PlaySegment(seg Segment) {
	s.mu.Lock()
	s.bound = true
	s.stopAt = seg.EndTime
	s.mu.Unlock()

	s.ctrl.Seek(seg.StartTime)
	s.ctrl.Play()
}

// Toggle starts playback if paused and pauses it if playing.
func (s *Synchronizer) Toggle() {
	if s.ctrl.Playing() {
		s.ctrl.Pause()
	} else {
		s.ctrl.Play()
	}
}

// OnPosition consumes one position sample. An armed bounded stop fires at
// the first sample at or past the boundary and is then disarmed, so it
// never pauses a later, unrelated playback.
func (s *Synchronizer) OnPosition(pos float64) {
	s.mu.Lock()
	fire := s.bound && pos >= s.stopAt
	if fire {
		s.bound = false
	}
	s.mu.Unlock()

	if fire {
		s.ctrl.Pause()
	}
}

// Run consumes a position-update channel until it closes or ctx is done.
// Only the most recent sample matters, so any backlog is drained and stale
// samples are discarded.
func (s *Synchronizer) Run(ctx context.Context, positions <-chan float64) {
	for {
		select {
		case <-ctx.Done():
			return
		case pos, ok := <-positions:
			if !ok {
				return
			}
			for {
				select {
				case next, ok := <-positions:
					if !ok {
						s.OnPosition(pos)
						return
					}
					pos = next
					continue
				default:
				}
				break
			}
			s.OnPosition(pos)
		}
	}
}
