package transcript

import "strings"

// Store holds the canonical ordered segment list for one editing session.
// Segments arrive already time-ordered from the transcription source; the
// store mutates in place by id and never re-sorts.
//
// All mutations are total: an unknown id is a benign no-op (the editing
// surface only issues ids it rendered), reported through the bool return.
type Store struct {
	segments []Segment
}

func NewStore() *Store {
	return &Store{}
}

// Load replaces the current list wholesale, e.g. when a transcript is
// fetched or regenerated.
func (s *Store) Load(segments []Segment) {
	s.segments = make([]Segment, len(segments))
	copy(s.segments, segments)
}

// Segments returns a copy of the current list.
func (s *Store) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

func (s *Store) Len() int { return len(s.segments) }

// UpdateText sets the segment's text and marks it edited. Unchanged text
// (after trimming) leaves the segment untouched, so repeated saves of the
// same text do not flip flags twice.
func (s *Store) UpdateText(id, newText string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	trimmed := strings.TrimSpace(newText)
	if trimmed == s.segments[i].Text {
		return false
	}
	s.segments[i].Text = trimmed
	s.segments[i].IsEdited = true
	return true
}

// MarkConfirmed records human approval. Edits are absorbed by approval and
// the review flag is cleared so confirmed and needs-review are never both
// set once the operation completes.
func (s *Store) MarkConfirmed(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.segments[i].IsConfirmed = true
	s.segments[i].IsEdited = false
	s.segments[i].NeedsReview = false
	return true
}

// MarkNeedsReview flags a segment as incorrect, withdrawing any prior
// confirmation.
func (s *Store) MarkNeedsReview(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.segments[i].IsConfirmed = false
	s.segments[i].NeedsReview = true
	return true
}

type Stats struct {
	Total              int `json:"total"`
	Confirmed          int `json:"confirmed"`
	EditedNotConfirmed int `json:"editedNotConfirmed"`
	NeedsReview        int `json:"needsReview"`
}

// Stats is recomputed on every call; it is never cached.
func (s *Store) Stats() Stats {
	return ComputeStats(s.segments)
}

func ComputeStats(segments []Segment) Stats {
	st := Stats{Total: len(segments)}
	for _, seg := range segments {
		if seg.IsConfirmed {
			st.Confirmed++
		}
		if seg.IsEdited && !seg.IsConfirmed {
			st.EditedNotConfirmed++
		}
		if seg.NeedsReview {
			st.NeedsReview++
		}
	}
	return st
}

func (s *Store) index(id string) int {
	for i := range s.segments {
		if s.segments[i].ID == id {
			return i
		}
	}
	return -1
}
