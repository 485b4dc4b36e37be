package transcript

import "testing"

func sampleSegments() []Segment {
	return []Segment{
		{ID: "1", Text: "Hello world", StartTime: 0, EndTime: 2, Speaker: "User", Confidence: 0.95},
		{ID: "2", Text: "um test", StartTime: 2, EndTime: 4, Speaker: "User", Confidence: 0.5, NeedsReview: true},
	}
}

func TestStatusPriority(t *testing.T) {
	cases := []struct {
		seg  Segment
		want Status
	}{
		{Segment{}, StatusPending},
		{Segment{NeedsReview: true}, StatusNeedsReview},
		{Segment{IsEdited: true}, StatusEdited},
		{Segment{IsEdited: true, NeedsReview: true}, StatusEdited},
		{Segment{IsConfirmed: true}, StatusConfirmed},
		{Segment{IsConfirmed: true, IsEdited: true, NeedsReview: true}, StatusConfirmed},
	}
	for _, c := range cases {
		if got := c.seg.Status(); got != c.want {
			t.Fatalf("Status() = %q, want %q for %+v", got, c.want, c.seg)
		}
	}
}

func TestUpdateTextMarksEdited(t *testing.T) {
	s := NewStore()
	s.Load(sampleSegments())

	if !s.UpdateText("2", "a test") {
		t.Fatalf("expected text change")
	}
	seg := s.Segments()[1]
	if seg.Text != "a test" || !seg.IsEdited {
		t.Fatalf("got text=%q edited=%v, want %q true", seg.Text, seg.IsEdited, "a test")
	}
}

func TestUpdateTextTrims(t *testing.T) {
	s := NewStore()
	s.Load(sampleSegments())

	s.UpdateText("1", "  Hello there  ")
	if got := s.Segments()[0].Text; got != "Hello there" {
		t.Fatalf("got %q, want trimmed text", got)
	}
}

func TestUpdateTextIdempotent(t *testing.T) {
	s := NewStore()
	s.Load(sampleSegments())

	if !s.UpdateText("1", "changed") {
		t.Fatalf("first update should change state")
	}
	if s.UpdateText("1", "changed") {
		t.Fatalf("same text again should be a no-op")
	}
	if s.UpdateText("1", "  changed  ") {
		t.Fatalf("whitespace-only difference should be a no-op")
	}
	if seg := s.Segments()[0]; !seg.IsEdited {
		t.Fatalf("IsEdited must stay true")
	}
}

func TestUpdateTextUnknownID(t *testing.T) {
	s := NewStore()
	s.Load(sampleSegments())

	if s.UpdateText("nope", "x") {
		t.Fatalf("unknown id must be a no-op")
	}
	if got := s.Segments(); got[0].Text != "Hello world" || got[1].Text != "um test" {
		t.Fatalf("list changed on unknown id: %+v", got)
	}
}

func TestMarkConfirmedAbsorbsEditsAndReview(t *testing.T) {
	s := NewStore()
	s.Load(sampleSegments())

	s.UpdateText("2", "a test")
	if !s.MarkConfirmed("2") {
		t.Fatalf("expected confirm to apply")
	}

	seg := s.Segments()[1]
	if !seg.IsConfirmed || seg.IsEdited || seg.NeedsReview {
		t.Fatalf("got confirmed=%v edited=%v review=%v, want true false false",
			seg.IsConfirmed, seg.IsEdited, seg.NeedsReview)
	}
	if seg.Status() != StatusConfirmed {
		t.Fatalf("status = %q, want confirmed", seg.Status())
	}
}

func TestMarkNeedsReviewWithdrawsConfirmation(t *testing.T) {
	s := NewStore()
	s.Load(sampleSegments())

	s.MarkConfirmed("1")
	s.MarkNeedsReview("1")

	seg := s.Segments()[0]
	if seg.IsConfirmed || !seg.NeedsReview {
		t.Fatalf("got confirmed=%v review=%v, want false true", seg.IsConfirmed, seg.NeedsReview)
	}
	if seg.Status() != StatusNeedsReview {
		t.Fatalf("status = %q, want needs-review", seg.Status())
	}
}

func TestStatsScenario(t *testing.T) {
	s := NewStore()
	s.Load(sampleSegments())

	st := s.Stats()
	want := Stats{Total: 2, Confirmed: 0, EditedNotConfirmed: 0, NeedsReview: 1}
	if st != want {
		t.Fatalf("stats = %+v, want %+v", st, want)
	}

	s.UpdateText("2", "a test")
	st = s.Stats()
	if st.EditedNotConfirmed != 1 {
		t.Fatalf("editedNotConfirmed = %d, want 1", st.EditedNotConfirmed)
	}

	s.MarkConfirmed("2")
	st = s.Stats()
	want = Stats{Total: 2, Confirmed: 1, EditedNotConfirmed: 0, NeedsReview: 0}
	if st != want {
		t.Fatalf("stats after confirm = %+v, want %+v", st, want)
	}
}

func TestLoadReplacesWholesale(t *testing.T) {
	s := NewStore()
	s.Load(sampleSegments())
	s.Load([]Segment{{ID: "9", Text: "only one", StartTime: 0, EndTime: 1}})

	if s.Len() != 1 || s.Segments()[0].ID != "9" {
		t.Fatalf("load did not replace the list: %+v", s.Segments())
	}
}

func TestSegmentsReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Load(sampleSegments())

	out := s.Segments()
	out[0].Text = "mutated"
	if s.Segments()[0].Text != "Hello world" {
		t.Fatalf("caller mutation leaked into the store")
	}
}

func TestDuration(t *testing.T) {
	if d := Duration(nil); d != 0 {
		t.Fatalf("empty duration = %v, want 0", d)
	}
	if d := Duration(sampleSegments()); d != 4 {
		t.Fatalf("duration = %v, want 4", d)
	}
}
