package analysis

import (
	"errors"
	"math"
	"testing"

	"interviewlens/internal/model"
)

func TestSplitNinetySecondsAtThirty(t *testing.T) {
	s := NewSegmenter(30, 0)
	segments, err := s.Split(90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Segment{
		{Index: 0, Start: 0, End: 30},
		{Index: 1, Start: 30, End: 60},
		{Index: 2, Start: 60, End: 90},
	}
	if len(segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segments), len(want))
	}
	for i, seg := range segments {
		if seg != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, seg, want[i])
		}
	}
}

func TestSplitTruncatesLastSegment(t *testing.T) {
	s := NewSegmenter(30, 0)
	segments, err := s.Split(75)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	last := segments[len(segments)-1]
	if last.Start != 60 || last.End != 75 {
		t.Errorf("last segment = [%v, %v), want [60, 75)", last.Start, last.End)
	}
}

func TestSplitCountAndCoverage(t *testing.T) {
	s := NewSegmenter(30, 0)
	for _, duration := range []float64{1, 29.5, 30, 31, 60, 61, 299, 300, 3601.5} {
		segments, err := s.Split(duration)
		if err != nil {
			t.Fatalf("duration %v: %v", duration, err)
		}
		wantCount := int(math.Ceil(duration / 30))
		if len(segments) != wantCount {
			t.Errorf("duration %v: got %d segments, want %d", duration, len(segments), wantCount)
		}
		if segments[0].Start != 0 {
			t.Errorf("duration %v: first segment starts at %v", duration, segments[0].Start)
		}
		if segments[len(segments)-1].End != duration {
			t.Errorf("duration %v: last segment ends at %v", duration, segments[len(segments)-1].End)
		}
		for i := 1; i < len(segments); i++ {
			if segments[i].Start != segments[i-1].End {
				t.Errorf("duration %v: gap between segment %d and %d", duration, i-1, i)
			}
			if segments[i].Index != i {
				t.Errorf("duration %v: segment %d has index %d", duration, i, segments[i].Index)
			}
		}
	}
}

func TestSplitRejectsNonPositiveDuration(t *testing.T) {
	s := NewSegmenter(30, 0)
	for _, duration := range []float64{0, -1, -30} {
		_, err := s.Split(duration)
		var invalid *model.InvalidInputError
		if !errors.As(err, &invalid) {
			t.Errorf("duration %v: got %v, want InvalidInputError", duration, err)
		}
	}
}

func TestSplitWithOverlap(t *testing.T) {
	s := NewSegmenter(30, 10)
	segments, err := s.Split(60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// step of 20s: [0,30) [20,50) [40,60)
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	if segments[1].Start != 20 || segments[1].End != 50 {
		t.Errorf("second segment = [%v, %v), want [20, 50)", segments[1].Start, segments[1].End)
	}
}

func TestSplitRejectsOverlapAtWindow(t *testing.T) {
	s := NewSegmenter(30, 30)
	if _, err := s.Split(90); err == nil {
		t.Fatal("expected error for overlap == window")
	}
}
