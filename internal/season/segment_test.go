package season

import (
	"errors"
	"testing"
)

func TestSegmentsSingleSeason(t *testing.T) {
	segs, err := Segments(Date(2022, 1, 1), Date(2022, 1, 2))
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	s := segs[0]
	if s.Season != Winter || s.WholeWeeks != 0 || s.LeftoverDays != 2 {
		t.Errorf("unexpected segment %s", s)
	}
	if !s.Start.Equal(Date(2022, 1, 1)) || !s.End.Equal(Date(2022, 1, 3)) {
		t.Errorf("unexpected bounds %s", s)
	}
}

func TestSegmentsSingleDay(t *testing.T) {
	segs, err := Segments(Date(2022, 7, 4), Date(2022, 7, 4))
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if len(segs) != 1 || segs[0].Days() != 1 || segs[0].Season != Summer {
		t.Fatalf("expected one summer day, got %v", segs)
	}
}

func TestSegmentsCrossBoundary(t *testing.T) {
	segs, err := Segments(Date(2022, 2, 28), Date(2022, 3, 3))
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segs), segs)
	}
	if segs[0].Season != Winter || segs[0].LeftoverDays != 1 || segs[0].WholeWeeks != 0 {
		t.Errorf("unexpected winter segment %s", segs[0])
	}
	if segs[1].Season != Spring || segs[1].LeftoverDays != 3 || segs[1].WholeWeeks != 0 {
		t.Errorf("unexpected spring segment %s", segs[1])
	}
	if !segs[1].Start.Equal(Date(2022, 3, 1)) || !segs[1].End.Equal(Date(2022, 3, 4)) {
		t.Errorf("unexpected spring bounds %s", segs[1])
	}
}

func TestSegmentsPartitionRange(t *testing.T) {
	ranges := [][2]int{{0, 0}, {0, 6}, {10, 400}, {58, 59}, {330, 800}, {100, 1200}}
	base := Date(2021, 1, 1)
	for _, r := range ranges {
		start := base.AddDate(0, 0, r[0])
		end := base.AddDate(0, 0, r[1])
		segs, err := Segments(start, end)
		if err != nil {
			t.Fatalf("Segments(%v): %v", r, err)
		}

		total := 0
		cursor := start
		for _, s := range segs {
			if !s.Start.Equal(cursor) {
				t.Fatalf("range %v: gap or overlap at %s", r, s)
			}
			if s.WholeWeeks*7+s.LeftoverDays != s.Days() {
				t.Errorf("range %v: week/day counts disagree with bounds in %s", r, s)
			}
			if s.LeftoverDays < 0 || s.LeftoverDays > 6 {
				t.Errorf("range %v: leftover out of range in %s", r, s)
			}
			total += s.Days()
			cursor = s.End
		}
		if want := r[1] - r[0] + 1; total != want {
			t.Errorf("range %v: segments cover %d days, expected %d", r, total, want)
		}
		if !cursor.Equal(end.AddDate(0, 0, 1)) {
			t.Errorf("range %v: last segment ends %s", r, cursor.Format("2006-01-02"))
		}
	}
}

func TestSegmentsInvalidRange(t *testing.T) {
	_, err := Segments(Date(2022, 1, 2), Date(2022, 1, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
