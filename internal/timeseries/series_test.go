package timeseries

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jgoulah/simbev/internal/season"
	"github.com/jgoulah/simbev/pkg/models"
)

func TestEmpty(t *testing.T) {
	s, err := Empty(season.Date(2022, 1, 1), season.Date(2022, 1, 2), 15)
	if err != nil {
		t.Fatalf("Empty: %v", err)
	}
	if s.Len() != 2*96 {
		t.Fatalf("expected %d buckets, got %d", 2*96, s.Len())
	}
	if s.Totals() != (models.Intensities{}) {
		t.Errorf("expected zero totals, got %v", s.Totals())
	}
	if !s.Timestamps[1].Equal(season.Date(2022, 1, 1).Add(15 * 60e9)) {
		t.Errorf("second bucket at %s", s.Timestamps[1])
	}
}

func TestPeakAndBuckets(t *testing.T) {
	s, err := Build(season.Date(2022, 1, 3), season.Date(2022, 1, 4), "R", 60, newSource(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ts, v := s.Peak(0)
	if !ts.Equal(season.Date(2022, 1, 4).Add(23 * 3600e9)) {
		t.Errorf("work peaks at %s", ts)
	}
	if v <= 0 {
		t.Errorf("unexpected peak value %v", v)
	}

	buckets := s.Buckets("run-1")
	if len(buckets) != s.Len() || buckets[0].Region != "R" || buckets[0].RunID != "run-1" {
		t.Errorf("unexpected buckets %+v", buckets[0])
	}
}

func TestWriteCSV(t *testing.T) {
	s, err := Build(season.Date(2022, 1, 3), season.Date(2022, 1, 3), "R", 720, newSource(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "timestamp,work,business,school,shopping,private,leisure,home" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "2022-01-03 12:00:00,") || !strings.HasSuffix(lines[2], ",720") {
		t.Errorf("unexpected row %q", lines[2])
	}
}
