package season

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a range starts after it ends
var ErrInvalidRange = errors.New("start date after end date")

// Segment is a maximal run of days inside one season. Start is inclusive and
// End exclusive; WholeWeeks*7+LeftoverDays equals the number of days covered.
type Segment struct {
	Season       Season
	WholeWeeks   int
	LeftoverDays int
	Start        time.Time
	End          time.Time
}

// Days returns the number of calendar days in the segment
func (s Segment) Days() int {
	return DaysBetween(s.Start, s.End)
}

func (s Segment) String() string {
	return fmt.Sprintf("%s %s..%s (%dw+%dd)", s.Season, s.Start.Format("2006-01-02"),
		s.End.AddDate(0, 0, -1).Format("2006-01-02"), s.WholeWeeks, s.LeftoverDays)
}

// Segments splits the inclusive range [start, end] into chronological season
// segments that partition it without gaps or overlaps.
func Segments(start, end time.Time) ([]Segment, error) {
	start, end = Truncate(start), Truncate(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	var segments []Segment
	current := start
	for !current.After(end) {
		s, err := Of(current)
		if err != nil {
			return nil, err
		}
		cutoff, err := NextCutoff(current)
		if err != nil {
			return nil, err
		}

		segEnd := cutoff
		if !cutoff.Before(end) {
			// range ends inside this season
			segEnd = end.AddDate(0, 0, 1)
		}
		days := DaysBetween(current, segEnd)
		segments = append(segments, Segment{
			Season:       s,
			WholeWeeks:   days / DaysPerWeek,
			LeftoverDays: days % DaysPerWeek,
			Start:        current,
			End:          segEnd,
		})
		current = segEnd
	}
	return segments, nil
}
