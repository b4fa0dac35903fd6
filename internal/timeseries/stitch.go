package timeseries

import (
	"errors"
	"fmt"
	"time"

	"github.com/jgoulah/simbev/internal/mobility"
	"github.com/jgoulah/simbev/internal/season"
	"github.com/jgoulah/simbev/pkg/models"
)

// ErrLengthMismatch is returned when the rows assembled for a segment do not
// cover its minute index exactly
var ErrLengthMismatch = errors.New("row count does not match segment length")

// segmentPlan says how a segment is filled from its season's table: the last
// prefixDays of the table, then weeks full copies, then the first leftover days.
type segmentPlan struct {
	prefixDays int
	weeks      int
	leftover   int
}

// planSegment corrects a segment for the partial week carried over from the
// previous segment. weekdaysLeft is the number of days still missing to
// complete that week (7 when the previous segment ended on a Sunday).
func planSegment(seg season.Segment, weekdaysLeft int) segmentPlan {
	p := segmentPlan{weeks: seg.WholeWeeks, leftover: seg.LeftoverDays}
	if weekdaysLeft >= season.DaysPerWeek {
		return p
	}

	if p.leftover < weekdaysLeft && p.weeks == 0 {
		// segment is shorter than the carry-over
		p.prefixDays = p.leftover
		p.leftover = 0
		return p
	}

	p.prefixDays = weekdaysLeft
	if p.leftover < weekdaysLeft {
		p.leftover += season.DaysPerWeek - weekdaysLeft
		p.weeks--
	} else {
		p.leftover -= weekdaysLeft
	}
	return p
}

// Build stitches the seasonal tables of region into a continuous series over
// [start, end] and sums it into step-minute buckets. The first bucket of
// every season segment starts at that segment's midnight.
func Build(start, end time.Time, region string, step int, source mobility.TableSource) (*Series, error) {
	if step <= 0 {
		return nil, ErrInvalidStep
	}
	segments, err := season.Segments(start, end)
	if err != nil {
		return nil, err
	}

	result := &Series{Region: region, Step: step}
	weekdaysLeft := season.DaysPerWeek - season.Weekday(segments[0].Start)

	for _, seg := range segments {
		table, err := source.Load(region, seg.Season)
		if err != nil {
			return nil, fmt.Errorf("loading %s table for %s: %w", seg.Season, region, err)
		}

		p := planSegment(seg, weekdaysLeft)
		rows, err := assemble(seg, p, table)
		if err != nil {
			return nil, fmt.Errorf("stitching %s: %w", seg, err)
		}

		result.append(resample(rows, seg.Start, step))
		weekdaysLeft = season.DaysPerWeek - p.leftover
	}
	return result, nil
}

// assemble concatenates the table slices a plan calls for
func assemble(seg season.Segment, p segmentPlan, table *mobility.WeeklyTable) ([]models.Intensities, error) {
	want := seg.Days() * season.MinutesPerDay
	rows := make([]models.Intensities, 0, want)

	rows = append(rows, table.Tail(p.prefixDays)...)
	for i := 0; i < p.weeks; i++ {
		rows = append(rows, table.Rows()...)
	}
	rows = append(rows, table.Head(p.leftover)...)

	if len(rows) != want {
		return nil, fmt.Errorf("%w: %d rows for %d minutes", ErrLengthMismatch, len(rows), want)
	}
	return rows, nil
}

// resample sums consecutive minute rows starting at from into step-minute
// buckets. A trailing bucket may be partial when step does not divide the
// row count.
func resample(rows []models.Intensities, from time.Time, step int) *Series {
	n := (len(rows) + step - 1) / step
	s := &Series{
		Timestamps: make([]time.Time, 0, n),
		Rows:       make([]models.Intensities, 0, n),
	}
	for i := 0; i < len(rows); i += step {
		end := min(i+step, len(rows))
		var sum models.Intensities
		for _, row := range rows[i:end] {
			sum = sum.Add(row)
		}
		s.Timestamps = append(s.Timestamps, from.Add(time.Duration(i)*time.Minute))
		s.Rows = append(s.Rows, sum)
	}
	return s
}
