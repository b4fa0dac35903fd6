package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/jgoulah/simbev/internal/season"
)

var (
	// ErrInvalidStep is returned for a non-positive step size
	ErrInvalidStep = errors.New("step size must be positive")
	// ErrInvalidRange is returned when the start date is after the end date
	ErrInvalidRange = errors.New("start date after end date")
)

// Synthetic is a sampled series: the records placed on the absolute step
// axis, and the week drawn for each calendar week in order.
type Synthetic struct {
	Records []Record
	Draws   []string
}

// BuildSeeded seeds a fresh generator once and builds the series with it
func BuildSeeded(start, end time.Time, step int, pool *Pool, seed int64) (*Synthetic, error) {
	return Build(start, end, step, pool, rand.New(rand.NewSource(seed)))
}

// Build fills [start, end] week by week with randomly drawn pool weeks. The
// first and last calendar weeks may be partial; only the records of days that
// fall inside the range are kept. rng is owned by the caller and must not be
// shared between concurrent builds.
func Build(start, end time.Time, step int, pool *Pool, rng *rand.Rand) (*Synthetic, error) {
	if step <= 0 {
		return nil, ErrInvalidStep
	}
	if pool == nil || pool.Len() == 0 {
		return nil, ErrEmptyPool
	}
	start, end = season.Truncate(start), season.Truncate(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	stepsPerDay := float64(season.MinutesPerDay) / float64(step)
	ids := pool.WeekIDs()
	out := &Synthetic{}

	weekStart := start
	timeStep := 0.0
	for !weekStart.After(end) {
		id := ids[rng.Intn(len(ids))]
		out.Draws = append(out.Draws, id)

		firstDay := season.Weekday(weekStart)
		numDays := season.DaysPerWeek - firstDay
		weekEnd := weekStart.AddDate(0, 0, numDays-1)
		if weekEnd.After(end) {
			weekEnd = end
		}
		lastDay := season.Weekday(weekEnd)

		for _, r := range pool.Week(id) {
			if r.Day < firstDay || r.Day > lastDay {
				continue
			}
			r.TimeStep = int(math.Floor(timeStep + r.DepartureTime/float64(step) + float64(r.Day-firstDay)*stepsPerDay))
			out.Records = append(out.Records, r)
		}

		weekStart = weekEnd.AddDate(0, 0, 1)
		timeStep += float64(numDays) * stepsPerDay
	}
	return out, nil
}
