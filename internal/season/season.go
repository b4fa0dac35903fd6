// Package season maps calendar dates onto the four-season calendar used to
// select weekly mobility tables, and splits date ranges into season segments.
package season

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMonth is returned for a month outside 1..12
var ErrInvalidMonth = errors.New("invalid month")

// Season is one of the four calendar buckets
type Season int

const (
	Winter Season = iota
	Spring
	Summer
	Fall
)

// All lists the seasons in ordinal order
var All = [...]Season{Winter, Spring, Summer, Fall}

var labels = [...]string{"winter", "spring", "summer", "fall"}

// cutoffMonths holds the first month of the following season, indexed by ordinal
var cutoffMonths = [...]time.Month{time.March, time.June, time.September, time.December}

// String returns the lowercase season label
func (s Season) String() string {
	if s < Winter || s > Fall {
		return fmt.Sprintf("Season(%d)", int(s))
	}
	return labels[s]
}

// Index returns the ordinal encoding (0 winter .. 3 fall)
func (s Season) Index() int {
	return int(s)
}

// CutoffMonth returns the month in which the next season begins
func (s Season) CutoffMonth() time.Month {
	return cutoffMonths[s]
}

// Parse resolves a season label
func Parse(label string) (Season, error) {
	for i, l := range labels {
		if l == label {
			return Season(i), nil
		}
	}
	return 0, fmt.Errorf("unknown season %q", label)
}

// FromMonth classifies a month: Dec-Feb winter, Mar-May spring, Jun-Aug summer, Sep-Nov fall
func FromMonth(m time.Month) (Season, error) {
	switch {
	case m < time.January || m > time.December:
		return 0, fmt.Errorf("%w: %d", ErrInvalidMonth, int(m))
	case m <= time.February || m == time.December:
		return Winter, nil
	case m <= time.May:
		return Spring, nil
	case m <= time.August:
		return Summer, nil
	default:
		return Fall, nil
	}
}

// Of returns the season a date falls in
func Of(date time.Time) (Season, error) {
	return FromMonth(date.Month())
}

// NextCutoff returns the first day of the season following date. December
// belongs to the winter that ends in March of the following year.
func NextCutoff(date time.Time) (time.Time, error) {
	s, err := Of(date)
	if err != nil {
		return time.Time{}, err
	}
	year := date.Year()
	if date.Month() == time.December {
		year++
	}
	return Date(year, s.CutoffMonth(), 1), nil
}
