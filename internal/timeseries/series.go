// Package timeseries assembles per-region activity series from seasonal
// weekly tables and aggregates them to the simulation step size.
package timeseries

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/jgoulah/simbev/pkg/models"
)

// TimestampFormat is used when writing series to CSV
const TimestampFormat = "2006-01-02 15:04:05"

// ErrInvalidStep is returned for a step size that is not a positive number of minutes
var ErrInvalidStep = errors.New("step size must be positive")

// Series is an ordered sequence of time buckets; Timestamps[i] is the start
// of the bucket whose summed intensities are Rows[i].
type Series struct {
	Region     string
	Step       int // minutes per bucket
	Timestamps []time.Time
	Rows       []models.Intensities
}

// Len returns the number of buckets
func (s *Series) Len() int {
	return len(s.Rows)
}

// Column returns one usecase's values
func (s *Series) Column(usecase int) []float64 {
	col := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		col[i] = row[usecase]
	}
	return col
}

// Totals sums every usecase over the whole series
func (s *Series) Totals() models.Intensities {
	var totals models.Intensities
	for k := range totals {
		totals[k] = floats.Sum(s.Column(k))
	}
	return totals
}

// Peak returns the bucket start and value of a usecase's maximum
func (s *Series) Peak(usecase int) (time.Time, float64) {
	if len(s.Rows) == 0 {
		return time.Time{}, 0
	}
	col := s.Column(usecase)
	i := floats.MaxIdx(col)
	return s.Timestamps[i], col[i]
}

// Buckets converts the series into storable buckets
func (s *Series) Buckets(runID string) []models.Bucket {
	buckets := make([]models.Bucket, len(s.Rows))
	for i, row := range s.Rows {
		buckets[i] = models.Bucket{
			RunID:  runID,
			Region: s.Region,
			Start:  s.Timestamps[i],
			Values: row,
		}
	}
	return buckets
}

func (s *Series) append(o *Series) {
	s.Timestamps = append(s.Timestamps, o.Timestamps...)
	s.Rows = append(s.Rows, o.Rows...)
}

// Empty returns a zero-valued series with one bucket per step over the whole
// days from start through end.
func Empty(start, end time.Time, step int) (*Series, error) {
	if step <= 0 {
		return nil, ErrInvalidStep
	}
	from := dayStart(start)
	to := dayStart(end).AddDate(0, 0, 1)

	s := &Series{Step: step}
	for t := from; t.Before(to); t = t.Add(time.Duration(step) * time.Minute) {
		s.Timestamps = append(s.Timestamps, t)
	}
	s.Rows = make([]models.Intensities, len(s.Timestamps))
	return s, nil
}

// WriteCSV writes the series with a timestamp column followed by the usecases
func WriteCSV(w io.Writer, s *Series) error {
	writer := csv.NewWriter(w)
	header := append([]string{"timestamp"}, models.Usecases[:]...)
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, models.NumUsecases+1)
	for i, row := range s.Rows {
		record[0] = s.Timestamps[i].Format(TimestampFormat)
		for j, v := range row {
			record[j+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
