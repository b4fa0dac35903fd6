// Package mobility resolves seasonal weekly trip-start tables for a region.
// A table is one archetypal week at minute resolution, Monday 00:00 first,
// with one intensity per usecase in each row.
package mobility

import (
	"errors"
	"fmt"

	"github.com/jgoulah/simbev/internal/season"
	"github.com/jgoulah/simbev/pkg/models"
)

// RowsPerWeek is the number of minute rows in a weekly table
const RowsPerWeek = season.DaysPerWeek * season.MinutesPerDay

var (
	// ErrTableNotFound is returned when no table exists for a region and season
	ErrTableNotFound = errors.New("seasonal table not found")
	// ErrMalformedTable is returned when a table does not match the expected schema
	ErrMalformedTable = errors.New("malformed seasonal table")
)

// WeeklyTable is an immutable week of per-minute usecase intensities
type WeeklyTable struct {
	rows []models.Intensities
}

// NewWeeklyTable validates rows and wraps them in a table. The slice is
// retained, callers must not modify it afterwards.
func NewWeeklyTable(rows []models.Intensities) (*WeeklyTable, error) {
	if len(rows) != RowsPerWeek {
		return nil, fmt.Errorf("%w: %d rows, expected %d", ErrMalformedTable, len(rows), RowsPerWeek)
	}
	for i, row := range rows {
		for j, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("%w: negative %s value %g at row %d", ErrMalformedTable, models.Usecases[j], v, i)
			}
		}
	}
	return &WeeklyTable{rows: rows}, nil
}

// Len returns the number of rows
func (t *WeeklyTable) Len() int {
	return len(t.rows)
}

// Row returns the intensities of the i-th minute of the week
func (t *WeeklyTable) Row(i int) models.Intensities {
	return t.rows[i]
}

// Head returns the first days*1440 rows
func (t *WeeklyTable) Head(days int) []models.Intensities {
	return t.rows[:days*season.MinutesPerDay]
}

// Tail returns the last days*1440 rows
func (t *WeeklyTable) Tail(days int) []models.Intensities {
	return t.rows[len(t.rows)-days*season.MinutesPerDay:]
}

// Rows returns the whole week
func (t *WeeklyTable) Rows() []models.Intensities {
	return t.rows
}

// TableSource resolves a region and season to its weekly table
type TableSource interface {
	Load(region string, s season.Season) (*WeeklyTable, error)
}
