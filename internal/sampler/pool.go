// Package sampler builds synthetic trip series by drawing recorded weeks at
// random from a pool and laying them end to end on the simulation step axis.
package sampler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrEmptyPool is returned when a pool holds no weeks to draw from
	ErrEmptyPool = errors.New("record pool is empty")
	// ErrMalformedPool is returned for pool files or records that cannot be used
	ErrMalformedPool = errors.New("malformed record pool")
)

// Record is one recorded trip. TimeStep is only set on sampled output.
type Record struct {
	WeekID        string
	Day           int     // 0 = Monday
	DepartureTime float64 // minutes after midnight
	TimeStep      int
	Attributes    []string // extra pool columns, in Pool.Columns order
}

// Pool groups trip records by synthetic week
type Pool struct {
	Columns []string

	ids   []string
	weeks map[string][]Record
}

// NewPool groups records by week. Week identifiers keep first-seen order so a
// seeded draw is reproducible.
func NewPool(records []Record, columns []string) (*Pool, error) {
	p := &Pool{
		Columns: columns,
		weeks:   make(map[string][]Record),
	}
	for i, r := range records {
		if r.Day < 0 || r.Day > 6 {
			return nil, fmt.Errorf("%w: record %d has day %d", ErrMalformedPool, i, r.Day)
		}
		if len(r.Attributes) != len(columns) {
			return nil, fmt.Errorf("%w: record %d has %d attributes, expected %d", ErrMalformedPool, i, len(r.Attributes), len(columns))
		}
		if _, ok := p.weeks[r.WeekID]; !ok {
			p.ids = append(p.ids, r.WeekID)
		}
		p.weeks[r.WeekID] = append(p.weeks[r.WeekID], r)
	}
	return p, nil
}

// WeekIDs returns the distinct week identifiers
func (p *Pool) WeekIDs() []string {
	return p.ids
}

// Week returns the records of one week
func (p *Pool) Week(id string) []Record {
	return p.weeks[id]
}

// Len returns the number of weeks in the pool
func (p *Pool) Len() int {
	return len(p.ids)
}

// LoadPool reads a pool from a CSV file
func LoadPool(path string) (*Pool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pool: %w", err)
	}
	defer file.Close()

	pool, err := ReadPool(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return pool, nil
}

// ReadPool parses a comma separated pool with a header naming at least the
// id, day and departure_time columns. Every other column is kept as an
// attribute.
func ReadPool(r io.Reader) (*Pool, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedPool, err)
	}

	idIdx, dayIdx, depIdx := -1, -1, -1
	var columns []string
	var attrIdx []int
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "id":
			idIdx = i
		case "day":
			dayIdx = i
		case "departure_time":
			depIdx = i
		default:
			columns = append(columns, strings.TrimSpace(h))
			attrIdx = append(attrIdx, i)
		}
	}
	if idIdx < 0 || dayIdx < 0 || depIdx < 0 {
		return nil, fmt.Errorf("%w: header must contain id, day and departure_time", ErrMalformedPool)
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedPool, line, err)
		}

		day, err := strconv.ParseFloat(strings.TrimSpace(row[dayIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d day: %v", ErrMalformedPool, line, err)
		}
		dep, err := strconv.ParseFloat(strings.TrimSpace(row[depIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d departure_time: %v", ErrMalformedPool, line, err)
		}

		attrs := make([]string, len(attrIdx))
		for j, idx := range attrIdx {
			attrs[j] = row[idx]
		}
		records = append(records, Record{
			WeekID:        strings.TrimSpace(row[idIdx]),
			Day:           int(day),
			DepartureTime: dep,
			Attributes:    attrs,
		})
	}

	return NewPool(records, columns)
}
