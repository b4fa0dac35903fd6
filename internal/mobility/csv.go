package mobility

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jgoulah/simbev/internal/season"
	"github.com/jgoulah/simbev/pkg/models"
)

// CSVSource reads tables from <Dir>/<region>/<season>.csv. Files carry a
// header row, ';' separated fields and ',' as decimal separator; the first
// column is an index and the next seven hold the usecase values.
type CSVSource struct {
	Dir string
}

// NewCSVSource creates a source rooted at dir
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{Dir: dir}
}

// Path returns the file a region and season resolve to
func (c *CSVSource) Path(region string, s season.Season) string {
	return filepath.Join(c.Dir, region, s.String()+".csv")
}

// Load reads and validates the table for region and season
func (c *CSVSource) Load(region string, s season.Season) (*WeeklyTable, error) {
	path := c.Path(region, s)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: region %s, season %s (%s)", ErrTableNotFound, region, s, path)
		}
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer file.Close()

	table, err := ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return table, nil
}

// ReadTable parses a seasonal table from r
func ReadTable(r io.Reader) (*WeeklyTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedTable, err)
	}

	rows := make([]models.Intensities, 0, RowsPerWeek)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedTable, line, err)
		}
		if len(record) < models.NumUsecases+1 {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedTable, line, len(record))
		}

		var row models.Intensities
		for i := range row {
			v, err := parseDecimal(record[i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %v", ErrMalformedTable, line, models.Usecases[i], err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return NewWeeklyTable(rows)
}

// parseDecimal accepts both ',' and '.' as decimal separator
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// WriteTable writes t in the format ReadTable accepts
func WriteTable(w io.Writer, t *WeeklyTable) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	header := append([]string{""}, models.Usecases[:]...)
	if err := writer.Write(header); err != nil {
		return err
	}
	record := make([]string, models.NumUsecases+1)
	for i, row := range t.rows {
		record[0] = strconv.Itoa(i)
		for j, v := range row {
			record[j+1] = strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
