package sampler

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/jgoulah/simbev/internal/season"
)

// weekPool returns n weeks with one trip per day at 08:00 and, for the
// first week only, a late trip on Thursday.
func weekPool(t *testing.T, n int) *Pool {
	t.Helper()
	var records []Record
	for w := 0; w < n; w++ {
		id := fmt.Sprintf("w%03d", w)
		for d := 0; d < 7; d++ {
			records = append(records, Record{WeekID: id, Day: d, DepartureTime: 480, Attributes: []string{id}})
		}
		if w == 0 {
			records = append(records, Record{WeekID: id, Day: 3, DepartureTime: 1439, Attributes: []string{id}})
		}
	}
	pool, err := NewPool(records, []string{"purpose"})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	return pool
}

func TestBuildOneFullWeek(t *testing.T) {
	pool := weekPool(t, 1)
	// 2022-01-03 is a Monday
	out, err := BuildSeeded(season.Date(2022, 1, 3), season.Date(2022, 1, 9), 15, pool, 42)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out.Draws) != 1 {
		t.Fatalf("expected one draw, got %v", out.Draws)
	}
	if len(out.Records) != 8 {
		t.Fatalf("expected 8 records, got %d", len(out.Records))
	}
	for _, r := range out.Records {
		if r.TimeStep < 0 || r.TimeStep >= 96*7 {
			t.Errorf("time step %d out of [0, %d)", r.TimeStep, 96*7)
		}
		if want := r.Day*96 + int(r.DepartureTime)/15; r.TimeStep != want {
			t.Errorf("day %d at %v: time step %d, expected %d", r.Day, r.DepartureTime, r.TimeStep, want)
		}
	}
}

func TestBuildPartialWeeks(t *testing.T) {
	pool := weekPool(t, 1)
	// Wednesday 2022-01-05 through Tuesday 2022-01-11
	out, err := BuildSeeded(season.Date(2022, 1, 5), season.Date(2022, 1, 11), 15, pool, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out.Draws) != 2 {
		t.Fatalf("expected two draws, got %v", out.Draws)
	}

	var steps []int
	for _, r := range out.Records {
		steps = append(steps, r.TimeStep)
	}
	// Wed..Sun at 08:00, the Thursday 23:59 trip, then Mon and Tue of the next week
	want := []int{32, 96 + 32, 2*96 + 32, 3*96 + 32, 4*96 + 32, 96 + 95, 5*96 + 32, 6*96 + 32}
	if !reflect.DeepEqual(steps, want) {
		t.Errorf("time steps %v, expected %v", steps, want)
	}
}

func TestBuildDeterministic(t *testing.T) {
	pool := weekPool(t, 50)
	start, end := season.Date(2022, 1, 1), season.Date(2022, 12, 31)

	a, err := BuildSeeded(start, end, 15, pool, 7)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(start, end, 15, pool, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different output")
	}

	c, err := BuildSeeded(start, end, 15, pool, 8)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if reflect.DeepEqual(a.Draws, c.Draws) {
		t.Error("different seeds produced identical draws")
	}
}

func TestBuildErrors(t *testing.T) {
	pool := weekPool(t, 2)
	empty, _ := NewPool(nil, nil)

	if _, err := BuildSeeded(season.Date(2022, 1, 1), season.Date(2022, 1, 2), 15, empty, 1); !errors.Is(err, ErrEmptyPool) {
		t.Errorf("expected ErrEmptyPool, got %v", err)
	}
	if _, err := BuildSeeded(season.Date(2022, 1, 1), season.Date(2022, 1, 2), 15, nil, 1); !errors.Is(err, ErrEmptyPool) {
		t.Errorf("expected ErrEmptyPool for nil pool, got %v", err)
	}
	if _, err := BuildSeeded(season.Date(2022, 1, 1), season.Date(2022, 1, 2), 0, pool, 1); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep, got %v", err)
	}
	if _, err := BuildSeeded(season.Date(2022, 1, 2), season.Date(2022, 1, 1), 15, pool, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestReadPool(t *testing.T) {
	data := `id,day,departure_time,purpose,distance
a,0,480,work,12.5
a,4,1020,home,12.5
b,5,600,leisure,3
`
	pool, err := ReadPool(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadPool: %v", err)
	}
	if !reflect.DeepEqual(pool.WeekIDs(), []string{"a", "b"}) {
		t.Errorf("unexpected week ids %v", pool.WeekIDs())
	}
	if !reflect.DeepEqual(pool.Columns, []string{"purpose", "distance"}) {
		t.Errorf("unexpected columns %v", pool.Columns)
	}
	week := pool.Week("a")
	if len(week) != 2 || week[1].Day != 4 || week[1].DepartureTime != 1020 || week[1].Attributes[0] != "home" {
		t.Errorf("unexpected week a: %+v", week)
	}
}

func TestReadPoolRejectsBadInput(t *testing.T) {
	inputs := map[string]string{
		"missing column": "id,day\na,0\n",
		"bad day":        "id,day,departure_time\na,x,10\n",
		"day range":      "id,day,departure_time\na,7,10\n",
	}
	for name, data := range inputs {
		if _, err := ReadPool(strings.NewReader(data)); !errors.Is(err, ErrMalformedPool) {
			t.Errorf("%s: expected ErrMalformedPool, got %v", name, err)
		}
	}
}
