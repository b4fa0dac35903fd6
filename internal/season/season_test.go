package season

import (
	"errors"
	"testing"
	"time"
)

func TestFromMonth(t *testing.T) {
	want := map[time.Month]Season{
		time.January: Winter, time.February: Winter, time.December: Winter,
		time.March: Spring, time.April: Spring, time.May: Spring,
		time.June: Summer, time.July: Summer, time.August: Summer,
		time.September: Fall, time.October: Fall, time.November: Fall,
	}
	for m, expected := range want {
		got, err := FromMonth(m)
		if err != nil {
			t.Fatalf("FromMonth(%s): %v", m, err)
		}
		if got != expected {
			t.Errorf("FromMonth(%s) = %s, expected %s", m, got, expected)
		}
	}
}

func TestFromMonthInvalid(t *testing.T) {
	for _, m := range []time.Month{0, 13, -1} {
		if _, err := FromMonth(m); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("FromMonth(%d): expected ErrInvalidMonth, got %v", int(m), err)
		}
	}
}

func TestSeasonLabelsAndIndex(t *testing.T) {
	for i, s := range All {
		if s.Index() != i {
			t.Errorf("%s: index %d, expected %d", s, s.Index(), i)
		}
		parsed, err := Parse(s.String())
		if err != nil || parsed != s {
			t.Errorf("Parse(%q) = %v, %v", s.String(), parsed, err)
		}
	}
	if _, err := Parse("monsoon"); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestNextCutoff(t *testing.T) {
	tests := []struct {
		date time.Time
		want time.Time
	}{
		{Date(2022, 1, 1), Date(2022, 3, 1)},
		{Date(2022, 2, 28), Date(2022, 3, 1)},
		{Date(2022, 3, 1), Date(2022, 6, 1)},
		{Date(2022, 8, 31), Date(2022, 9, 1)},
		{Date(2022, 11, 30), Date(2022, 12, 1)},
		{Date(2022, 12, 1), Date(2023, 3, 1)},
		{Date(2022, 12, 31), Date(2023, 3, 1)},
	}
	for _, tt := range tests {
		got, err := NextCutoff(tt.date)
		if err != nil {
			t.Fatalf("NextCutoff(%s): %v", tt.date.Format("2006-01-02"), err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("NextCutoff(%s) = %s, expected %s", tt.date.Format("2006-01-02"),
				got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
	}
}

func TestNextCutoffAlwaysAfterDate(t *testing.T) {
	d := Date(2020, 1, 1)
	for i := 0; i < 3*366; i++ {
		cutoff, err := NextCutoff(d)
		if err != nil {
			t.Fatalf("NextCutoff(%s): %v", d.Format("2006-01-02"), err)
		}
		if !cutoff.After(d) {
			t.Fatalf("cutoff %s not after %s", cutoff.Format("2006-01-02"), d.Format("2006-01-02"))
		}
		if cutoff.Day() != 1 || cutoff.Month()%3 != 0 {
			t.Fatalf("cutoff %s is not the 1st of Mar/Jun/Sep/Dec", cutoff.Format("2006-01-02"))
		}
		d = d.AddDate(0, 0, 1)
	}
}

func TestWeekday(t *testing.T) {
	// 2022-01-03 is a Monday
	for i := 0; i < 7; i++ {
		if got := Weekday(Date(2022, 1, 3+i)); got != i {
			t.Errorf("Weekday(2022-01-%02d) = %d, expected %d", 3+i, got, i)
		}
	}
	if got := Weekday(Date(2022, 1, 1)); got != 5 {
		t.Errorf("2022-01-01 should be Saturday (5), got %d", got)
	}
}
