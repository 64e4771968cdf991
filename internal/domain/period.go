package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Period is an inclusive range of calendar days in UTC.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewPeriod normalizes both ends to midnight UTC.
func NewPeriod(from, to time.Time) Period {
	return Period{From: truncateDay(from), To: truncateDay(to)}
}

// ParsePeriod parses YYYY-MM-DD bounds. An empty "to" means the same day as "from".
func ParsePeriod(from, to string) (Period, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return Period{}, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	end := start
	if to != "" {
		end, err = time.Parse(DateLayout, to)
		if err != nil {
			return Period{}, fmt.Errorf("invalid to date %q: %w", to, err)
		}
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("period end %s is before start %s", to, from)
	}
	return NewPeriod(start, end), nil
}

// Yesterday returns the single previous UTC day relative to now.
func Yesterday(now time.Time) Period {
	day := truncateDay(now).AddDate(0, 0, -1)
	return Period{From: day, To: day}
}

// PreviousWeek returns the last complete Monday-Sunday week before now.
func PreviousWeek(now time.Time) Period {
	today := truncateDay(now)
	offset := (int(today.Weekday()) + 6) % 7
	thisMonday := today.AddDate(0, 0, -offset)
	return Period{From: thisMonday.AddDate(0, 0, -7), To: thisMonday.AddDate(0, 0, -1)}
}

// Days returns the inclusive number of days in the period.
func (p Period) Days() int {
	if p.From.IsZero() || p.To.IsZero() || p.To.Before(p.From) {
		return 0
	}
	return int(p.To.Sub(p.From).Hours()/24) + 1
}

// End returns the last instant covered by the period.
func (p Period) End() time.Time {
	return p.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.From) && !t.After(p.End())
}

func (p Period) String() string {
	if p.From.Equal(p.To) {
		return p.From.Format(DateLayout)
	}
	return p.From.Format(DateLayout) + " - " + p.To.Format(DateLayout)
}
