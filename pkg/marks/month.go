package marks

import "time"

// Cell is one slot of the month grid. Blank cells pad the first and last
// week and have Day == 0.
type Cell struct {
	Day    int
	Date   string
	Marked bool
	Today  bool
}

// Blank reports whether the cell is padding.
func (c Cell) Blank() bool {
	return c.Day == 0
}

// Month is the calendar page currently in view.
type Month struct {
	first time.Time
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{first: time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())}
}

// First is midnight on the first day of the month.
func (m Month) First() time.Time {
	return m.first
}

// Prev returns the previous month.
func (m Month) Prev() Month {
	return Month{first: m.first.AddDate(0, -1, 0)}
}

// Next returns the following month.
func (m Month) Next() Month {
	return Month{first: m.first.AddDate(0, 1, 0)}
}

// Title renders "March 2024".
func (m Month) Title() string {
	return m.first.Format("January 2006")
}

// Days is the number of days in the month.
func (m Month) Days() int {
	return DaysIn(m.first)
}

// Date returns the day of the month at midnight.
func (m Month) Date(day int) time.Time {
	return time.Date(m.first.Year(), m.first.Month(), day, 0, 0, 0, 0, m.first.Location())
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.first.Year() && t.Month() == m.first.Month()
}

// Weeks lays the month out in Sunday-first rows of seven cells.
func (m Month) Weeks(set Marks, now time.Time) [][]Cell {
	lead := int(m.first.Weekday())
	days := m.Days()
	total := lead + days
	trailing := (7 - total%7) % 7

	cells := make([]Cell, 0, total+trailing)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{})
	}
	for d := 1; d <= days; d++ {
		key := Key(m.Date(d))
		cells = append(cells, Cell{
			Day:    d,
			Date:   key,
			Marked: set.Marked(key),
			Today:  m.Contains(now) && now.Day() == d,
		})
	}
	for i := 0; i < trailing; i++ {
		cells = append(cells, Cell{})
	}

	weeks := make([][]Cell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

// DaysIn returns the number of days in the month containing then.
func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
