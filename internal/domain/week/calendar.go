package week

import (
	"fmt"
	"time"
)

// Key identifies one competition period by ISO-8601 week number and year.
type Key struct {
	Number int
	Year   int
}

func (k Key) String() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Number)
}

func (k Key) IsZero() bool {
	return k.Number == 0 && k.Year == 0
}

// KeyOf returns the ISO week key of a point in time. ISO numbering anchors a
// week on its Thursday, which keeps numbers contiguous across year ends.
func KeyOf(t time.Time) Key {
	year, number := t.UTC().ISOWeek()
	return Key{Number: number, Year: year}
}

// Previous returns the key of the week immediately before k, wrapping into
// week 52/53 of the prior year near the year start.
func (k Key) Previous() Key {
	return KeyOf(mondayOf(k).AddDate(0, 0, -7))
}

// Next returns the key of the week immediately after k.
func (k Key) Next() Key {
	return KeyOf(mondayOf(k).AddDate(0, 0, 7))
}

// mondayOf finds the Monday of ISO week k. January 4th is always inside
// week 1 of its ISO year.
func mondayOf(k Key) time.Time {
	jan4 := time.Date(k.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	firstMonday := jan4.AddDate(0, 0, 1-weekday)
	return firstMonday.AddDate(0, 0, (k.Number-1)*7)
}

// SaturdayOf is the conventional matchday anchor used when a slate must be
// built without any real kickoff data.
func SaturdayOf(k Key) time.Time {
	return mondayOf(k).AddDate(0, 0, 5).Add(18 * time.Hour)
}
