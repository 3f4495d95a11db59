// Package calendar maps instants to canonical Monday-first weekday labels in a
// fixed civil timezone.
package calendar

import (
	"fmt"
	"time"
)

// DefaultZone is the civil timezone schedules are kept in.
const DefaultZone = "Asia/Tokyo"

// Weekday is a Monday=0 … Sunday=6 index.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var labels = [7]string{"月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日", "日曜日"}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return labels[w]
}

// Short returns the label without the 曜日 suffix, e.g. 火.
func (w Weekday) Short() string {
	if !w.Valid() {
		return w.String()
	}
	return string([]rune(labels[w])[:1])
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// All returns the seven weekdays in Monday-first order.
func All() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Parse resolves a canonical label. Only the seven full labels are accepted.
func Parse(label string) (Weekday, bool) {
	for i, l := range labels {
		if l == label {
			return Weekday(i), true
		}
	}
	return 0, false
}

// FromNative remaps Go's Sunday=0 ordering.
func FromNative(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekday(d - 1)
}

// Of returns the weekday of t observed in loc.
func Of(t time.Time, loc *time.Location) Weekday {
	return FromNative(t.In(loc).Weekday())
}

// Tomorrow returns the weekday of the calendar day after t in loc.
func Tomorrow(t time.Time, loc *time.Location) Weekday {
	return FromNative(t.In(loc).AddDate(0, 0, 1).Weekday())
}

// LoadZone loads name, falling back to a fixed +09:00 zone when the tz database is missing.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if name == DefaultZone {
			return time.FixedZone("JST", 9*60*60), nil
		}
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}
