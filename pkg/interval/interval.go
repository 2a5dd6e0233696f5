package interval

import "time"

// Interval is a half-open date range [CheckIn, CheckOut).
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) Interval {
	return Interval{CheckIn: checkIn, CheckOut: checkOut}
}

// Overlaps reports whether a and b share at least one instant. Because both
// ranges are half-open, a checkout on day N and a check-in on day N do not
// overlap: the room turns over same-day.
func Overlaps(a, b Interval) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}

// Valid reports whether the range has positive length.
func (iv Interval) Valid() bool {
	return iv.CheckOut.After(iv.CheckIn)
}

// Contains reports whether t falls inside the half-open range.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.CheckIn) && t.Before(iv.CheckOut)
}

// NormalizeDate truncates t to midnight UTC. Check-in and check-out instants
// are stored normalized so that bookings created from different client
// timezones compare consistently.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
