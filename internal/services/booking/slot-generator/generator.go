// internal/services/booking/slot-generator/generator.go
package slotgenerator

import (
	"fmt"
	"time"

	"site-builder/internal/common/validation"
	"site-builder/internal/models"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
	// RequestedSlotLayout is the UTC ISO-8601 form sent as lead.requestedSlot.
	RequestedSlotLayout = "2006-01-02T15:04:05.000Z"
)

// Generate returns the bookable HH:mm slot starts for date. Slots begin at
// hours.Start and step by duration minutes while the slot start is strictly
// before hours.End; the last slot may run past the end. A window that cannot
// hold a single slot yields an empty, non-nil slice.
func Generate(date time.Time, hours models.AvailableHours, duration int) []string {
	slots := []string{}
	if duration <= 0 {
		return slots
	}

	start, err := atClock(date, hours.Start)
	if err != nil {
		return slots
	}
	end, err := atClock(date, hours.End)
	if err != nil {
		return slots
	}

	step := time.Duration(duration) * time.Minute
	if !start.Before(end) || start.Add(step).After(end) {
		return slots
	}

	for current := start; current.Before(end); current = current.Add(step) {
		slots = append(slots, current.Format(clockLayout))
	}
	return slots
}

// IsDateDisabled reports whether day cannot be booked: its calendar day lies
// before today's, or its weekday (0=Sunday) is blocked. Time of day is ignored.
func IsDateDisabled(day, now time.Time, blockedDays []int) bool {
	if startOfDay(day).Before(startOfDay(now)) {
		return true
	}
	weekday := int(day.Weekday())
	for _, blocked := range blockedDays {
		if blocked == weekday {
			return true
		}
	}
	return false
}

// SlotTime combines the calendar day of date with an HH:mm slot in date's location.
func SlotTime(date time.Time, slot string) (time.Time, error) {
	return atClock(date, slot)
}

// RequestedSlot formats a slot start the way the lead webhook expects it.
func RequestedSlot(t time.Time) string {
	return t.UTC().Format(RequestedSlotLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date at local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func atClock(date time.Time, hhmm string) (time.Time, error) {
	if !validation.ValidateClock(hhmm) {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:mm", hhmm)
	}
	clock, err := time.Parse(clockLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, date.Location()), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
