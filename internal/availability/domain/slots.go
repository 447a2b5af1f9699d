// Package domain holds the appointment grid and the busy-buffer rule.
package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// SlotDuration is the length of every appointment.
	SlotDuration = 30 * time.Minute
	// Buffer is kept clear on both sides of every busy interval.
	Buffer = 2 * time.Hour
	// SlotInterval is the spacing of candidate start times.
	SlotInterval = 15 * time.Minute

	dayStartHour = 9
	dayEndHour   = 18

	// DateLayout is the wire format of a calendar date.
	DateLayout = "2006-01-02"
	timeLayout = "3:04 PM"
)

// BusySlot is an external commitment on the calendar.
type BusySlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Slot is one candidate start time and whether it can be booked.
type Slot struct {
	Time    string    `json:"time"`
	Start   time.Time `json:"start"`
	Blocked bool      `json:"blocked"`
}

// CandidateTimes lists start times from 9:00 AM to 5:45 PM in 15 minute
// steps. 6:00 PM closes the window and is never a start time.
func CandidateTimes() []string {
	base := time.Date(2000, 1, 1, dayStartHour, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, dayEndHour, 0, 0, 0, time.UTC)
	var out []string
	for t := base; t.Before(end); t = t.Add(SlotInterval) {
		out = append(out, t.Format(timeLayout))
	}
	return out
}

// ParseSlotTime reads a display time such as "2:30 PM".
func ParseSlotTime(s string) (hour, minute int, err error) {
	t, err := time.Parse(timeLayout, strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

// IsOnGrid reports whether s is one of the candidate start times.
func IsOnGrid(s string) bool {
	h, m, err := ParseSlotTime(s)
	if err != nil {
		return false
	}
	start := time.Date(2000, 1, 1, h, m, 0, 0, time.UTC)
	if h < dayStartHour || m%int(SlotInterval/time.Minute) != 0 {
		return false
	}
	return start.Before(time.Date(2000, 1, 1, dayEndHour, 0, 0, 0, time.UTC))
}

// FormatSlotTime renders t on the display grid format.
func FormatSlotTime(t time.Time) string {
	return t.Format(timeLayout)
}

// SlotStart combines a calendar date and a display time in the date's location.
func SlotStart(date time.Time, slotTime string) (time.Time, error) {
	h, m, err := ParseSlotTime(slotTime)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, 0, 0, date.Location()), nil
}

// IsSlotBlocked reports whether [start, start+30m) on date intersects any
// busy interval widened by Buffer on both sides. An unparsable time is blocked.
func IsSlotBlocked(date time.Time, slotTime string, busy []BusySlot) bool {
	start, err := SlotStart(date, slotTime)
	if err != nil {
		return true
	}
	return blockedAt(start, busy)
}

func blockedAt(start time.Time, busy []BusySlot) bool {
	end := start.Add(SlotDuration)
	for _, b := range busy {
		busyStart := b.Start.Add(-Buffer)
		busyEnd := b.End.Add(Buffer)
		if start.Before(busyEnd) && end.After(busyStart) {
			return true
		}
	}
	return false
}

// DaySlots evaluates every candidate time of date against busy.
func DaySlots(date time.Time, busy []BusySlot) []Slot {
	times := CandidateTimes()
	slots := make([]Slot, 0, len(times))
	for _, label := range times {
		start, _ := SlotStart(date, label)
		slots = append(slots, Slot{Time: label, Start: start, Blocked: blockedAt(start, busy)})
	}
	return slots
}

// DateSelectable reports whether date may be booked relative to today: not
// in the past and no more than one calendar month ahead. Weekends are fine.
func DateSelectable(date, today time.Time) bool {
	d := StartOfDay(date)
	t := StartOfDay(today.In(date.Location()))
	if d.Before(t) {
		return false
	}
	return !d.After(t.AddDate(0, 1, 0))
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate reads a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return d, nil
}
