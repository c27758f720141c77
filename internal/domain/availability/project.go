package availability

import (
	"sort"
	"time"
)

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// atMinute returns the absolute time `minute` minutes after midnight on
// the given day. time.Date normalizes an overflow, so minute 1440 lands
// on the following midnight.
func atMinute(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, day.Location())
}

// ProjectDay maps the weekly templates onto a single calendar date.
// Templates whose weekday does not match the date are skipped. The
// returned windows are sorted by start time.
func ProjectDay(templates []*Availability, day time.Time) []Window {
	day = DayStart(day)
	var windows []Window
	for _, t := range templates {
		if t.Weekday != day.Weekday() {
			continue
		}
		windows = append(windows, Window{
			DoctorID: t.DoctorID,
			Start:    atMinute(day, t.StartMinute),
			End:      atMinute(day, t.EndMinute),
		})
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start.Before(windows[j].Start) })
	return windows
}

// ProjectRange maps the templates onto every date from the day containing
// `from` through the day containing `to`, inclusive on both ends.
func ProjectRange(templates []*Availability, from, to time.Time) []Window {
	var windows []Window
	for day := DayStart(from); !day.After(DayStart(to)); day = day.AddDate(0, 0, 1) {
		windows = append(windows, ProjectDay(templates, day)...)
	}
	return windows
}

// ClipWindow intersects the window with [from, to). The second return
// value is false when nothing remains.
func ClipWindow(w Window, from, to time.Time) (Window, bool) {
	if w.Start.Before(from) {
		w.Start = from
	}
	if w.End.After(to) {
		w.End = to
	}
	if !w.Start.Before(w.End) {
		return Window{}, false
	}
	return w, true
}
