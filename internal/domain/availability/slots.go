package availability

import (
	"sort"
	"time"
)

// SubtractBooked removes the booked intervals from the window, returning
// the free remainder in start order. A booking that covers only part of
// the window splits or truncates it; one that covers the whole window
// eliminates it. Bookings outside the window are ignored.
func SubtractBooked(w Window, booked []BookedInterval) []Window {
	free := []Window{w}
	sorted := make([]BookedInterval, len(booked))
	copy(sorted, booked)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	for _, b := range sorted {
		var next []Window
		for _, f := range free {
			// No overlap: booking ends at or before the free span
			// starts, or starts at or after it ends.
			if !b.End.After(f.Start) || !b.Start.Before(f.End) {
				next = append(next, f)
				continue
			}
			if b.Start.After(f.Start) {
				next = append(next, Window{DoctorID: f.DoctorID, Start: f.Start, End: b.Start})
			}
			if b.End.Before(f.End) {
				next = append(next, Window{DoctorID: f.DoctorID, Start: b.End, End: f.End})
			}
		}
		free = next
	}
	return free
}

// CutSlots slices the free windows into fixed-size slots. A slot is
// emitted only when the full granularity fits inside the window, so a
// trailing remainder shorter than the granularity is discarded. Slots
// whose start is not strictly after now are dropped.
func CutSlots(free []Window, granularity time.Duration, now time.Time) []Slot {
	var slots []Slot
	for _, w := range free {
		for start := w.Start; !start.Add(granularity).After(w.End); start = start.Add(granularity) {
			if !start.After(now) {
				continue
			}
			slots = append(slots, Slot{
				DoctorID: w.DoctorID,
				Start:    start,
				End:      start.Add(granularity),
			})
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots
}
