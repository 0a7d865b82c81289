package notifications

import "time"

// Window is one calendar week in the location of the instant it was built
// from. End is the last whole second of the seventh day.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	next  time.Time
}

func WeekWindow(now time.Time, weekStart time.Weekday) Window {
	offset := (int(now.Weekday()) - int(weekStart) + 7) % 7
	y, m, d := now.Date()
	start := time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
	next := time.Date(y, m, d-offset+7, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: next.Add(-time.Second), next: next}
}

func (w Window) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Before(w.Start) && t.Before(w.next)
}
