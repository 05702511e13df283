package workhours

import (
	"strings"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
)

// Schedule converts raw entries into canonical entries, preserving order. When an entry carries a
// parseable date its day label becomes "MM/DD/<day name>"; otherwise the day is kept as given.
// Entries are never dropped.
func (n *Normalizer) Schedule(entries []domain.RawScheduleEntry) []domain.ScheduleEntry {
	out := make([]domain.ScheduleEntry, 0, len(entries))

	for _, raw := range entries {
		entry := domain.ScheduleEntry{
			Day:      strings.TrimSpace(raw.Day),
			Time:     strings.TrimSpace(raw.Time),
			Location: strings.TrimSpace(raw.Location),
		}

		if date, ok := n.Date(raw.Date); ok {
			entry.Day = dayLabel(date, entry.Day)
		}

		out = append(out, entry)
	}

	return out
}

// dayLabel combines a canonical date with the trailing token of a day field,
// e.g. ("03/20/2024", "03/19/Monday") -> "03/20/Monday".
func dayLabel(canonical, day string) string {
	name := day
	if i := strings.LastIndex(day, "/"); i >= 0 {
		name = day[i+1:]
	}
	name = strings.TrimSpace(name)

	if name == "" {
		// the date parsed, so the weekday is known
		if t, err := ParseCanonical(canonical); err == nil {
			name = t.Weekday().String()
		}
	}

	return canonical[:5] + "/" + name
}

// ToRaw turns canonical entries back into raw input, e.g. when re-rendering a stored form.
func ToRaw(entries []domain.ScheduleEntry) []domain.RawScheduleEntry {
	out := make([]domain.RawScheduleEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.RawScheduleEntry{Day: e.Day, Time: e.Time, Location: e.Location})
	}
	return out
}
