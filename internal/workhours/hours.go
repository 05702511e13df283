package workhours

import (
	"math"
	"strings"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
)

const (
	rangeSeparator = " - "
	enDash         = "–"
	clockLayout    = "3:04 PM"
	minutesPerDay  = 24 * 60
)

// HoursInRange returns the length in hours of a range such as "8:00 AM - 5:00 PM". A range whose
// end is not after its start crosses midnight. Anything that cannot be read yields 0, which means
// zero scheduled hours: the function never fails.
func HoursInRange(text string) float64 {
	text = strings.ReplaceAll(text, enDash, rangeSeparator)

	startText, endText, found := strings.Cut(text, rangeSeparator)
	if !found {
		return 0
	}

	start, ok := minutesSinceMidnight(startText)
	if !ok {
		return 0
	}
	end, ok := minutesSinceMidnight(endText)
	if !ok {
		return 0
	}

	if end <= start {
		end += minutesPerDay
	}

	return round2(float64(end-start) / 60)
}

// TotalHours sums the scheduled hours of every entry.
func TotalHours(entries []domain.ScheduleEntry) float64 {
	var total float64
	for _, e := range entries {
		total += HoursInRange(e.Time)
	}
	return round2(total)
}

func minutesSinceMidnight(s string) (int, bool) {
	t, err := time.Parse(clockLayout, strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
