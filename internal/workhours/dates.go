// Package workhours normalizes submitted work hours forms and computes scheduled hours.
package workhours

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// CanonicalLayout is the only date format stored, rendered and returned by the service.
const CanonicalLayout = "01/02/2006"

// Accepted input layouts, first match wins. Single-digit months and days are accepted.
var inputLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"2006-1-2",
	"2006/1/2",
}

// weekSpan is the distance between the first and the last working day of a service week.
const weekSpan = 4

// DateError reports a value that is not a recognizable date.
type DateError struct {
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("unrecognized date %q", e.Value)
}

// Normalizer turns raw form input into canonical values.
type Normalizer struct {
	// Now supplies the year for dates submitted without one.
	Now    func() time.Time
	Logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		Now:    time.Now,
		Logger: logger,
	}
}

// Date converts raw into MM/DD/YYYY. It returns false for blank input and for input matching
// none of the accepted layouts; the latter is logged as a warning.
func (n *Normalizer) Date(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}

	if parts := strings.Split(value, "/"); len(parts) == 2 {
		value = value + "/" + strconv.Itoa(n.Now().Year())
	}

	for _, layout := range inputLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.Format(CanonicalLayout), true
		}
	}

	n.Logger.Warn("unrecognized date", "value", raw)
	return "", false
}

// ParseCanonical parses a MM/DD/YYYY date.
func ParseCanonical(s string) (time.Time, error) {
	t, err := time.Parse(CanonicalLayout, s)
	if err != nil {
		return time.Time{}, &DateError{Value: s}
	}
	return t, nil
}

// DeriveWeekEnd returns the last working day of the service week starting at start.
// start must already be canonical.
func DeriveWeekEnd(start string) (string, error) {
	t, err := ParseCanonical(start)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, weekSpan).Format(CanonicalLayout), nil
}
