package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
)

// ValidationError reports the first field of a form that cannot be accepted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

func isCanonicalDate(s string) bool {
	_, err := time.Parse("01/02/2006", s)
	return err == nil
}

// ValidateFormRecord checks a normalized record before it is rendered and stored.
// Normalization leaves unrecognized dates empty, so they surface here as missing.
func ValidateFormRecord(rec *domain.FormRecord) error {
	if strings.TrimSpace(rec.EmployeeName) == "" {
		return invalid("employeeName", "is required")
	}
	if strings.TrimSpace(rec.RequestorName) == "" {
		return invalid("requestorName", "is required")
	}

	if rec.RequestDate == "" {
		return invalid("requestDate", "is missing or not a recognizable date")
	}
	if !isCanonicalDate(rec.RequestDate) {
		return invalid("requestDate", "must be MM/DD/YYYY")
	}

	if rec.ServiceWeek.Start == "" {
		return invalid("serviceWeek.start", "is missing or not a recognizable date")
	}
	if !isCanonicalDate(rec.ServiceWeek.Start) {
		return invalid("serviceWeek.start", "must be MM/DD/YYYY")
	}
	if rec.ServiceWeek.End != "" && !isCanonicalDate(rec.ServiceWeek.End) {
		return invalid("serviceWeek.end", "must be MM/DD/YYYY")
	}

	if len(rec.Schedule) == 0 {
		return invalid("schedule", "must contain at least one entry")
	}
	// Schedule rows are keyed by day; a repeated day overwrites the earlier row.
	for i, entry := range rec.Schedule {
		if strings.TrimSpace(entry.Day) == "" {
			return invalid(fmt.Sprintf("schedule[%d].day", i), "is required")
		}
	}

	if !rec.Status.Valid() {
		return invalid("status", fmt.Sprintf("must be one of %v", domain.Statuses))
	}

	return nil
}
