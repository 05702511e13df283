package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/bosk-dev/work-hours/backend/internal/workhours"
)

func validRecord() *domain.FormRecord {
	return &domain.FormRecord{
		EmployeeName:  "John Doe",
		RequestorName: "Jane Smith",
		RequestDate:   "03/20/2024",
		ServiceWeek:   domain.ServiceWeek{Start: "03/20/2024", End: "03/24/2024"},
		Schedule: []domain.ScheduleEntry{
			{Day: "03/20/Monday", Time: "8:00 AM - 5:00 PM", Location: "BOSK Trailer"},
			{Day: "03/21/Tuesday"},
		},
		Status: domain.StatusPending,
	}
}

func TestValidateFormRecord(t *testing.T) {
	if err := ValidateFormRecord(validRecord()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*domain.FormRecord)
		field  string
	}{
		{"blank employee", func(r *domain.FormRecord) { r.EmployeeName = "  " }, "employeeName"},
		{"blank requestor", func(r *domain.FormRecord) { r.RequestorName = "" }, "requestorName"},
		{"missing request date", func(r *domain.FormRecord) { r.RequestDate = "" }, "requestDate"},
		{"non canonical request date", func(r *domain.FormRecord) { r.RequestDate = "2024-03-20" }, "requestDate"},
		{"missing week start", func(r *domain.FormRecord) { r.ServiceWeek.Start = "" }, "serviceWeek.start"},
		{"bad week end", func(r *domain.FormRecord) { r.ServiceWeek.End = "soon" }, "serviceWeek.end"},
		{"empty schedule", func(r *domain.FormRecord) { r.Schedule = nil }, "schedule"},
		{"blank day", func(r *domain.FormRecord) { r.Schedule[1].Day = " " }, "schedule[1].day"},
		{"unknown status", func(r *domain.FormRecord) { r.Status = "rejected" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)

			err := ValidateFormRecord(rec)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestGenerateRandomTimeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		r := GenerateRandomTimeRange()
		hours := workhours.HoursInRange(r)
		if hours < 2 || hours > 9 {
			t.Fatalf("%q: expected 2 to 9 hours, got %v", r, hours)
		}
	}
}

func TestGenerateRandomFormInputNormalizes(t *testing.T) {
	n := workhours.NewNormalizer(nil)

	for i := 0; i < 50; i++ {
		rec := n.Form(GenerateRandomFormInput())
		if err := ValidateFormRecord(rec); err != nil {
			t.Fatalf("generated form does not validate: %v", err)
		}
		if !strings.HasSuffix(rec.Schedule[0].Day, "/Monday") {
			t.Fatalf("unexpected first day %q", rec.Schedule[0].Day)
		}
	}
}
