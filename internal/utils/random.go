package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
)

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda", "David", "Elizabeth",
	"William", "Barbara", "Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Carlos", "Maria",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Lee",
}

var locations = []string{
	"BOSK Trailer", "Plant 1", "Plant 2", "Warehouse", "Main Office", "Training Room", "Clinic",
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

func GenerateRandomName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

// GenerateRandomTimeRange returns a shift such as "8:30 AM - 5:00 PM", occasionally overnight.
func GenerateRandomTimeRange() string {
	start := rand.Intn(24*2) * 30
	length := (rand.Intn(8) + 2) * 60
	end := (start + length) % (24 * 60)
	return formatClock(start) + " - " + formatClock(end)
}

func formatClock(minutes int) string {
	h, m := minutes/60, minutes%60
	meridiem := "AM"
	if h >= 12 {
		meridiem = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, meridiem)
}

// GenerateRandomFormInput builds a raw submission for a service week starting on a Monday within
// the last year. Some days are left empty, as real forms often are.
func GenerateRandomFormInput() *domain.FormInput {
	now := time.Now()
	start := now.AddDate(0, 0, -rand.Intn(365))
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}

	in := &domain.FormInput{
		EmployeeName:  GenerateRandomName(),
		RequestorName: GenerateRandomName(),
		RequestDate:   start.AddDate(0, 0, -rand.Intn(7)).Format("1/2/2006"),
		ServiceWeek: domain.ServiceWeek{
			Start: start.Format("2006-01-02"),
		},
	}

	location := locations[rand.Intn(len(locations))]
	for i, day := range weekdays {
		entry := domain.RawScheduleEntry{
			Day:  day,
			Date: start.AddDate(0, 0, i).Format("1/2/2006"),
		}
		if rand.Intn(4) != 0 {
			entry.Time = GenerateRandomTimeRange()
			entry.Location = location
		}
		in.Schedule = append(in.Schedule, entry)
	}

	return in
}

var statusWeights = []domain.Status{
	domain.StatusPending, domain.StatusPending, domain.StatusPending,
	domain.StatusApproved, domain.StatusApproved,
	domain.StatusConfirmed,
	domain.StatusDeleted,
}

func GenerateRandomStatus() domain.Status {
	return statusWeights[rand.Intn(len(statusWeights))]
}
