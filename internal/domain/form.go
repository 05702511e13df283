package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusConfirmed Status = "confirmed"
	StatusDeleted   Status = "deleted"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusConfirmed, StatusDeleted}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ScheduleEntry is one row of the weekly schedule. Day is a composite label such as "03/20/Monday".
type ScheduleEntry struct {
	Day      string `json:"day"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

// Active reports whether the entry has anything worth rendering.
func (e ScheduleEntry) Active() bool {
	return strings.TrimSpace(e.Time) != "" || strings.TrimSpace(e.Location) != ""
}

type ServiceWeek struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FormRecord is a normalized work hours form. All dates are MM/DD/YYYY.
type FormRecord struct {
	ID            string          `json:"id"`
	EmployeeName  string          `json:"employeeName"`
	RequestorName string          `json:"requestorName"`
	RequestDate   string          `json:"requestDate"`
	ServiceWeek   ServiceWeek     `json:"serviceWeek"`
	Schedule      []ScheduleEntry `json:"schedule"`
	Signature     string          `json:"-"`
	HasSignature  bool            `json:"hasSignature"`
	IsSubmit      bool            `json:"isSubmit"`
	Status        Status          `json:"status"`
	PDFKey        string          `json:"pdfKey"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Version       int32           `json:"-"`
}

// FormSummary is a list row of the work log.
type FormSummary struct {
	ID            string      `json:"id"`
	EmployeeName  string      `json:"employeeName"`
	RequestorName string      `json:"requestorName"`
	RequestDate   string      `json:"requestDate"`
	ServiceWeek   ServiceWeek `json:"serviceWeek"`
	Status        Status      `json:"status"`
	IsSubmit      bool        `json:"isSubmit"`
	PDFKey        string      `json:"pdfKey"`
	CreatedAt     time.Time   `json:"createdAt"`
	TotalHours    float64     `json:"totalHours"`
}
