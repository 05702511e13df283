package domain

import "time"

type EventType string

const (
	EventFormSubmitted EventType = "form_submitted"
	EventStatusChanged EventType = "status_changed"
)

// FormEvent is published to the form event queue and consumed by the notifier.
type FormEvent struct {
	Type           EventType   `json:"type"`
	FormID         string      `json:"formId"`
	EmployeeName   string      `json:"employeeName"`
	RequestorName  string      `json:"requestorName"`
	ServiceWeek    ServiceWeek `json:"serviceWeek"`
	Status         Status      `json:"status"`
	PreviousStatus Status      `json:"previousStatus,omitempty"`
	PDFKey         string      `json:"pdfKey,omitempty"`
	TotalHours     float64     `json:"totalHours"`
	OccurredAt     time.Time   `json:"occurredAt"`
}

func NewFormEvent(t EventType, f *FormRecord, totalHours float64) FormEvent {
	return FormEvent{
		Type:          t,
		FormID:        f.ID,
		EmployeeName:  f.EmployeeName,
		RequestorName: f.RequestorName,
		ServiceWeek:   f.ServiceWeek,
		Status:        f.Status,
		PDFKey:        f.PDFKey,
		TotalHours:    totalHours,
		OccurredAt:    time.Now().UTC(),
	}
}
