package notify

import (
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var (
	ErrUnknownEvent = errors.New("unknown event type")
	ErrNoRecipients = errors.New("no recipients configured")
)

// Composer turns form events into e-mails for the managers.
type Composer struct {
	From         string
	Recipients   []string
	DashboardURL string
}

type mailData struct {
	domain.FormEvent
	DashboardURL string
}

func (c *Composer) Compose(ev domain.FormEvent) (*mail.Msg, error) {
	var tmpl, subject, text string
	week := ev.ServiceWeek.Start + " ~ " + ev.ServiceWeek.End

	switch ev.Type {
	case domain.EventFormSubmitted:
		tmpl = "form_submitted.html"
		subject = fmt.Sprintf("Work hours form submitted: %s (%s)", ev.EmployeeName, week)
		text = fmt.Sprintf("%s submitted a work hours form for %s, requested by %s. Total hours: %.2f.",
			ev.EmployeeName, week, ev.RequestorName, ev.TotalHours)
	case domain.EventStatusChanged:
		tmpl = "status_changed.html"
		subject = fmt.Sprintf("Work hours form %s: %s (%s)", ev.Status, ev.EmployeeName, week)
		text = fmt.Sprintf("The form of %s for %s changed from %s to %s.",
			ev.EmployeeName, week, ev.PreviousStatus, ev.Status)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}

	if len(c.Recipients) == 0 {
		return nil, ErrNoRecipients
	}

	msg := mail.NewMsg()
	if err := msg.From(c.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(c.Recipients...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(subject)

	if err := msg.SetBodyHTMLTemplate(templates.Lookup(tmpl), mailData{FormEvent: ev, DashboardURL: c.DashboardURL}); err != nil {
		return nil, err
	}
	msg.AddAlternativeString(mail.TypeTextPlain, text)

	return msg, nil
}
