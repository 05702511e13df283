// Package formpdf fills the work hours form template with a submitted record.
//
// All coordinates are PDF points with the origin in the bottom-left corner of a US Letter page.
// They are calibrated to one specific template document (assets/Form.pdf): replacing the template
// means recalibrating DefaultLayout together with it.
package formpdf

import (
	"strings"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
)

type Point struct {
	X float64
	Y float64
}

type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Layout maps each form field to its anchor on the template page.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	FontFamily string
	FontSize   float64

	RequestDate     Point
	RequestorName   Point
	EmployeeName    Point
	PrimaryLocation Point
	ServiceWeek     Point

	// Schedule rows start at ScheduleTop and move down by RowAdvance for every rendered row.
	ScheduleTop       float64
	RowAdvance        float64
	ScheduleDayX      float64
	ScheduleTimeX     float64
	ScheduleLocationX float64

	SignatureName      Point
	SignatureImage     Box
	SignatureRequestor Point
}

var DefaultLayout = Layout{
	PageWidth:  612,
	PageHeight: 792,
	FontFamily: "Helvetica",
	FontSize:   10,

	RequestDate:     Point{X: 440, Y: 710},
	RequestorName:   Point{X: 440, Y: 678},
	EmployeeName:    Point{X: 215, Y: 575},
	PrimaryLocation: Point{X: 215, Y: 540},
	ServiceWeek:     Point{X: 210, Y: 500},

	ScheduleTop:       440,
	RowAdvance:        30,
	ScheduleDayX:      150,
	ScheduleTimeX:     260,
	ScheduleLocationX: 400,

	SignatureName:      Point{X: 330, Y: 230},
	SignatureImage:     Box{X: 280, Y: 165, Width: 150, Height: 50},
	SignatureRequestor: Point{X: 430, Y: 190},
}

type OpKind int

const (
	OpText OpKind = iota + 1
	OpSignature
)

// Op is a single drawing operation on the overlay.
type Op struct {
	Kind OpKind
	At   Point
	Text string
	Box  Box
}

// Plan lays out rec on the page. Blank fields produce no operation at all, and schedule entries
// without a time and a location neither draw nor take up a row.
func Plan(rec *domain.FormRecord, l Layout) []Op {
	var ops []Op
	text := func(at Point, s string) {
		if s = strings.TrimSpace(s); s != "" {
			ops = append(ops, Op{Kind: OpText, At: at, Text: s})
		}
	}

	text(l.RequestDate, rec.RequestDate)
	text(l.RequestorName, rec.RequestorName)
	text(l.EmployeeName, rec.EmployeeName)

	if len(rec.Schedule) > 0 {
		text(l.PrimaryLocation, rec.Schedule[0].Location)
	}

	start := strings.TrimSpace(rec.ServiceWeek.Start)
	end := strings.TrimSpace(rec.ServiceWeek.End)
	if start != "" || end != "" {
		text(l.ServiceWeek, start+" ~ "+end)
	}

	y := l.ScheduleTop
	for _, e := range rec.Schedule {
		if !e.Active() {
			continue
		}
		text(Point{X: l.ScheduleDayX, Y: y}, e.Day)
		text(Point{X: l.ScheduleTimeX, Y: y}, e.Time)
		text(Point{X: l.ScheduleLocationX, Y: y}, e.Location)
		y -= l.RowAdvance
	}

	text(l.SignatureName, rec.EmployeeName)
	if strings.TrimSpace(rec.Signature) != "" {
		ops = append(ops, Op{Kind: OpSignature, Box: l.SignatureImage})
	}
	text(l.SignatureRequestor, rec.RequestorName)

	return ops
}
