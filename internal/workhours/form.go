package workhours

import (
	"strings"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
)

// Form normalizes a submitted form. It never fails: unrecognized dates are left empty and it is up
// to the caller to reject records that need them. A missing or unrecognized week end is derived
// from the week start.
func (n *Normalizer) Form(in *domain.FormInput) *domain.FormRecord {
	rec := &domain.FormRecord{
		EmployeeName:  strings.TrimSpace(in.EmployeeName),
		RequestorName: strings.TrimSpace(in.RequestorName),
		Schedule:      n.Schedule(in.Schedule),
		Signature:     strings.TrimSpace(in.Signature),
		IsSubmit:      true,
		Status:        domain.StatusPending,
	}
	rec.HasSignature = rec.Signature != ""

	if in.IsSubmit != nil {
		rec.IsSubmit = *in.IsSubmit
	}

	rec.RequestDate, _ = n.Date(in.RequestDate)

	start, ok := n.Date(in.ServiceWeek.Start)
	if ok {
		rec.ServiceWeek.Start = start
	}

	end, ok := n.Date(in.ServiceWeek.End)
	switch {
	case ok:
		rec.ServiceWeek.End = end
	case rec.ServiceWeek.Start != "":
		// Start is canonical at this point, so this cannot fail.
		rec.ServiceWeek.End, _ = DeriveWeekEnd(rec.ServiceWeek.Start)
	}

	return rec
}
