// Package seed loads development data and imports forms exported from the older deployments.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/bosk-dev/work-hours/backend/internal/utils"
	"github.com/bosk-dev/work-hours/backend/internal/workhours"
)

type Store interface {
	CreateForm(ctx context.Context, f *domain.FormRecord) error
	SetFormPDFKey(ctx context.Context, f *domain.FormRecord, key string) error
}

// Older schemas used other status names.
var legacyStatuses = map[string]domain.Status{
	"pending":   domain.StatusPending,
	"submitted": domain.StatusPending,
	"approved":  domain.StatusApproved,
	"confirmed": domain.StatusConfirmed,
	"archived":  domain.StatusConfirmed,
	"deleted":   domain.StatusDeleted,
	"rejected":  domain.StatusDeleted,
}

// column names are compared lower case without separators, so "employee_name" and
// "employeeName" are the same column
var columnAliases = map[string]string{
	"id":               "id",
	"formid":           "id",
	"employeename":     "employee",
	"employee":         "employee",
	"requestorname":    "requestor",
	"requestor":        "requestor",
	"requestdate":      "requestDate",
	"serviceweekstart": "weekStart",
	"weekstart":        "weekStart",
	"serviceweekend":   "weekEnd",
	"weekend":          "weekEnd",
	"status":           "status",
	"day":              "day",
	"date":             "date",
	"time":             "time",
	"location":         "location",
	"pdfkey":           "pdfKey",
	"s3key":            "pdfKey",
}

type Report struct {
	Rows     int
	Imported int
	Skipped  int
}

type legacyForm struct {
	input  domain.FormInput
	status string
	pdfKey string
	line   int
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(h)
}

// ImportLegacyCSV reads a CSV export with one row per schedule entry and stores one form per
// legacy id (or per employee, request date and week start when the export has no id column).
// Forms go through the same normalization and validation as submissions; invalid forms are
// logged and skipped.
func ImportLegacyCSV(ctx context.Context, r io.Reader, n *workhours.Normalizer, store Store) (Report, error) {
	var report Report

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return report, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int)
	for i, h := range headers {
		if name, ok := columnAliases[normalizeHeader(h)]; ok {
			columns[name] = i
		}
	}
	for _, required := range []string{"employee", "requestDate", "weekStart", "day"} {
		if _, ok := columns[required]; !ok {
			return report, fmt.Errorf("missing column %q", required)
		}
	}

	var order []string
	forms := make(map[string]*legacyForm)

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return report, fmt.Errorf("line %d: %w", line, err)
		}
		report.Rows++

		get := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		key := get("id")
		if key == "" {
			key = strings.Join([]string{get("employee"), get("requestDate"), get("weekStart")}, "|")
		}

		f, ok := forms[key]
		if !ok {
			f = &legacyForm{
				input: domain.FormInput{
					EmployeeName:  get("employee"),
					RequestorName: get("requestor"),
					RequestDate:   get("requestDate"),
					ServiceWeek:   domain.ServiceWeek{Start: get("weekStart"), End: get("weekEnd")},
				},
				status: strings.ToLower(get("status")),
				pdfKey: get("pdfKey"),
				line:   line,
			}
			forms[key] = f
			order = append(order, key)
		}

		if get("day") == "" && get("date") == "" {
			continue
		}
		f.input.Schedule = append(f.input.Schedule, domain.RawScheduleEntry{
			Day:      get("day"),
			Date:     get("date"),
			Time:     get("time"),
			Location: get("location"),
		})
	}

	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		f := forms[key]
		rec := n.Form(&f.input)
		if f.status != "" {
			status, ok := legacyStatuses[f.status]
			if !ok {
				slog.Warn("skipping legacy form", "line", f.line, "error", fmt.Sprintf("unknown status %q", f.status))
				report.Skipped++
				continue
			}
			rec.Status = status
		}

		if err := utils.ValidateFormRecord(rec); err != nil {
			slog.Warn("skipping legacy form", "line", f.line, "error", err)
			report.Skipped++
			continue
		}

		if err := store.CreateForm(ctx, rec); err != nil {
			return report, fmt.Errorf("line %d: failed to save form: %w", f.line, err)
		}
		if f.pdfKey != "" {
			if err := store.SetFormPDFKey(ctx, rec, f.pdfKey); err != nil {
				return report, fmt.Errorf("line %d: failed to save pdf key: %w", f.line, err)
			}
		}
		report.Imported++
	}

	return report, nil
}
