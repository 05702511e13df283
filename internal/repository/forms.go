package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/bosk-dev/work-hours/backend/internal/workhours"
)

// ListFilter selects forms for the work log. Deleted forms are left out unless asked for by
// status or IncludeDeleted.
type ListFilter struct {
	Status         domain.Status
	IncludeDeleted bool
}

func dateParam(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(workhours.CanonicalLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func formatDate(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(workhours.CanonicalLayout)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *Repository) CreateForm(ctx context.Context, f *domain.FormRecord) error {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	requestDate, err := dateParam(f.RequestDate)
	if err != nil {
		return err
	}
	weekStart, err := dateParam(f.ServiceWeek.Start)
	if err != nil {
		return err
	}
	weekEnd, err := dateParam(f.ServiceWeek.End)
	if err != nil {
		return err
	}

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO forms (
			employee_name,
			requestor_name,
			request_date,
			service_week_start,
			service_week_end,
			signature,
			is_submit,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at, version
	`
	params := []any{
		f.EmployeeName,
		f.RequestorName,
		requestDate,
		weekStart,
		weekEnd,
		nullString(f.Signature),
		f.IsSubmit,
		f.Status,
	}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt, &f.Version); err != nil {
		return err
	}

	query = `
		INSERT INTO form_schedules (form_id, position, day, time, location)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (form_id, day) DO UPDATE
		SET
			position = EXCLUDED.position,
			time = EXCLUDED.time,
			location = EXCLUDED.location
	`
	for i, entry := range f.Schedule {
		params := []any{f.ID, i, entry.Day, nullString(entry.Time), nullString(entry.Location)}
		if _, err := tx.ExecContext(ctx, query, params...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// SetFormPDFKey records where the rendered form was archived.
func (r *Repository) SetFormPDFKey(ctx context.Context, f *domain.FormRecord, key string) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE forms
		SET
			pdf_key = $1,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $2
		RETURNING updated_at, version
	`
	if err := r.dbpool.QueryRowContext(ctx, query, key, f.ID).Scan(&f.UpdatedAt, &f.Version); err != nil {
		return err
	}

	f.PDFKey = key
	return nil
}

// UpdateFormStatus changes the status if the form is still at f.Version. A concurrent change
// results in sql.ErrNoRows.
func (r *Repository) UpdateFormStatus(ctx context.Context, f *domain.FormRecord) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE forms
		SET
			status = $1,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING updated_at, version
	`
	params := []any{f.Status, f.ID, f.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&f.UpdatedAt, &f.Version); err != nil {
		return err
	}

	return nil
}

// DeleteForm removes a form and its schedule. Dashboard deletes are status changes; this is
// only used to undo a submission that could not be archived.
func (r *Repository) DeleteForm(ctx context.Context, id string) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		DELETE FROM forms WHERE id = $1
	`
	_, err := r.dbpool.ExecContext(ctx, query, id)
	return err
}

func (r *Repository) GetFormByID(ctx context.Context, id string) (*domain.FormRecord, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT
			employee_name,
			requestor_name,
			request_date,
			service_week_start,
			service_week_end,
			signature,
			is_submit,
			status,
			pdf_key,
			created_at,
			updated_at,
			version
		FROM forms
		WHERE id = $1
	`

	var row struct {
		RequestDate sql.NullTime
		WeekStart   sql.NullTime
		WeekEnd     sql.NullTime
		Signature   sql.NullString
		PDFKey      sql.NullString
	}
	f := &domain.FormRecord{ID: id}
	dst := []any{
		&f.EmployeeName,
		&f.RequestorName,
		&row.RequestDate,
		&row.WeekStart,
		&row.WeekEnd,
		&row.Signature,
		&f.IsSubmit,
		&f.Status,
		&row.PDFKey,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	f.RequestDate = formatDate(row.RequestDate)
	f.ServiceWeek = domain.ServiceWeek{Start: formatDate(row.WeekStart), End: formatDate(row.WeekEnd)}
	f.Signature = row.Signature.String
	f.HasSignature = row.Signature.Valid && row.Signature.String != ""
	f.PDFKey = row.PDFKey.String

	query = `
		SELECT day, time, location
		FROM form_schedules
		WHERE form_id = $1
		ORDER BY position
	`
	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	f.Schedule = make([]domain.ScheduleEntry, 0)
	for rows.Next() {
		var day string
		var t, location sql.NullString
		if err := rows.Scan(&day, &t, &location); err != nil {
			return nil, err
		}
		f.Schedule = append(f.Schedule, domain.ScheduleEntry{Day: day, Time: t.String, Location: location.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return f, nil
}

// ListForms returns the work log, newest first, with the scheduled hours of every form.
func (r *Repository) ListForms(ctx context.Context, filter ListFilter) ([]domain.FormSummary, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var where []string
	var params []any
	switch {
	case filter.Status != "":
		params = append(params, filter.Status)
		where = append(where, fmt.Sprintf("f.status = $%d", len(params)))
	case !filter.IncludeDeleted:
		params = append(params, domain.StatusDeleted)
		where = append(where, fmt.Sprintf("f.status <> $%d", len(params)))
	}

	query := `
		SELECT
			f.id,
			f.employee_name,
			f.requestor_name,
			f.request_date,
			f.service_week_start,
			f.service_week_end,
			f.status,
			f.is_submit,
			f.pdf_key,
			f.created_at,
			fs.time
		FROM forms f
		LEFT JOIN form_schedules fs ON f.id = fs.form_id
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY f.created_at DESC, f.id, fs.position"

	rows, err := r.dbpool.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := make([]domain.FormSummary, 0)
	schedules := make(map[string][]domain.ScheduleEntry)
	for rows.Next() {
		var row struct {
			Summary     domain.FormSummary
			RequestDate sql.NullTime
			WeekStart   sql.NullTime
			WeekEnd     sql.NullTime
			PDFKey      sql.NullString
			Time        sql.NullString
		}

		dst := []any{
			&row.Summary.ID,
			&row.Summary.EmployeeName,
			&row.Summary.RequestorName,
			&row.RequestDate,
			&row.WeekStart,
			&row.WeekEnd,
			&row.Summary.Status,
			&row.Summary.IsSubmit,
			&row.PDFKey,
			&row.Summary.CreatedAt,
			&row.Time,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		// rows of the same form are adjacent
		if len(forms) == 0 || forms[len(forms)-1].ID != row.Summary.ID {
			s := row.Summary
			s.RequestDate = formatDate(row.RequestDate)
			s.ServiceWeek = domain.ServiceWeek{Start: formatDate(row.WeekStart), End: formatDate(row.WeekEnd)}
			s.PDFKey = row.PDFKey.String
			forms = append(forms, s)
		}
		if row.Time.Valid {
			schedules[row.Summary.ID] = append(schedules[row.Summary.ID], domain.ScheduleEntry{Time: row.Time.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range forms {
		forms[i].TotalHours = workhours.TotalHours(schedules[forms[i].ID])
	}

	return forms, nil
}
