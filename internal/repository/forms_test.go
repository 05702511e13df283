package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/bosk-dev/work-hours/backend/internal/config"
	"github.com/bosk-dev/work-hours/backend/internal/domain"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// newTestRepository connects to TEST_DATABASE_DSN, a disposable database the tests may write to.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10
	return NewRepository(cfg, db)
}

func testForm(employee string) *domain.FormRecord {
	return &domain.FormRecord{
		EmployeeName:  employee,
		RequestorName: "Jane Smith",
		RequestDate:   "03/20/2024",
		ServiceWeek:   domain.ServiceWeek{Start: "03/20/2024", End: "03/24/2024"},
		Schedule: []domain.ScheduleEntry{
			{Day: "03/20/Monday", Time: "8:00 AM - 5:00 PM", Location: "BOSK Trailer"},
			{Day: "03/21/Tuesday"},
			{Day: "03/22/Wednesday", Time: "10:00 PM - 6:00 AM"},
		},
		IsSubmit: true,
		Status:   domain.StatusPending,
	}
}

func TestFormLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	f := testForm("John Doe")
	if err := repo.CreateForm(ctx, f); err != nil {
		t.Fatalf("CreateForm: %v", err)
	}
	t.Cleanup(func() { repo.DeleteForm(context.Background(), f.ID) })
	if f.ID == "" || f.Version != 1 {
		t.Fatalf("expected id and version to be assigned, got %q %d", f.ID, f.Version)
	}

	if err := repo.SetFormPDFKey(ctx, f, "work-hours-forms/John_Doe_"+f.ID+".pdf"); err != nil {
		t.Fatalf("SetFormPDFKey: %v", err)
	}

	got, err := repo.GetFormByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetFormByID: %v", err)
	}
	if got.RequestDate != "03/20/2024" || got.ServiceWeek.End != "03/24/2024" {
		t.Errorf("dates were not round-tripped: %+v", got)
	}
	if got.PDFKey != f.PDFKey || got.Version != 2 {
		t.Errorf("unexpected pdf key or version: %q %d", got.PDFKey, got.Version)
	}
	if len(got.Schedule) != 3 || got.Schedule[0].Location != "BOSK Trailer" || got.Schedule[1].Time != "" {
		t.Errorf("unexpected schedule %+v", got.Schedule)
	}

	got.Status = domain.StatusApproved
	if err := repo.UpdateFormStatus(ctx, got); err != nil {
		t.Fatalf("UpdateFormStatus: %v", err)
	}

	stale := *got
	stale.Version = 1
	stale.Status = domain.StatusConfirmed
	if err := repo.UpdateFormStatus(ctx, &stale); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected a version conflict, got %v", err)
	}

	forms, err := repo.ListForms(ctx, ListFilter{Status: domain.StatusApproved})
	if err != nil {
		t.Fatalf("ListForms: %v", err)
	}
	var found *domain.FormSummary
	for i := range forms {
		if forms[i].ID == f.ID {
			found = &forms[i]
		}
	}
	if found == nil {
		t.Fatalf("approved form not listed")
	}
	if found.TotalHours != 17 {
		t.Errorf("expected 17 hours, got %v", found.TotalHours)
	}

	if err := repo.DeleteForm(ctx, f.ID); err != nil {
		t.Fatalf("DeleteForm: %v", err)
	}
	if _, err := repo.GetFormByID(ctx, f.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows after delete, got %v", err)
	}
}

func TestCreateFormUpsertsDuplicateDays(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	f := testForm("Alice Brown")
	f.Schedule = append(f.Schedule, domain.ScheduleEntry{Day: "03/20/Monday", Time: "9:00 AM - 1:00 PM"})
	if err := repo.CreateForm(ctx, f); err != nil {
		t.Fatalf("CreateForm: %v", err)
	}
	t.Cleanup(func() { repo.DeleteForm(context.Background(), f.ID) })

	got, err := repo.GetFormByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetFormByID: %v", err)
	}
	if len(got.Schedule) != 3 {
		t.Fatalf("expected the duplicate day to be merged, got %+v", got.Schedule)
	}
	if last := got.Schedule[2]; last.Day != "03/20/Monday" || last.Time != "9:00 AM - 1:00 PM" {
		t.Errorf("expected the later entry to win, got %+v", last)
	}
}

func TestListFormsHidesDeleted(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	f := testForm("Deleted Person")
	f.Status = domain.StatusDeleted
	if err := repo.CreateForm(ctx, f); err != nil {
		t.Fatalf("CreateForm: %v", err)
	}
	t.Cleanup(func() { repo.DeleteForm(context.Background(), f.ID) })

	contains := func(forms []domain.FormSummary) bool {
		for _, s := range forms {
			if s.ID == f.ID {
				return true
			}
		}
		return false
	}

	forms, err := repo.ListForms(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListForms: %v", err)
	}
	if contains(forms) {
		t.Errorf("deleted form listed by default")
	}

	forms, err = repo.ListForms(ctx, ListFilter{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("ListForms: %v", err)
	}
	if !contains(forms) {
		t.Errorf("deleted form missing with IncludeDeleted")
	}
}
