package export

import (
	"testing"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

func TestWorkLog(t *testing.T) {
	created := time.Date(2024, 3, 20, 15, 4, 0, 0, time.UTC)
	forms := []domain.FormSummary{
		{
			ID:            "a",
			EmployeeName:  "John Doe",
			RequestorName: "Jane Smith",
			RequestDate:   "03/20/2024",
			ServiceWeek:   domain.ServiceWeek{Start: "03/20/2024", End: "03/24/2024"},
			Status:        domain.StatusPending,
			PDFKey:        "work-hours-forms/John_Doe_a.pdf",
			CreatedAt:     created,
			TotalHours:    9,
		},
		{
			ID:            "b",
			EmployeeName:  "Alice Brown",
			RequestorName: "Jane Smith",
			RequestDate:   "03/27/2024",
			ServiceWeek:   domain.ServiceWeek{Start: "03/27/2024", End: "03/31/2024"},
			Status:        domain.StatusApproved,
			CreatedAt:     created,
			TotalHours:    7.5,
		},
		{
			ID:           "c",
			EmployeeName: "John Doe",
			Status:       domain.StatusConfirmed,
			CreatedAt:    created,
			TotalHours:   1.33,
		},
	}

	buf, name, err := WorkLog(forms, created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "work-log_2024-03-20.xlsx" {
		t.Errorf("unexpected file name %q", name)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[0] != WorkLogSheet || sheets[1] != ByEmployeeSheet {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	rows, err := f.GetRows(WorkLogSheet)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header, 3 forms and a total, got %d rows", len(rows))
	}
	if rows[0][0] != "Employee" || rows[0][8] != "Submitted At" {
		t.Errorf("unexpected header %v", rows[0])
	}
	want := []string{"John Doe", "Jane Smith", "03/20/2024", "03/20/2024", "03/24/2024", "pending", "9.00", "work-hours-forms/John_Doe_a.pdf", "2024-03-20 15:04"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Errorf("column %d: got %q, want %q", i, rows[1][i], v)
		}
	}
	if rows[4][5] != "Total" || rows[4][6] != "17.83" {
		t.Errorf("unexpected total row %v", rows[4])
	}

	rows, err = f.GetRows(ByEmployeeSheet)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected two employees, got %v", rows)
	}
	if rows[1][0] != "Alice Brown" || rows[2][0] != "John Doe" || rows[2][1] != "2" || rows[2][2] != "10.33" {
		t.Errorf("unexpected employee totals %v", rows)
	}
}

func TestWorkLogEmpty(t *testing.T) {
	buf, _, err := WorkLog(nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows(WorkLogSheet)
	if len(rows) != 2 || rows[1][5] != "Total" || rows[1][6] != "0.00" {
		t.Fatalf("unexpected rows %v", rows)
	}
}
