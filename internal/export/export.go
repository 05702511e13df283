// Package export writes the work log as an Excel workbook.
package export

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	WorkLogSheet    = "Work Log"
	ByEmployeeSheet = "By Employee"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var workLogHeader = []any{
	"Employee", "Requestor", "Request Date", "Week Start", "Week End", "Status", "Total Hours", "PDF", "Submitted At",
}

// WorkLog returns the workbook and a suggested file name. Forms are listed in the given order,
// followed by a totals row; a second sheet sums hours per employee.
func WorkLog(forms []domain.FormSummary, now time.Time) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(WorkLogSheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", err
	}
	hoursStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return nil, "", err
	}

	if err := writeWorkLog(f, forms, headerStyle, hoursStyle); err != nil {
		return nil, "", err
	}
	if err := writeByEmployee(f, forms, headerStyle, hoursStyle); err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf, fmt.Sprintf("work-log_%s.xlsx", now.Format("2006-01-02")), nil
}

func writeWorkLog(f *excelize.File, forms []domain.FormSummary, headerStyle, hoursStyle int) error {
	if err := f.SetSheetRow(WorkLogSheet, "A1", &workLogHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(WorkLogSheet, "A1", "I1", headerStyle); err != nil {
		return err
	}
	if err := f.SetPanes(WorkLogSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}

	widths := map[string]float64{"A": 22, "B": 22, "C": 13, "D": 13, "E": 13, "F": 12, "G": 12, "H": 40, "I": 20}
	for col, w := range widths {
		if err := f.SetColWidth(WorkLogSheet, col, col, w); err != nil {
			return err
		}
	}

	var total float64
	for i, form := range forms {
		row := []any{
			form.EmployeeName,
			form.RequestorName,
			form.RequestDate,
			form.ServiceWeek.Start,
			form.ServiceWeek.End,
			string(form.Status),
			form.TotalHours,
			form.PDFKey,
			form.CreatedAt.UTC().Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(WorkLogSheet, cell("A", i+2), &row); err != nil {
			return err
		}
		total += form.TotalHours
	}

	last := len(forms) + 2
	if err := f.SetCellValue(WorkLogSheet, cell("F", last), "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(WorkLogSheet, cell("G", last), round2(total)); err != nil {
		return err
	}
	return f.SetCellStyle(WorkLogSheet, cell("G", 2), cell("G", last), hoursStyle)
}

func writeByEmployee(f *excelize.File, forms []domain.FormSummary, headerStyle, hoursStyle int) error {
	if _, err := f.NewSheet(ByEmployeeSheet); err != nil {
		return err
	}

	type totals struct {
		forms int
		hours float64
	}
	byEmployee := make(map[string]*totals)
	for _, form := range forms {
		t, ok := byEmployee[form.EmployeeName]
		if !ok {
			t = &totals{}
			byEmployee[form.EmployeeName] = t
		}
		t.forms++
		t.hours += form.TotalHours
	}

	names := make([]string, 0, len(byEmployee))
	for name := range byEmployee {
		names = append(names, name)
	}
	sort.Strings(names)

	header := []any{"Employee", "Forms", "Total Hours"}
	if err := f.SetSheetRow(ByEmployeeSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(ByEmployeeSheet, "A1", "C1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(ByEmployeeSheet, "A", "A", 22); err != nil {
		return err
	}

	for i, name := range names {
		row := []any{name, byEmployee[name].forms, round2(byEmployee[name].hours)}
		if err := f.SetSheetRow(ByEmployeeSheet, cell("A", i+2), &row); err != nil {
			return err
		}
	}
	if len(names) == 0 {
		return nil
	}
	return f.SetCellStyle(ByEmployeeSheet, "C2", cell("C", len(names)+1), hoursStyle)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
