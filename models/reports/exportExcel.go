package reports

import (
	"context"
	"fmt"

	"github.com/mmdatafocus/rentals_backend/models"
	"github.com/xuri/excelize/v2"
)

type ExcelExporter interface {
	GetCellValues() []interface{}
}

func buildExcel(data []ExcelExporter, headings ...string) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}

	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	rowNo := 2
	for _, d := range data {
		col := 'A'
		for _, value := range d.GetCellValues() {
			f.SetCellValue(sheetName, string(col)+fmt.Sprint(rowNo), value)
			col++
		}
		rowNo++
	}

	return f, nil
}

// RentRollExcel renders the rent roll as a spreadsheet.
func RentRollExcel(ctx context.Context) (*excelize.File, error) {
	records, err := GetRentRollReport(ctx)
	if err != nil {
		return nil, err
	}

	exporters := make([]ExcelExporter, 0, len(records))
	for _, r := range records {
		exporters = append(exporters, r)
	}

	return buildExcel(exporters,
		"Property", "Unit", "Unit Rent", "Tenant", "Tenant Rent", "Status",
	)
}

type consistencyRow struct {
	finding models.Inconsistency
}

func (r consistencyRow) GetCellValues() []interface{} {
	return []interface{}{
		string(r.finding.Kind),
		string(r.finding.Severity),
		r.finding.TenantName,
		r.finding.UnitNumber,
		r.finding.Detail,
		r.finding.Suggestion,
	}
}

// ConsistencyReportExcel runs a consistency scan and renders the findings
// as a spreadsheet.
func ConsistencyReportExcel(ctx context.Context) (*excelize.File, error) {
	findings, err := models.RunConsistencyScan(ctx)
	if err != nil {
		return nil, err
	}

	exporters := make([]ExcelExporter, 0, len(findings))
	for _, f := range findings {
		exporters = append(exporters, consistencyRow{finding: f})
	}

	return buildExcel(exporters,
		"Kind", "Severity", "Tenant", "Unit", "Detail", "Suggestion",
	)
}
