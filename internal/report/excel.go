// Package report renders finished estimates into downloadable workbooks.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"woodcost/internal/estimate"
)

const (
	summarySheet = "Summary"
	itemsSheet   = "Line Items"
)

// WriteEstimateWorkbook renders an estimate as an xlsx workbook with a summary
// sheet and a per-line-item breakdown sheet.
func WriteEstimateWorkbook(est *estimate.Estimate) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	f.SetCellValue(summarySheet, "A1", "Estimate ID")
	f.SetCellValue(summarySheet, "B1", est.ID)
	f.SetCellValue(summarySheet, "A2", "Project")
	f.SetCellValue(summarySheet, "B2", est.Project.ProjectName)
	f.SetCellValue(summarySheet, "A3", "Client")
	f.SetCellValue(summarySheet, "B3", est.Project.ClientName)
	f.SetCellValue(summarySheet, "A4", "Calculated At")
	f.SetCellValue(summarySheet, "B4", est.CalculatedAt.Format("2006-01-02 15:04"))

	f.SetCellValue(summarySheet, "A6", "Category Totals")
	f.SetCellValue(summarySheet, "A7", "Material")
	f.SetCellValue(summarySheet, "B7", est.Totals.Material)
	f.SetCellValue(summarySheet, "A8", "Edge Banding")
	f.SetCellValue(summarySheet, "B8", est.Totals.Edge)
	f.SetCellValue(summarySheet, "A9", "CNC")
	f.SetCellValue(summarySheet, "B9", est.Totals.CNC)
	f.SetCellValue(summarySheet, "A10", "Fittings")
	f.SetCellValue(summarySheet, "B10", est.Totals.Fitting)
	f.SetCellValue(summarySheet, "A11", "Subtotal")
	f.SetCellValue(summarySheet, "B11", est.Subtotal)

	row := 13
	f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Pricing Waterfall")
	row++
	for _, step := range est.Waterfall.Steps {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), step.Name)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), step.Rate)
		f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), step.Amount)
		f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), step.Running)
		row++
	}
	f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Final Price")
	f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), est.FinalPrice)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", row), style)

	if err := writeLineItems(f, est); err != nil {
		return nil, err
	}

	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func writeLineItems(f *excelize.File, est *estimate.Estimate) error {
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"Component", "Category", "Code", "Description", "Side",
		"Unit", "Unit Price", "Quantity", "Line Cost", "Matched Via", "Warning",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(itemsSheet, cell, header)
	}

	for row, item := range est.LineItems {
		values := []interface{}{
			item.Component, string(item.Category), item.Code, item.Description, item.Side,
			item.Unit, item.UnitPrice, item.Quantity, item.LineCost, item.MatchedVia, item.Warning,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(itemsSheet, cell, value)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(itemsSheet, "A1", lastHeader, style)

	return nil
}
