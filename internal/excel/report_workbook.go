package excel

import (
	"fmt"
	"io"

	"reportsapi/internal/domain"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Reports"

var workbookHeader = []any{"Invoice Number", "Items", "Payment Method", "GST", "SPL", "Product", "Date"}

// WriteReportWorkbook writes one row per invoice summary followed by a total line.
func WriteReportWorkbook(w io.Writer, summaries []domain.InvoiceSummary, totalCount int) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := file.SetSheetRow(reportSheet, "A1", &workbookHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := file.SetCellStyle(reportSheet, "A1", "G1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	rowIndex := 2
	for _, summary := range summaries {
		values := []any{summary.InvoiceNumber, summary.Count}
		if first := summary.FirstProduct; first != nil {
			values = append(values,
				first.PaymentMethod,
				first.GST.InexactFloat64(),
				first.SPL.InexactFloat64(),
				first.Name,
				first.Date,
			)
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIndex)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(reportSheet, cell, &values); err != nil {
			return fmt.Errorf("write invoice %d: %w", summary.InvoiceNumber, err)
		}
		rowIndex++
	}

	totalCell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return err
	}
	if err := file.SetSheetRow(reportSheet, totalCell, &[]any{"Total", totalCount}); err != nil {
		return fmt.Errorf("write total: %w", err)
	}
	totalEnd, err := excelize.CoordinatesToCellName(2, rowIndex)
	if err != nil {
		return err
	}
	if err := file.SetCellStyle(reportSheet, totalCell, totalEnd, bold); err != nil {
		return fmt.Errorf("style total: %w", err)
	}

	if err := file.SetColWidth(reportSheet, "A", "G", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
