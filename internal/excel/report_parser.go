package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"reportsapi/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var headerAliases = map[string]string{
	"invoice number": "invoice_number",
	"invoicenumber":  "invoice_number",
	"invoice no":     "invoice_number",
	"invoice":        "invoice_number",
	"payment method": "payment_method",
	"paymentmethod":  "payment_method",
	"payment":        "payment_method",
	"gst":            "gst",
	"spl":            "spl",
	"name":           "name",
	"product":        "name",
	"product name":   "name",
	"date":           "date",
}

var dateLayouts = []string{domain.DateLayout, "2006-01-02", "02/01/2006"}

// ParseReportRows reads report rows from the first sheet of an xlsx file, or from
// a CSV file when fileName ends in .csv.
func ParseReportRows(fileName string, reader io.Reader) ([]domain.ReportImportRow, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}

	var rows [][]string
	if strings.EqualFold(filepath.Ext(fileName), ".csv") {
		rows, err = parseCSVRows(data)
	} else {
		rows, err = parseExcelRows(data)
	}
	if err != nil {
		return nil, err
	}
	return parseReportTable(rows)
}

func parseReportTable(rows [][]string) ([]domain.ReportImportRow, error) {
	colMap := mapColumns(rows[0])
	for _, required := range []string{"invoice_number", "name", "date"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	result := make([]domain.ReportImportRow, 0, len(rows)-1)
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		name := strings.TrimSpace(readCell(cells, colMap["name"]))
		if name == "" {
			continue
		}

		invoiceNumber, err := parseInt(readCell(cells, colMap["invoice_number"]))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid invoice number: %w", index+1, err)
		}
		if invoiceNumber <= 0 {
			return nil, fmt.Errorf("row %d invalid invoice number: must be positive", index+1)
		}

		date, err := normalizeDate(readCell(cells, colMap["date"]))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid date: %w", index+1, err)
		}

		gst, err := parseOptionalAmount(cells, colMap, "gst")
		if err != nil {
			return nil, fmt.Errorf("row %d invalid gst: %w", index+1, err)
		}
		spl, err := parseOptionalAmount(cells, colMap, "spl")
		if err != nil {
			return nil, fmt.Errorf("row %d invalid spl: %w", index+1, err)
		}

		paymentMethod := ""
		if idx, ok := colMap["payment_method"]; ok {
			paymentMethod = strings.TrimSpace(readCell(cells, idx))
		}

		result = append(result, domain.ReportImportRow{
			InvoiceNumber: invoiceNumber,
			PaymentMethod: paymentMethod,
			GST:           gst,
			SPL:           spl,
			Name:          name,
			Date:          date,
		})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("file has no valid data rows")
	}
	return result, nil
}

func parseCSVRows(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}
	return rows, nil
}

func parseExcelRows(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}
	return rows, nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		normalized := normalizeHeader(col)
		if normalized == "" {
			continue
		}
		canonical, ok := headerAliases[normalized]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	value = strings.Join(strings.Fields(value), " ")
	return value
}

func readCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseInt reads whole numbers, including spreadsheet cells rendered as "100.0".
func parseInt(raw string) (int64, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if value == "" {
		return 0, fmt.Errorf("value is empty")
	}

	if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
		return parsed, nil
	}

	whole, fraction, found := strings.Cut(value, ".")
	if !found || whole == "" {
		return 0, fmt.Errorf("not a number")
	}
	if strings.Trim(fraction, "0123456789") != "" {
		return 0, fmt.Errorf("not a number")
	}
	if strings.Trim(fraction, "0") != "" {
		return 0, fmt.Errorf("must be an integer")
	}
	parsed, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	return parsed, nil
}

func parseOptionalAmount(cells []string, colMap map[string]int, key string) (decimal.Decimal, error) {
	idx, ok := colMap[key]
	if !ok {
		return decimal.Zero, nil
	}
	value := strings.ReplaceAll(strings.TrimSpace(readCell(cells, idx)), ",", "")
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number")
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount cannot be negative")
	}
	return amount, nil
}

// normalizeDate rewrites any accepted date layout into the stored DD-MM-YYYY text.
func normalizeDate(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("value is empty")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(domain.DateLayout), nil
		}
	}
	return "", fmt.Errorf("unsupported date %q", value)
}
