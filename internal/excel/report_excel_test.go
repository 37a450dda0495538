package excel

import (
	"bytes"
	"strings"
	"testing"

	"reportsapi/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteReportWorkbook(t *testing.T) {
	summaries := []domain.InvoiceSummary{
		{
			InvoiceNumber: 100,
			Count:         3,
			FirstProduct: &domain.Report{
				ID: 1, InvoiceNumber: 100, PaymentMethod: "cash",
				GST: decimal.RequireFromString("18.5"), SPL: decimal.Zero,
				Name: "tea", Date: "17-10-2026",
			},
		},
		{InvoiceNumber: 200, Count: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReportWorkbook(&buf, summaries, 5))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Invoice Number", rows[0][0])
	assert.Equal(t, []string{"100", "3", "cash", "18.5", "0", "tea", "17-10-2026"}, rows[1])
	assert.Equal(t, []string{"200", "2"}, rows[2])
	assert.Equal(t, []string{"Total", "5"}, rows[3])
}

func TestParseReportRows_CSV(t *testing.T) {
	data := "Invoice Number,Payment Method,GST,SPL,Product Name,Date\n" +
		"100,cash,18.00,2.5,tea,17-10-2026\n" +
		"100,cash,,,milk,2026-10-17\n" +
		",,,,,\n"

	rows, err := ParseReportRows("reports.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(100), rows[0].InvoiceNumber)
	assert.Equal(t, "cash", rows[0].PaymentMethod)
	assert.True(t, rows[0].GST.Equal(decimal.RequireFromString("18")))
	assert.True(t, rows[0].SPL.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "milk", rows[1].Name)
	assert.Equal(t, "17-10-2026", rows[1].Date)
	assert.True(t, rows[1].GST.IsZero())
}

func TestParseReportRows_Excel(t *testing.T) {
	file := excelize.NewFile()
	require.NoError(t, file.SetSheetRow("Sheet1", "A1", &[]any{"invoiceNumber", "name", "date", "gst"}))
	require.NoError(t, file.SetSheetRow("Sheet1", "A2", &[]any{"200", "coffee", "16-10-2026", "4"}))
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	require.NoError(t, file.Close())

	rows, err := ParseReportRows("reports.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(200), rows[0].InvoiceNumber)
	assert.Equal(t, "coffee", rows[0].Name)
	assert.Equal(t, "", rows[0].PaymentMethod)
}

func TestParseReportRows_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "empty", data: "", wantErr: "input file is empty"},
		{name: "missing column", data: "name,date\ntea,17-10-2026\n", wantErr: "missing required column: invoice_number"},
		{name: "bad invoice", data: "invoice,name,date\nabc,tea,17-10-2026\n", wantErr: "row 2 invalid invoice number"},
		{name: "fractional invoice", data: "invoice,name,date\n1.5,tea,17-10-2026\n", wantErr: "must be an integer"},
		{name: "exponent invoice", data: "invoice,name,date\n1e3,tea,17-10-2026\n", wantErr: "not a number"},
		{name: "bad date", data: "invoice,name,date\n1,tea,yesterday\n", wantErr: "row 2 invalid date"},
		{name: "negative gst", data: "invoice,name,date,gst\n1,tea,17-10-2026,-1\n", wantErr: "amount cannot be negative"},
		{name: "no rows", data: "invoice,name,date\n", wantErr: "no valid data rows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReportRows("input.csv", strings.NewReader(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr string
	}{
		{raw: "100", want: 100},
		{raw: " 1,000 ", want: 1000},
		{raw: "100.0", want: 100},
		{raw: "9007199254740993", want: 9007199254740993},
		{raw: "9007199254740993.00", want: 9007199254740993},
		{raw: "1e3", wantErr: "not a number"},
		{raw: "12.5", wantErr: "must be an integer"},
		{raw: "1.x", wantErr: "not a number"},
		{raw: "", wantErr: "value is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseInt(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
