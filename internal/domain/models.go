package domain

import "github.com/shopspring/decimal"

// DateLayout is the text layout of the reports.date column.
const DateLayout = "02-01-2006"

type Report struct {
	ID            int64           `json:"id"`
	InvoiceNumber int64           `json:"invoiceNumber"`
	PaymentMethod string          `json:"paymentMethod"`
	GST           decimal.Decimal `json:"gst"`
	SPL           decimal.Decimal `json:"spl"`
	Name          string          `json:"name"`
	Date          string          `json:"date"`
}

type CountAll struct {
	All int `json:"_all"`
}

// InvoiceCount is one group of rows sharing an invoice number.
type InvoiceCount struct {
	InvoiceNumber int64    `json:"invoiceNumber"`
	Count         CountAll `json:"_count"`
}

// InvoiceSummary is a grouped entry: the invoice, how many matching rows it has,
// and its representative row.
type InvoiceSummary struct {
	InvoiceNumber int64   `json:"invoiceNumber"`
	Count         int     `json:"_count"`
	FirstProduct  *Report `json:"firstProduct"`
}

type ReportImportRow struct {
	InvoiceNumber int64           `json:"invoiceNumber"`
	PaymentMethod string          `json:"paymentMethod"`
	GST           decimal.Decimal `json:"gst"`
	SPL           decimal.Decimal `json:"spl"`
	Name          string          `json:"name"`
	Date          string          `json:"date"`
}
