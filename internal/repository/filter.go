package repository

import (
	"fmt"
	"strings"
	"time"

	"reportsapi/internal/domain"
)

const isoDate = "2006-01-02"

// ReportFilter is the predicate applied to the reports table before aggregation.
// Set fields are combined with AND; the zero value matches every row.
type ReportFilter struct {
	Date          *time.Time
	From          *time.Time
	To            *time.Time
	InvoiceNumber *int64
	NameContains  string
}

func (f ReportFilter) where(startIndex int) (string, []any) {
	conditions := make([]string, 0, 4)
	args := make([]any, 0, 4)
	index := startIndex

	if f.Date != nil {
		conditions = append(conditions, fmt.Sprintf("date = $%d", index))
		args = append(args, f.Date.Format(domain.DateLayout))
		index++
	}
	if f.From != nil {
		conditions = append(conditions, fmt.Sprintf("report_date(date) >= $%d::date", index))
		args = append(args, f.From.Format(isoDate))
		index++
	}
	if f.To != nil {
		conditions = append(conditions, fmt.Sprintf("report_date(date) <= $%d::date", index))
		args = append(args, f.To.Format(isoDate))
		index++
	}
	if f.InvoiceNumber != nil {
		conditions = append(conditions, fmt.Sprintf("invoice_number = $%d", index))
		args = append(args, *f.InvoiceNumber)
		index++
	}
	if f.NameContains != "" {
		conditions = append(conditions, fmt.Sprintf("strpos(name, $%d) > 0", index))
		args = append(args, f.NameContains)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
