package repository

import (
	"context"
	"fmt"
	"strings"

	"reportsapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// DBTX is the part of *pgxpool.Pool the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
	Ping(ctx context.Context) error
}

type Repository struct {
	db DBTX
}

func New(db DBTX) *Repository {
	return &Repository{db: db}
}

const reportColumns = `
			id,
			invoice_number,
			payment_method,
			gst::text,
			spl::text,
			name,
			date`

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (r *Repository) CountReports(ctx context.Context, filter ReportFilter) (int, error) {
	where, args := filter.where(1)
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*)::int FROM reports"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return count, nil
}

func (r *Repository) CountByInvoice(ctx context.Context, filter ReportFilter) ([]domain.InvoiceCount, error) {
	where, args := filter.where(1)
	rows, err := r.db.Query(ctx,
		"SELECT invoice_number, COUNT(*)::int FROM reports"+where+
			" GROUP BY invoice_number ORDER BY invoice_number ASC",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("count reports by invoice: %w", err)
	}
	defer rows.Close()

	counts := make([]domain.InvoiceCount, 0)
	for rows.Next() {
		var item domain.InvoiceCount
		if err := rows.Scan(&item.InvoiceNumber, &item.Count.All); err != nil {
			return nil, fmt.Errorf("scan invoice count: %w", err)
		}
		counts = append(counts, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice counts: %w", err)
	}
	return counts, nil
}

// FirstReportsByInvoice returns the lowest-id row of every given invoice number.
// The lookup is by invoice number only; it does not re-apply any report filter.
func (r *Repository) FirstReportsByInvoice(ctx context.Context, invoiceNumbers []int64) (map[int64]domain.Report, error) {
	result := make(map[int64]domain.Report, len(invoiceNumbers))
	if len(invoiceNumbers) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT ON (invoice_number)`+reportColumns+`
		FROM reports
		WHERE invoice_number = ANY($1)
		ORDER BY invoice_number, id ASC
	`, invoiceNumbers)
	if err != nil {
		return nil, fmt.Errorf("first reports by invoice: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result[report.InvoiceNumber] = report
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate first reports: %w", err)
	}
	return result, nil
}

func (r *Repository) ListReports(ctx context.Context, filter ReportFilter, limit, offset int) ([]domain.Report, error) {
	limit = normalizeLimit(limit)
	offset = normalizeOffset(offset)

	where, args := filter.where(1)
	query := "SELECT" + reportColumns + "\n\t\tFROM reports" + where +
		fmt.Sprintf(" ORDER BY id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]domain.Report, 0, limit)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

// InsertReports bulk-loads rows with COPY and returns how many were written.
func (r *Repository) InsertReports(ctx context.Context, rows []domain.ReportImportRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	values := make([][]any, 0, len(rows))
	for index, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			return 0, fmt.Errorf("row %d: name is required", index+1)
		}
		if row.InvoiceNumber <= 0 {
			return 0, fmt.Errorf("row %d: invalid invoice number %d", index+1, row.InvoiceNumber)
		}
		values = append(values, []any{
			row.InvoiceNumber,
			strings.TrimSpace(row.PaymentMethod),
			toNumeric(row.GST),
			toNumeric(row.SPL),
			name,
			row.Date,
		})
	}

	copied, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"reports"},
		[]string{"invoice_number", "payment_method", "gst", "spl", "name", "date"},
		pgx.CopyFromRows(values),
	)
	if err != nil {
		return 0, fmt.Errorf("copy reports: %w", err)
	}
	return int(copied), nil
}

func scanReport(row pgx.Row) (domain.Report, error) {
	var (
		report domain.Report
		gst    string
		spl    string
	)
	if err := row.Scan(
		&report.ID,
		&report.InvoiceNumber,
		&report.PaymentMethod,
		&gst,
		&spl,
		&report.Name,
		&report.Date,
	); err != nil {
		return domain.Report{}, fmt.Errorf("scan report: %w", err)
	}

	var err error
	if report.GST, err = decimal.NewFromString(gst); err != nil {
		return domain.Report{}, fmt.Errorf("parse gst of report %d: %w", report.ID, err)
	}
	if report.SPL, err = decimal.NewFromString(spl); err != nil {
		return domain.Report{}, fmt.Errorf("parse spl of report %d: %w", report.ID, err)
	}
	return report, nil
}

func toNumeric(value decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: value.Coefficient(), Exp: value.Exponent(), Valid: true}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
