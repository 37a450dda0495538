package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"reportsapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportColumnNames = []string{"id", "invoice_number", "payment_method", "gst", "spl", "name", "date"}

func newMockRepository(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func TestReportFilter_Where(t *testing.T) {
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	end := day.AddDate(0, 0, 7)
	invoice := int64(100)

	tests := []struct {
		name      string
		filter    ReportFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty",
			filter:    ReportFilter{},
			wantWhere: "",
			wantArgs:  []any{},
		},
		{
			name:      "exact date",
			filter:    ReportFilter{Date: &day},
			wantWhere: " WHERE date = $1",
			wantArgs:  []any{"17-10-2026"},
		},
		{
			name:      "date range",
			filter:    ReportFilter{From: &day, To: &end},
			wantWhere: " WHERE report_date(date) >= $1::date AND report_date(date) <= $2::date",
			wantArgs:  []any{"2026-10-17", "2026-10-24"},
		},
		{
			name:      "invoice and name",
			filter:    ReportFilter{InvoiceNumber: &invoice, NameContains: "tea"},
			wantWhere: " WHERE invoice_number = $1 AND strpos(name, $2) > 0",
			wantArgs:  []any{int64(100), "tea"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.where(1)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestRepository_CountReports(t *testing.T) {
	repo, mock := newMockRepository(t)
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\)::int FROM reports WHERE date = \$1`).
		WithArgs("17-10-2026").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountReports(context.Background(), ReportFilter{Date: &day})
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountReports_Error(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\)::int FROM reports`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.CountReports(context.Background(), ReportFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count reports")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountByInvoice(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT invoice_number, COUNT\(\*\)::int FROM reports WHERE strpos\(name, \$1\) > 0 GROUP BY invoice_number ORDER BY invoice_number ASC`).
		WithArgs("tea").
		WillReturnRows(pgxmock.NewRows([]string{"invoice_number", "count"}).
			AddRow(int64(100), 3).
			AddRow(int64(200), 2))

	counts, err := repo.CountByInvoice(context.Background(), ReportFilter{NameContains: "tea"})
	require.NoError(t, err)
	assert.Equal(t, []domain.InvoiceCount{
		{InvoiceNumber: 100, Count: domain.CountAll{All: 3}},
		{InvoiceNumber: 200, Count: domain.CountAll{All: 2}},
	}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FirstReportsByInvoice(t *testing.T) {
	t.Run("no invoices skips the query", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		result, err := repo.FirstReportsByInvoice(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps representative rows by invoice", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(`SELECT DISTINCT ON \(invoice_number\)(.|\n)*WHERE invoice_number = ANY\(\$1\)`).
			WithArgs([]int64{100, 200}).
			WillReturnRows(pgxmock.NewRows(reportColumnNames).
				AddRow(int64(1), int64(100), "cash", "18.00", "2.50", "tea", "17-10-2026").
				AddRow(int64(4), int64(200), "card", "0", "0", "coffee", "17-10-2026"))

		result, err := repo.FirstReportsByInvoice(context.Background(), []int64{100, 200})
		require.NoError(t, err)
		require.Len(t, result, 2)

		first := result[100]
		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, "cash", first.PaymentMethod)
		assert.True(t, first.GST.Equal(decimal.RequireFromString("18")))
		assert.True(t, first.SPL.Equal(decimal.RequireFromString("2.5")))
		assert.Equal(t, "coffee", result[200].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad numeric text", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(`SELECT DISTINCT ON \(invoice_number\)`).
			WithArgs([]int64{100}).
			WillReturnRows(pgxmock.NewRows(reportColumnNames).
				AddRow(int64(1), int64(100), "cash", "n/a", "0", "tea", "17-10-2026"))

		_, err := repo.FirstReportsByInvoice(context.Background(), []int64{100})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse gst")
	})
}

func TestRepository_ListReports(t *testing.T) {
	repo, mock := newMockRepository(t)
	invoice := int64(100)

	mock.ExpectQuery(`FROM reports WHERE invoice_number = \$1 ORDER BY id ASC LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(100), 10, 0).
		WillReturnRows(pgxmock.NewRows(reportColumnNames).
			AddRow(int64(1), int64(100), "cash", "1", "0", "tea", "17-10-2026").
			AddRow(int64(2), int64(100), "cash", "1", "0", "milk", "17-10-2026").
			AddRow(int64(3), int64(100), "cash", "1", "0", "sugar", "17-10-2026"))

	reports, err := repo.ListReports(context.Background(), ReportFilter{InvoiceNumber: &invoice}, 0, -5)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "sugar", reports[2].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertReports(t *testing.T) {
	t.Run("copies rows", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectCopyFrom(
			pgx.Identifier{"reports"},
			[]string{"invoice_number", "payment_method", "gst", "spl", "name", "date"},
		).WillReturnResult(2)

		inserted, err := repo.InsertReports(context.Background(), []domain.ReportImportRow{
			{InvoiceNumber: 100, PaymentMethod: "cash", GST: decimal.NewFromInt(18), Name: "tea", Date: "17-10-2026"},
			{InvoiceNumber: 100, PaymentMethod: "cash", Name: " milk ", Date: "17-10-2026"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects rows without a name", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		_, err := repo.InsertReports(context.Background(), []domain.ReportImportRow{
			{InvoiceNumber: 100, Name: "  ", Date: "17-10-2026"},
		})
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
