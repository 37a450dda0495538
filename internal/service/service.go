package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reportsapi/internal/domain"
	"reportsapi/internal/repository"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoReports        = errors.New("no reports available for the given criteria")
	ErrNoInvoiceReports = errors.New("no reports available for the given invoice number")
	ErrNoNamedReports   = errors.New("no products found for the provided name")
	ErrPageNotFound     = errors.New("page not found")
)

type ReportStore interface {
	CountReports(ctx context.Context, filter repository.ReportFilter) (int, error)
	CountByInvoice(ctx context.Context, filter repository.ReportFilter) ([]domain.InvoiceCount, error)
	FirstReportsByInvoice(ctx context.Context, invoiceNumbers []int64) (map[int64]domain.Report, error)
	ListReports(ctx context.Context, filter repository.ReportFilter, limit, offset int) ([]domain.Report, error)
	Ping(ctx context.Context) error
}

// GroupedReports is one page of per-invoice summaries. TotalPages and CurrentPage
// are zero when the query was not paginated.
type GroupedReports struct {
	Summaries   []domain.InvoiceSummary
	TotalCount  int
	TotalPages  int
	CurrentPage int
	Counts      []domain.InvoiceCount
}

type ReportPage struct {
	Reports     []domain.Report
	TotalCount  int
	TotalPages  int
	CurrentPage int
}

type Service struct {
	store ReportStore
	now   func() time.Time
}

func New(store ReportStore) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock replaces the clock used to resolve "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Aggregate counts the rows matching filter, groups them by invoice number and
// attaches a representative row to every group on the requested page.
// A nil page returns every group.
func (s *Service) Aggregate(ctx context.Context, filter repository.ReportFilter, page *Pagination) (GroupedReports, error) {
	if page != nil {
		if err := page.Validate(); err != nil {
			return GroupedReports{}, err
		}
	}

	total, err := s.store.CountReports(ctx, filter)
	if err != nil {
		return GroupedReports{}, err
	}
	if total == 0 {
		return GroupedReports{}, ErrNoReports
	}

	counts, err := s.store.CountByInvoice(ctx, filter)
	if err != nil {
		return GroupedReports{}, err
	}
	if len(counts) == 0 {
		return GroupedReports{}, ErrNoReports
	}

	result := GroupedReports{TotalCount: total, Counts: counts}
	groups := counts
	if page != nil {
		result.CurrentPage = page.Page
		result.TotalPages = TotalPages(total, page.MaxResult)
		if page.Page > result.TotalPages {
			return GroupedReports{}, ErrPageNotFound
		}
		start, end, ok := pageBounds(*page, len(counts))
		if !ok {
			return GroupedReports{}, ErrPageNotFound
		}
		groups = counts[start:end]
	}

	invoiceNumbers := make([]int64, 0, len(groups))
	for _, group := range groups {
		invoiceNumbers = append(invoiceNumbers, group.InvoiceNumber)
	}
	firstRows, err := s.store.FirstReportsByInvoice(ctx, invoiceNumbers)
	if err != nil {
		return GroupedReports{}, err
	}

	result.Summaries = make([]domain.InvoiceSummary, 0, len(groups))
	for _, group := range groups {
		summary := domain.InvoiceSummary{InvoiceNumber: group.InvoiceNumber, Count: group.Count.All}
		if row, ok := firstRows[group.InvoiceNumber]; ok {
			summary.FirstProduct = &row
		}
		result.Summaries = append(result.Summaries, summary)
	}
	return result, nil
}

// TodayReports groups the rows dated today (UTC).
func (s *Service) TodayReports(ctx context.Context, page Pagination) (GroupedReports, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.Aggregate(ctx, repository.ReportFilter{Date: &today}, &page)
}

func (s *Service) ReportsBetween(ctx context.Context, start, end time.Time, page Pagination) (GroupedReports, error) {
	if err := ValidateRange(start, end); err != nil {
		return GroupedReports{}, err
	}
	return s.Aggregate(ctx, repository.ReportFilter{From: &start, To: &end}, &page)
}

// RangeExport is ReportsBetween without pagination.
func (s *Service) RangeExport(ctx context.Context, start, end time.Time) (GroupedReports, error) {
	if err := ValidateRange(start, end); err != nil {
		return GroupedReports{}, err
	}
	return s.Aggregate(ctx, repository.ReportFilter{From: &start, To: &end}, nil)
}

func (s *Service) ReportsByName(ctx context.Context, name string, page Pagination) (GroupedReports, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GroupedReports{}, fmt.Errorf("%w: name parameter is required", ErrInvalidInput)
	}
	result, err := s.Aggregate(ctx, repository.ReportFilter{NameContains: name}, &page)
	if errors.Is(err, ErrNoReports) {
		return GroupedReports{}, ErrNoNamedReports
	}
	return result, err
}

// InvoiceProducts pages through the rows of a single invoice. Grouping is
// skipped since every row belongs to the same invoice.
func (s *Service) InvoiceProducts(ctx context.Context, invoiceNumber int64, page Pagination) (ReportPage, error) {
	if err := page.Validate(); err != nil {
		return ReportPage{}, err
	}
	filter := repository.ReportFilter{InvoiceNumber: &invoiceNumber}

	total, err := s.store.CountReports(ctx, filter)
	if err != nil {
		return ReportPage{}, err
	}
	if total == 0 {
		return ReportPage{}, ErrNoInvoiceReports
	}

	totalPages := TotalPages(total, page.MaxResult)
	if page.Page > totalPages {
		return ReportPage{}, ErrPageNotFound
	}

	reports, err := s.store.ListReports(ctx, filter, page.MaxResult, page.Offset())
	if err != nil {
		return ReportPage{}, err
	}
	if len(reports) == 0 {
		return ReportPage{}, ErrPageNotFound
	}

	return ReportPage{
		Reports:     reports,
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: page.Page,
	}, nil
}

func ValidateRange(start, end time.Time) error {
	if start.After(end) {
		return fmt.Errorf("%w: startDate must not be after endDate", ErrInvalidInput)
	}
	return nil
}
