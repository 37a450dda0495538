package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"reportsapi/internal/domain"
	"reportsapi/internal/excel"
	"reportsapi/internal/service"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ReportService interface {
	TodayReports(ctx context.Context, page service.Pagination) (service.GroupedReports, error)
	ReportsBetween(ctx context.Context, start, end time.Time, page service.Pagination) (service.GroupedReports, error)
	RangeExport(ctx context.Context, start, end time.Time) (service.GroupedReports, error)
	ReportsByName(ctx context.Context, name string, page service.Pagination) (service.GroupedReports, error)
	InvoiceProducts(ctx context.Context, invoiceNumber int64, page service.Pagination) (service.ReportPage, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	svc      ReportService
	log      *zap.Logger
	metrics  *Metrics
	validate *validator.Validate
}

type groupedReportsResponse struct {
	Success               []domain.InvoiceSummary `json:"success"`
	TotalReportsCount     int                     `json:"totalReportsCount"`
	TotalPages            int                     `json:"totalPages"`
	CurrentPage           int                     `json:"currentPage"`
	CountByInvoiceNumbers []domain.InvoiceCount   `json:"countByInvoiceNumbers"`
}

type nameReportsResponse struct {
	Success        []domain.InvoiceSummary `json:"success"`
	TotalProducts  int                     `json:"totalProducts"`
	TotalPages     int                     `json:"totalPages"`
	CurrentPage    int                     `json:"currentPage"`
	CountByInvoice []domain.InvoiceCount   `json:"countByInvoice"`
}

type invoiceProductsResponse struct {
	Success           []domain.Report `json:"success"`
	TotalReportsCount int             `json:"totalReportsCount"`
	TotalPages        int             `json:"totalPages"`
	CurrentPage       int             `json:"currentPage"`
}

type rangeExportResponse struct {
	Success               []domain.InvoiceSummary `json:"success"`
	TotalReportsCount     int                     `json:"totalReportsCount"`
	CountByInvoiceNumbers []domain.InvoiceCount   `json:"countByInvoiceNumbers"`
}

type notFoundBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewHandler(svc ReportService, log *zap.Logger, metrics *Metrics) *Handler {
	return &Handler{
		svc:      svc,
		log:      log,
		metrics:  metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "Hello World"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) TodayReports(w http.ResponseWriter, r *http.Request) {
	page, err := pagination(r.URL.Query(), "page")
	if err != nil {
		h.metrics.observeQuery("today", outcomeInvalid)
		writeError(w, http.StatusBadRequest, msgMaxResultLimit)
		return
	}

	result, err := h.svc.TodayReports(r.Context(), page)
	if err != nil {
		h.writeServiceError(w, r, "today", err)
		return
	}
	h.metrics.observeQuery("today", outcomeOK)
	writeJSON(w, http.StatusOK, newGroupedResponse(result))
}

func (h *Handler) ReportsBetween(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, end, message, err := bindDateRange(h.validate, query)
	if err != nil {
		h.metrics.observeQuery("range", outcomeInvalid)
		writeError(w, http.StatusBadRequest, message)
		return
	}

	page, err := pagination(query, "page")
	if err != nil {
		h.metrics.observeQuery("range", outcomeInvalid)
		writeError(w, http.StatusBadRequest, msgMaxResultLimit)
		return
	}

	result, err := h.svc.ReportsBetween(r.Context(), start, end, page)
	if err != nil {
		h.writeServiceError(w, r, "range", err)
		return
	}
	h.metrics.observeQuery("range", outcomeOK)
	writeJSON(w, http.StatusOK, newGroupedResponse(result))
}

func (h *Handler) InvoiceProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	invoiceNumber, err := bindInvoiceNumber(h.validate, query)
	if err != nil {
		h.metrics.observeQuery("invoice", outcomeInvalid)
		writeError(w, http.StatusBadRequest, msgInvoiceInvalid)
		return
	}

	page, err := pagination(query, "page")
	if err != nil {
		h.metrics.observeQuery("invoice", outcomeInvalid)
		writeError(w, http.StatusBadRequest, msgMaxResultLimit)
		return
	}

	result, err := h.svc.InvoiceProducts(r.Context(), invoiceNumber, page)
	if err != nil {
		h.writeServiceError(w, r, "invoice", err)
		return
	}
	h.metrics.observeQuery("invoice", outcomeOK)
	writeJSON(w, http.StatusOK, invoiceProductsResponse{
		Success:           result.Reports,
		TotalReportsCount: result.TotalCount,
		TotalPages:        result.TotalPages,
		CurrentPage:       result.CurrentPage,
	})
}

func (h *Handler) ReportsByName(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name, err := bindName(h.validate, query)
	if err != nil {
		h.metrics.observeQuery("name", outcomeInvalid)
		writeError(w, http.StatusBadRequest, msgNameRequired)
		return
	}

	page, err := pagination(query, "currentPage")
	if err != nil {
		h.metrics.observeQuery("name", outcomeInvalid)
		writeError(w, http.StatusBadRequest, msgMaxResultLimit)
		return
	}

	result, err := h.svc.ReportsByName(r.Context(), name, page)
	if err != nil {
		h.writeServiceError(w, r, "name", err)
		return
	}
	h.metrics.observeQuery("name", outcomeOK)
	writeJSON(w, http.StatusOK, nameReportsResponse{
		Success:        result.Summaries,
		TotalProducts:  result.TotalCount,
		TotalPages:     result.TotalPages,
		CurrentPage:    result.CurrentPage,
		CountByInvoice: result.Counts,
	})
}

func (h *Handler) RangeExport(w http.ResponseWriter, r *http.Request) {
	start, end, message, err := bindDateRange(h.validate, r.URL.Query())
	if err != nil {
		h.metrics.observeQuery("export", outcomeInvalid)
		writeError(w, http.StatusBadRequest, message)
		return
	}

	result, err := h.svc.RangeExport(r.Context(), start, end)
	if err != nil {
		h.writeServiceError(w, r, "export", err)
		return
	}
	h.metrics.observeQuery("export", outcomeOK)
	writeJSON(w, http.StatusOK, rangeExportResponse{
		Success:               result.Summaries,
		TotalReportsCount:     result.TotalCount,
		CountByInvoiceNumbers: result.Counts,
	})
}

func (h *Handler) RangeWorkbook(w http.ResponseWriter, r *http.Request) {
	start, end, message, err := bindDateRange(h.validate, r.URL.Query())
	if err != nil {
		h.metrics.observeQuery("workbook", outcomeInvalid)
		writeError(w, http.StatusBadRequest, message)
		return
	}

	result, err := h.svc.RangeExport(r.Context(), start, end)
	if err != nil {
		h.writeServiceError(w, r, "workbook", err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteReportWorkbook(&buf, result.Summaries, result.TotalCount); err != nil {
		h.writeServiceError(w, r, "workbook", err)
		return
	}
	h.metrics.observeQuery("workbook", outcomeOK)

	fileName := fmt.Sprintf("reports_%s_%s.xlsx", start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.metrics.observeQuery(kind, outcomeInvalid)
		message := strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")
		writeError(w, http.StatusBadRequest, message)
	case errors.Is(err, service.ErrNoReports):
		h.metrics.observeQuery(kind, outcomeNotFound)
		writeNotFound(w, msgNoReports)
	case errors.Is(err, service.ErrNoInvoiceReports):
		h.metrics.observeQuery(kind, outcomeNotFound)
		writeNotFound(w, msgNoInvoiceReport)
	case errors.Is(err, service.ErrNoNamedReports):
		h.metrics.observeQuery(kind, outcomeNotFound)
		writeNotFound(w, msgNoNamedReports)
	case errors.Is(err, service.ErrPageNotFound):
		h.metrics.observeQuery(kind, outcomeNotFound)
		writeNotFound(w, msgPageNotFound)
	default:
		h.metrics.observeQuery(kind, outcomeError)
		h.log.Error("report query failed",
			zap.String("query", kind),
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func newGroupedResponse(result service.GroupedReports) groupedReportsResponse {
	return groupedReportsResponse{
		Success:               result.Summaries,
		TotalReportsCount:     result.TotalCount,
		TotalPages:            result.TotalPages,
		CurrentPage:           result.CurrentPage,
		CountByInvoiceNumbers: result.Counts,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func writeNotFound(w http.ResponseWriter, message string) {
	var body notFoundBody
	body.Error.Message = message
	writeJSON(w, http.StatusNotFound, body)
}
