package http

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reportsapi/internal/domain"
	"reportsapi/internal/service"

	"github.com/go-playground/validator/v10"
)

const (
	msgDatesRequired   = "startDate and endDate parameters are required."
	msgDatesInvalid    = "startDate and endDate must be DD-MM-YYYY or YYYY-MM-DD dates."
	msgInvoiceInvalid  = "Invalid invoiceNumber. Please provide a valid invoiceNumber."
	msgNameRequired    = "name parameter is required."
	msgMaxResultLimit  = "maxResult must be at most 1000."
	msgNoReports       = "No reports available for the given criteria."
	msgNoInvoiceReport = "No reports available for the given invoice number."
	msgNoNamedReports  = "No products found for the provided name."
	msgPageNotFound    = "Page not found."
	msgInternal        = "Internal server error."
)

var queryDateLayouts = []string{domain.DateLayout, "2006-01-02"}

type dateRangeQuery struct {
	StartDate string `validate:"required"`
	EndDate   string `validate:"required"`
}

type invoiceQuery struct {
	InvoiceNumber string `validate:"required,number,max=18"`
}

type nameQuery struct {
	Name string `validate:"required"`
}

var errQuery = errors.New("invalid query")

func bindDateRange(v *validator.Validate, query url.Values) (time.Time, time.Time, string, error) {
	q := dateRangeQuery{
		StartDate: strings.TrimSpace(query.Get("startDate")),
		EndDate:   strings.TrimSpace(query.Get("endDate")),
	}
	if err := v.Struct(q); err != nil {
		return time.Time{}, time.Time{}, msgDatesRequired, errQuery
	}
	start, err := parseQueryDate(q.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, msgDatesInvalid, errQuery
	}
	end, err := parseQueryDate(q.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, msgDatesInvalid, errQuery
	}
	return start, end, "", nil
}

func bindInvoiceNumber(v *validator.Validate, query url.Values) (int64, error) {
	q := invoiceQuery{InvoiceNumber: strings.TrimSpace(query.Get("invoiceNumber"))}
	if err := v.Struct(q); err != nil {
		return 0, errQuery
	}
	number, err := strconv.ParseInt(q.InvoiceNumber, 10, 64)
	if err != nil {
		return 0, errQuery
	}
	return number, nil
}

func bindName(v *validator.Validate, query url.Values) (string, error) {
	q := nameQuery{Name: strings.TrimSpace(query.Get("name"))}
	if err := v.Struct(q); err != nil {
		return "", errQuery
	}
	return q.Name, nil
}

// pagination reads the page and page-size parameters. Missing or malformed
// values fall back to the defaults; a page size above the limit is rejected.
func pagination(query url.Values, pageKey string) (service.Pagination, error) {
	page := service.NewPagination(lenientInt(query.Get(pageKey)), lenientInt(query.Get("maxResult")))
	if err := page.Validate(); err != nil {
		return service.Pagination{}, errQuery
	}
	return page, nil
}

func lenientInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

func parseQueryDate(raw string) (time.Time, error) {
	for _, layout := range queryDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errQuery
}
