package service

import "fmt"

const (
	DefaultPage      = 1
	DefaultMaxResult = 10
	MaxResultLimit   = 1000
)

type Pagination struct {
	Page      int
	MaxResult int
}

// NewPagination replaces non-positive values with the defaults. MaxResult is kept
// as given; Validate rejects values above MaxResultLimit.
func NewPagination(page, maxResult int) Pagination {
	if page <= 0 {
		page = DefaultPage
	}
	if maxResult <= 0 {
		maxResult = DefaultMaxResult
	}
	return Pagination{Page: page, MaxResult: maxResult}
}

func (p Pagination) Validate() error {
	if p.Page <= 0 || p.MaxResult <= 0 {
		return fmt.Errorf("%w: page and maxResult must be positive", ErrInvalidInput)
	}
	if p.MaxResult > MaxResultLimit {
		return fmt.Errorf("%w: maxResult must be at most %d", ErrInvalidInput, MaxResultLimit)
	}
	return nil
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.MaxResult
}

// TotalPages is ceil(total / maxResult).
func TotalPages(total, maxResult int) int {
	if total <= 0 || maxResult <= 0 {
		return 0
	}
	return (total + maxResult - 1) / maxResult
}

// pageBounds returns the [start, end) window of the page over n items,
// or ok=false when the page starts past the end.
func pageBounds(p Pagination, n int) (start, end int, ok bool) {
	start = p.Offset()
	if start < 0 || start >= n {
		return 0, 0, false
	}
	end = start + p.MaxResult
	if end > n {
		end = n
	}
	return start, end, true
}
