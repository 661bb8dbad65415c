package model

import "fmt"

// DefaultPageSize is the page size used when the caller does not pick one.
const DefaultPageSize = 10

// PageRequest carries the pagination numbers merged into every filter body.
type PageRequest struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// Page is the paginated response shape returned by the *ByFilter endpoints.
type Page[T any] struct {
	Items           []T  `json:"items"`
	PageNumber      int  `json:"pageNumber"`
	TotalPages      int  `json:"totalPages"`
	TotalCount      int  `json:"totalCount"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// NewPage builds a page with the navigation flags derived from the numbers.
func NewPage[T any](items []T, pageNumber, totalPages, totalCount int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:           items,
		PageNumber:      pageNumber,
		TotalPages:      totalPages,
		TotalCount:      totalCount,
		HasPreviousPage: pageNumber > 1,
		HasNextPage:     pageNumber < totalPages,
	}
}

// Validate reports the first violated page invariant, or nil.
// A non-positive pageSize skips the item count check.
func (p Page[T]) Validate(pageSize int) error {
	if p.HasPreviousPage != (p.PageNumber > 1) {
		return fmt.Errorf("hasPreviousPage=%t inconsistent with pageNumber %d", p.HasPreviousPage, p.PageNumber)
	}
	if p.HasNextPage != (p.PageNumber < p.TotalPages) {
		return fmt.Errorf("hasNextPage=%t inconsistent with pageNumber %d of %d", p.HasNextPage, p.PageNumber, p.TotalPages)
	}
	if pageSize > 0 && len(p.Items) > pageSize {
		return fmt.Errorf("page holds %d items, more than page size %d", len(p.Items), pageSize)
	}
	return nil
}

// LoginRequest is the body of POST /User/Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /User/Login.
type LoginResponse struct {
	Token string `json:"token"`
}

// UploadResult is returned by POST /HeroRecords/UploadCsv.
type UploadResult struct {
	Imported int `json:"imported"`
}
