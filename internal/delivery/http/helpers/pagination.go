package helpers

import (
	"net/http"
	"strconv"

	"riconnect/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePageRequest reads page and page_size from the query. Missing or invalid
// values use the defaults; page_size is capped at MaxPageSize.
func ParsePageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	p := domain.PageRequest{
		Page: positiveInt(q.Get("page"), DefaultPage),
		Size: positiveInt(q.Get("page_size"), DefaultPageSize),
	}
	p.Size = min(p.Size, MaxPageSize)
	return p
}

func positiveInt(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// PageMeta describes the page returned in a list response.
// swagger:model PageMeta
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate cuts the requested page out of items. The page is never nil.
func Paginate[T any](items []T, p domain.PageRequest) ([]T, PageMeta) {
	meta := PageMeta{Page: p.Page, PageSize: p.Size, Total: len(items)}
	if p.Size > 0 {
		meta.TotalPages = (len(items) + p.Size - 1) / p.Size
	}
	start, end := p.Window(len(items))
	page := make([]T, end-start)
	copy(page, items[start:end])
	return page, meta
}
