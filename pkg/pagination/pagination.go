package pagination

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/taxon/pkg/query"
)

// SortFields wraps []query.SortField with flexible JSON unmarshaling.
// Accepts either a string ("name,-created_at") or an array of SortField objects.
type SortFields []query.SortField

// UnmarshalJSON supports unmarshaling from a comma-separated string or array format.
func (s *SortFields) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = query.ParseSortFields(str)
		return nil
	}

	var fields []query.SortField
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = fields
	return nil
}

// PageRequest represents a client request for a page of data with optional search and sorting.
// Skip, when positive, replaces the page-derived offset.
type PageRequest struct {
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Skip     int        `json:"offset,omitempty"`
	Search   *string    `json:"search,omitempty"`
	Sort     SortFields `json:"sort,omitempty"`
}

// Normalize adjusts the request to ensure valid pagination values based on the config.
func (r *PageRequest) Normalize(cfg Config) {
	r.PageSize = cfg.Clamp(r.PageSize)
	if r.Skip < 0 {
		r.Skip = 0
	}
	if r.Skip > 0 {
		r.Page = r.Skip/r.PageSize + 1
	}
	if r.Page < 1 {
		r.Page = 1
	}
}

// Offset calculates the number of records to skip.
func (r *PageRequest) Offset() int {
	if r.Skip > 0 {
		return r.Skip
	}
	return (r.Page - 1) * r.PageSize
}

// PageRequestFromQuery parses pagination parameters from URL query values.
// Supported parameters: page, page_size (or limit), offset, search, sort,
// and sort_by with order (asc|desc) when sort is absent.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	page, _ := strconv.Atoi(values.Get("page"))

	pageSize, _ := strconv.Atoi(values.Get("page_size"))
	if pageSize == 0 {
		pageSize, _ = strconv.Atoi(values.Get("limit"))
	}

	skip, _ := strconv.Atoi(values.Get("offset"))

	var search *string
	if s := strings.TrimSpace(values.Get("search")); s != "" {
		search = &s
	}

	sort := query.ParseSortFields(values.Get("sort"))
	if len(sort) == 0 {
		if field := strings.TrimSpace(values.Get("sort_by")); field != "" {
			sort = []query.SortField{{
				Field:      field,
				Descending: strings.EqualFold(values.Get("order"), "desc"),
			}}
		}
	}

	req := PageRequest{
		Page:     page,
		PageSize: pageSize,
		Skip:     skip,
		Search:   search,
		Sort:     sort,
	}

	req.Normalize(cfg)
	return req
}

// PageResult holds a page of data along with pagination metadata.
type PageResult[T any] struct {
	Data        []T  `json:"data"`
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPageResult creates a PageResult with calculated total pages.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	totalPages := 1
	if pageSize > 0 {
		totalPages = total / pageSize
		if total%pageSize != 0 {
			totalPages++
		}
	}
	if totalPages < 1 {
		totalPages = 1
	}

	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:        data,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// ResultFor builds the PageResult for req. Neighbour flags follow the actual
// row offset, so an offset that is not a multiple of the page size still
// reports the rows before and after it.
func ResultFor[T any](data []T, total int, req PageRequest) PageResult[T] {
	result := NewPageResult(data, total, req.Page, req.PageSize)
	offset := req.Offset()
	result.HasPrevious = offset > 0
	result.HasNext = offset+req.PageSize < total
	return result
}
