package common

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageParams carries the caller's pagination request. Out-of-range values are
// clamped rather than rejected.
type PageParams struct {
	Page     int
	PageSize int
}

// Normalize clamps page and pageSize into their valid ranges.
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		p.PageSize = defaultPageSize
	}
	return p
}

func (p PageParams) Limit() int {
	return p.PageSize
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of results plus the total row count for the query.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
}

func NewPage[T any](items []T, total int, params PageParams) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
	}
}
