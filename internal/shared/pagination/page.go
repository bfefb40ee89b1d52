package pagination

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params is a normalised page request.
type Params struct {
	Page     int
	PageSize int
}

// Normalize replaces non-positive values with defaults and caps the page size.
func Normalize(page, pageSize int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Params{Page: page, PageSize: pageSize}
}

func (p Params) Limit() int {
	return p.PageSize
}

func (p Params) Offset() int64 {
	return int64(p.Page-1) * int64(p.PageSize)
}

// Page is one slice of an ordered result set. A page past the end carries no
// items but still reports the totals.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

func New[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}

	return Page[T]{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
		HasPrev:    p.Page > 1,
		HasNext:    p.Page < totalPages,
	}
}

// Map converts the items of a page, keeping its counters.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return Page[U]{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
	}
}
