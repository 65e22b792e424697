package services

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// ClampPage defaults page to 1 and clamps size into [1, MaxPageSize],
// with DefaultPageSize for a non-positive size.
func ClampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func offset(page, size int) int {
	return (page - 1) * size
}

func newPagination(page, size, total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + size - 1) / size
	}
	return Pagination{
		CurrentPage: page,
		PageSize:    size,
		TotalPages:  pages,
		TotalItems:  total,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}
