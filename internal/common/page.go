package common

// Pagination describes where a page sits in its result set.
//
// TotalItems and TotalPages are exact when IsEstimate is false. Cursor-paged
// listings cannot count without a full scan, so before the last page is
// reached they report a lower bound that grows as the caller pages forward.
type Pagination struct {
	CurrentPage     int  `json:"current_page"`
	TotalPages      int  `json:"total_pages"`
	TotalItems      int  `json:"total_items"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
	IsEstimate      bool `json:"is_estimate"`
}

type PageResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// EmptyPage is the result returned when there is nothing to show.
func EmptyPage[T any]() PageResult[T] {
	return PageResult[T]{
		Data:       []T{},
		Pagination: Pagination{CurrentPage: 1},
	}
}

// TotalPages is the number of pages of size pageSize needed for totalItems.
func TotalPages(totalItems, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// SlicePage returns page number page (1-based) of items with exact pagination.
func SlicePage[T any](items []T, page, pageSize int) PageResult[T] {
	total := len(items)
	totalPages := TotalPages(total, pageSize)

	start, end := total, total
	if page >= 1 && page <= totalPages {
		start = (page - 1) * pageSize
		end = min(start+pageSize, total)
	}

	data := make([]T, end-start)
	copy(data, items[start:end])

	return PageResult[T]{
		Data: data,
		Pagination: Pagination{
			CurrentPage:     page,
			TotalPages:      totalPages,
			TotalItems:      total,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}
}
