package core

import "math"

// PaginatedResult is a single page of an ordered item list. Pages are zero-based.
type PaginatedResult[T any] struct {
	Items       []T
	Offset      int
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int
}

// Slice items into the requested page, clamping the page number into [0, LastPage].
func Paginate[T any](items []T, page int, perPage int) PaginatedResult[T] {
	if perPage < 1 {
		perPage = 1
	}

	result := PaginatedResult[T]{
		PerPage: perPage,
		Total:   len(items),
	}

	result.LastPage = result.getLastPage()
	result.CurrentPage = min(max(page, 0), result.LastPage)
	result.Offset = result.CurrentPage * perPage

	end := min(result.Offset+perPage, result.Total)
	result.Items = items[result.Offset:end]

	return result
}

func (r *PaginatedResult[T]) getLastPage() int {
	if r.Total == 0 {
		return 0
	}

	return int(math.Ceil(float64(r.Total)/float64(r.PerPage))) - 1
}

func (r *PaginatedResult[T]) HasPrev() bool {
	return r.CurrentPage > 0
}

func (r *PaginatedResult[T]) HasNext() bool {
	return (r.CurrentPage+1)*r.PerPage < r.Total
}

func (r *PaginatedResult[T]) IsLastPage() bool {
	return r.CurrentPage == r.LastPage
}
