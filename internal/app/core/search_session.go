package core

import (
	"errors"
	"sort"
)

var ErrIndexOutOfRange = errors.New("item index is out of range")

// SearchSession keeps search results of a single user together with the
// navigation position and the items marked as filtered out.
// Filtering is presentation only: filtered items stay in Results.
type SearchSession[T any] struct {
	Results     []T
	CurrentPage int
	FilteredOut map[int]struct{}
}

func NewSearchSession[T any](results []T) *SearchSession[T] {
	return &SearchSession[T]{
		Results:     results,
		FilteredOut: make(map[int]struct{}),
	}
}

// Get current page of results.
func (s *SearchSession[T]) Page(perPage int) PaginatedResult[T] {
	return Paginate(s.Results, s.CurrentPage, perPage)
}

// Move to the next page. Returns false when already at the last page.
func (s *SearchSession[T]) NextPage(perPage int) bool {
	page := s.Page(perPage)
	if !page.HasNext() {
		s.CurrentPage = page.CurrentPage
		return false
	}

	s.CurrentPage = page.CurrentPage + 1

	return true
}

// Move to the previous page. Returns false when already at the first page.
func (s *SearchSession[T]) PrevPage(perPage int) bool {
	page := s.Page(perPage)
	if !page.HasPrev() {
		s.CurrentPage = 0
		return false
	}

	s.CurrentPage = page.CurrentPage - 1

	return true
}

// Toggle filter mark of the item by its one-based position.
// Returns true when the item became filtered out.
func (s *SearchSession[T]) ToggleFilter(position int) (bool, error) {
	index := position - 1
	if index < 0 || index >= len(s.Results) {
		return false, ErrIndexOutOfRange
	}

	if s.FilteredOut == nil {
		s.FilteredOut = make(map[int]struct{})
	}

	if _, ok := s.FilteredOut[index]; ok {
		delete(s.FilteredOut, index)
		return false, nil
	}

	s.FilteredOut[index] = struct{}{}

	return true, nil
}

// Check if the item with zero-based index is filtered out.
func (s *SearchSession[T]) IsFiltered(index int) bool {
	_, ok := s.FilteredOut[index]

	return ok
}

// Get sorted zero-based indices of filtered out items.
func (s *SearchSession[T]) FilteredIndices() []int {
	indices := make([]int, 0, len(s.FilteredOut))
	for index := range s.FilteredOut {
		indices = append(indices, index)
	}

	sort.Ints(indices)

	return indices
}
