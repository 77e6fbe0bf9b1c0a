package core_test

import (
	"searchbot/internal/app/core"
	"testing"
)

func TestPaginatedResult(t *testing.T) {
	items := make([]int, 800)

	var result core.PaginatedResult[int]

	result = core.Paginate(items, 0, 10)
	if result.PerPage != 10 {
		t.Errorf("Invalid per page, got: %d, instead of: %d.", result.PerPage, 10)
	}

	if result.Total != 800 {
		t.Errorf("Invalid total, got: %d, instead of: %d.", result.Total, 800)
	}

	if result.LastPage != 79 {
		t.Errorf("Invalid last page, got: %d, instead of: %d.", result.LastPage, 79)
	}

	result = core.Paginate(items, 79, 10)
	if !result.IsLastPage() {
		t.Errorf("Not last page")
	}
}

func TestPaginateBounds(t *testing.T) {
	for total := 0; total <= 23; total++ {
		items := make([]int, total)

		for perPage := 1; perPage <= 7; perPage++ {
			for page := -1; page <= total/perPage+1; page++ {
				result := core.Paginate(items, page, perPage)

				if result.Offset+len(result.Items) > total {
					t.Fatalf("Slice out of range, total: %d, per page: %d, page: %d.", total, perPage, page)
				}

				if total > 0 && result.CurrentPage*perPage >= total {
					t.Fatalf("Page out of range, total: %d, per page: %d, page: %d.", total, perPage, page)
				}

				if result.HasPrev() != (result.CurrentPage > 0) {
					t.Fatalf("Invalid prev flag, page: %d.", result.CurrentPage)
				}

				if result.HasNext() == result.IsLastPage() {
					t.Fatalf("Invalid next flag, total: %d, per page: %d, page: %d.", total, perPage, result.CurrentPage)
				}
			}
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	result := core.Paginate([]string{}, 3, 5)

	if len(result.Items) != 0 || result.CurrentPage != 0 || result.HasNext() || result.HasPrev() {
		t.Errorf("Invalid empty page: %+v", result)
	}
}
