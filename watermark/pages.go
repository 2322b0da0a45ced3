package watermark

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsePageSelection parses a page selection string into a sorted,
// de-duplicated list of 1-based page numbers.
// Supported formats: "1", "1,3", "1-5", "1,3-5,7".
func ParsePageSelection(sel string) ([]int, error) {
	sel = strings.Join(strings.Fields(sel), "")
	if sel == "" {
		return nil, fmt.Errorf("empty page selection")
	}

	var pages []int
	for _, part := range strings.Split(sel, ",") {
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(lo)
			if err != nil {
				return nil, fmt.Errorf("invalid start page: %s", lo)
			}
			end, err := strconv.Atoi(hi)
			if err != nil {
				return nil, fmt.Errorf("invalid end page: %s", hi)
			}
			if start > end {
				return nil, fmt.Errorf("invalid range %s: start exceeds end", part)
			}
			for i := start; i <= end; i++ {
				pages = append(pages, i)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page number: %s", part)
		}
		pages = append(pages, n)
	}

	sort.Ints(pages)
	deduped := pages[:0]
	for i, p := range pages {
		if i == 0 || p != pages[i-1] {
			deduped = append(deduped, p)
		}
	}
	return deduped, nil
}

// ValidatePageNumbers checks that every selected page exists in a document
// with the given page count.
func ValidatePageNumbers(pages []int, totalPages int) error {
	for _, p := range pages {
		if p < 1 {
			return fmt.Errorf("page numbers must be positive, got %d", p)
		}
		if p > totalPages {
			return fmt.Errorf("page %d exceeds total pages (%d)", p, totalPages)
		}
	}
	return nil
}
