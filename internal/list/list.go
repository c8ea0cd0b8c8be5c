package list

import "strings"

// In-memory search and pagination for the admin listing screens. All lists
// are small enough (hundreds of rows) that re-filtering on every keystroke
// beats a round trip to the backend.

// Filter returns the items whose searchable fields contain the query,
// case-insensitively. An empty or whitespace query returns the input
// unchanged. The fields callback decides which fields participate per
// entity.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Paginate slices a page out of items and returns it together with the total
// page count. Pages are zero-based; an out-of-range page yields an empty
// slice. size <= 0 returns everything as a single page.
func Paginate[T any](items []T, page, size int) ([]T, int) {
	if size <= 0 {
		return items, 1
	}
	totalPages := (len(items) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 0 || page*size >= len(items) {
		return []T{}, totalPages
	}
	start := page * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages
}

// ClampPage pins a requested page into [0, totalPages-1] so a shrinking
// filtered list never lands a client on an empty out-of-range page.
func ClampPage(page, totalPages int) int {
	if page < 0 || totalPages <= 0 {
		return 0
	}
	if page >= totalPages {
		return totalPages - 1
	}
	return page
}
