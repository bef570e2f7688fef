package repository

// DefaultPageSize is the page size used when a caller does not specify one.
// First pages at this size are served cache-aside.
const DefaultPageSize = 20

// MaxPageSize caps caller-supplied page sizes.
const MaxPageSize = 100

// ClampLimit normalizes a caller-supplied page size into [1, MaxPageSize].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
