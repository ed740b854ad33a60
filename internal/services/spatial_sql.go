package services

// maxListLimit bounds the page size of list reads. Predicate queries are not
// paginated and ignore it.
const maxListLimit = 100

// clampPage normalizes offset/limit for list queries: negative offsets become
// zero, and the limit defaults to and is capped at maxListLimit.
func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	return offset, limit
}
