package repositories

import "errors"

// ErrNotFound is wrapped by every lookup that matched no row.
var ErrNotFound = errors.New("not found")

func paginate(page, limit int) (offset, size int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	return (page - 1) * limit, limit
}
