package models

import "strconv"

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Pagination is simple page/limit paging for the portal list endpoints.
type Pagination struct {
	Page  int
	Limit int
}

func PaginationFromQuery(pageStr string, limitStr string) Pagination {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(limitStr)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
