package model

// PageQuery carries list parameters parsed from the query string
type PageQuery struct {
	Page   int64
	Limit  int64
	Search string
}

// Normalize clamps page and limit into usable bounds
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return q
}

// Skip is the number of documents to skip for the current page
func (q PageQuery) Skip() int64 {
	n := q.Normalize()
	return (n.Page - 1) * n.Limit
}

// Pagination is the envelope metadata for list endpoints
type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Pages int64 `json:"pages"`
}

// NewPagination derives page counts from a total and the request query
func NewPagination(total int64, q PageQuery) Pagination {
	n := q.Normalize()
	pages := total / n.Limit
	if total%n.Limit != 0 {
		pages++
	}
	return Pagination{Total: total, Page: n.Page, Limit: n.Limit, Pages: pages}
}
