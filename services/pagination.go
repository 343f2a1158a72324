package services

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a normalized page request
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page to >= 1 and limit to [1, MaxPageSize], defaulting limit to DefaultPageSize
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total / limit)
func (p Page) TotalPages(total int64) int {
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
