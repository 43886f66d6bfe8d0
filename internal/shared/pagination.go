package shared

// MaxPageSize bounds every listing returned to callers.
const MaxPageSize = 10

// Pagination contains offset metadata for bounded listings.
type Pagination struct {
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	HasMore    bool `json:"has_more"`
	NextOffset int  `json:"next_offset,omitempty"`
}

// NewPagination computes pagination metadata for total matching items.
func NewPagination(offset, limit, total int) Pagination {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	p := Pagination{Offset: offset, Limit: limit, Total: total}
	if offset+limit < total {
		p.HasMore = true
		p.NextOffset = offset + limit
	}
	return p
}

// Window returns the [start, end) slice bounds of the page.
func (p Pagination) Window() (int, int) {
	start := p.Offset
	if start > p.Total {
		start = p.Total
	}
	end := start + p.Limit
	if end > p.Total {
		end = p.Total
	}
	return start, end
}
