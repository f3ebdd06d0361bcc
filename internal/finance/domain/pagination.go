package domain

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageDescriptor points at a neighbouring page.
type PageDescriptor struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Page struct {
	Number     int
	Limit      int
	Offset     int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// NewPage normalises the requested page and limit without knowing the total.
// A page below one becomes one, a limit below one becomes the default and a
// limit above MaxLimit is capped. The page is capped so the offset stays
// within int range.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return Page{Number: page, Limit: limit, Offset: (page - 1) * limit}
}

// Paginate computes the offset window and neighbour flags for a result set of
// totalResults items.
func Paginate(page, limit, totalResults int) Page {
	p := NewPage(page, limit)
	return p.WithTotal(totalResults)
}

func (p Page) WithTotal(totalResults int) Page {
	if totalResults < 0 {
		totalResults = 0
	}
	p.TotalPages = (totalResults + p.Limit - 1) / p.Limit
	p.HasNext = p.Offset+p.Limit < totalResults
	p.HasPrev = p.Offset > 0
	return p
}

func (p Page) Next() *PageDescriptor {
	if !p.HasNext {
		return nil
	}
	return &PageDescriptor{Page: p.Number + 1, Limit: p.Limit}
}

func (p Page) Prev() *PageDescriptor {
	if !p.HasPrev {
		return nil
	}
	return &PageDescriptor{Page: p.Number - 1, Limit: p.Limit}
}
