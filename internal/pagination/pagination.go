// Package pagination implements page/perpage listing with a meta envelope.
package pagination

import "strconv"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type Params struct {
	Page    int
	PerPage int
}

// FromQuery parses raw query values; anything unparsable falls back to defaults.
func FromQuery(page, perPage string) Params {
	p := Params{Page: 1, PerPage: DefaultPerPage}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(perPage); err == nil && n > 0 {
		p.PerPage = n
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset is the number of rows before the first row of Page (1-based).
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

func (p Params) Limit() int {
	return p.PerPage
}

type Meta struct {
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	Page    int   `json:"page"`
	PerPage int   `json:"perpage"`
}

func NewMeta(total int64, p Params) Meta {
	var pages int64
	if p.PerPage > 0 {
		pages = (total + int64(p.PerPage) - 1) / int64(p.PerPage)
	}
	return Meta{Total: total, Pages: pages, Page: p.Page, PerPage: p.PerPage}
}

type Page[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

// New builds the response envelope; a nil slice is sent as [].
func New[T any](data []T, total int64, p Params) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Meta: NewMeta(total, p), Data: data}
}
