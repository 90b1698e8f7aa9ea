package pagination

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit  = 12
	MaxLimit      = 100
	MaxPageNumber = 1000000
)

var (
	ErrInvalidPage  = errors.New("invalid page number")
	ErrInvalidLimit = errors.New("invalid page size")
)

// Params is a validated page request.
type Params struct {
	Page  int
	Limit int
}

// Offset of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is returned alongside every paginated list.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// Parse reads page and limit from the query string. limit is capped at
// MaxLimit rather than rejected.
func Parse(c *gin.Context, defaultLimit int) (Params, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return Params{}, ErrInvalidPage
	}
	if page > MaxPageNumber {
		page = MaxPageNumber
	}

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return Params{}, ErrInvalidLimit
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}, nil
}

// NewMeta builds the meta block for total items.
func NewMeta(p Params, total int64) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    int64(p.Page*p.Limit) < total,
	}
}

// Window returns the [start,end) bounds of page p within n items.
func Window(p Params, n int) (int, int) {
	start := p.Offset()
	if start > n {
		start = n
	}
	end := start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}

// Slice returns page p of items.
func Slice[T any](items []T, p Params) []T {
	start, end := Window(p, len(items))
	return items[start:end]
}
