package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// PostingsPageSize is the fixed page size of every postings listing.
const PostingsPageSize = 10

type Page struct {
	Number     int
	Size       int
	Total      int
	TotalPages int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// NewPage clamps number into [1, TotalPages]. An empty result still has
// one (empty) page.
func NewPage(number, size, total int) Page {
	if size <= 0 {
		size = PostingsPageSize
	}
	totalPages := total / size
	if total%size > 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	return Page{Number: number, Size: size, Total: total, TotalPages: totalPages}
}

// Slice returns the items on page p.
func Slice[T any](items []T, p Page) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// GetPageNumber reads ?page= from the request; anything unparseable is 1.
func GetPageNumber(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page <= 0 {
		return 1
	}
	return page
}
