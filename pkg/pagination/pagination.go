// Package pagination implements offset pagination for product listings. Page
// numbers are 1-based and clamped into the valid range rather than rejected.
package pagination

const (
	// DefaultPageSize is the standard grid page size.
	DefaultPageSize = 12
	// MaxPageSize caps how many items any page can request.
	MaxPageSize = 48
)

// Page describes one resolved page of a listing.
type Page struct {
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// NormalizeSize enforces the default and maximum page sizes.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Resolve clamps the requested page number against the item count. An empty
// listing resolves to a single empty page.
func Resolve(totalItems, number, size int) Page {
	size = NormalizeSize(size)

	totalPages := (totalItems + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	return Page{
		Number:     number,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Offset is the index of the page's first item.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Bounds returns the half-open slice range of the page within the listing.
func (p Page) Bounds() (start, end int) {
	start = p.Offset()
	if start > p.TotalItems {
		start = p.TotalItems
	}
	end = start + p.Size
	if end > p.TotalItems {
		end = p.TotalItems
	}
	return start, end
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool {
	return p.Number > 1
}
