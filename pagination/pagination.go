package pagination

// Page is one page of a listing using the shared page/totalPages/hasNext
// contract. Page numbers are zero-based.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

func NewPage[T any](items []T, page, size int, total int64) *Page[T] {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return &Page[T]{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		HasNext:    page+1 < totalPages,
	}
}

// Offset converts a zero-based page number to a row offset.
func Offset(page, size int) int {
	if page < 0 || size <= 0 {
		return 0
	}

	return page * size
}
