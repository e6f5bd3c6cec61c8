// Package posts defines the post model and the page-fetcher that simulates
// pagination over an upstream collection that returns every post at once.
package posts

// DefaultPageSize is the number of posts on a page.
const DefaultPageSize = 5

// Post is a single upstream post. Identity is ID.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Page is a bounded slice of the collection plus pagination metadata.
type Page struct {
	Items       []Post `json:"items"`
	TotalCount  int    `json:"totalCount"`
	PageNumber  int    `json:"pageNumber"`
	PageSize    int    `json:"pageSize"`
	HasNext     bool   `json:"hasNext"`
	HasPrevious bool   `json:"hasPrevious"`
}

// TotalPages returns the number of pages in the collection the page was cut from.
func (p *Page) TotalPages() int {
	return TotalPages(p.TotalCount, p.PageSize)
}

// Empty reports whether the page has no items.
func (p *Page) Empty() bool {
	return len(p.Items) == 0
}

// TotalPages returns ceil(totalCount / pageSize), or 0 when either is not positive.
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// Paginate cuts page pageNumber out of all. A page past the end yields no
// items but still carries valid metadata.
func Paginate(all []Post, pageNumber, pageSize int) *Page {
	total := len(all)
	totalPages := TotalPages(total, pageSize)

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	if end < start {
		end = start
	}

	items := make([]Post, end-start)
	copy(items, all[start:end])

	return &Page{
		Items:       items,
		TotalCount:  total,
		PageNumber:  pageNumber,
		PageSize:    pageSize,
		HasNext:     pageNumber < totalPages,
		HasPrevious: pageNumber > 1,
	}
}
