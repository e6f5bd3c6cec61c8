// Package pagination computes the page-number control shown below a page of posts.
//
// The control never lists every page once the page count outgrows the visible
// budget. Instead it keeps the first and last page, a window of siblings around
// the current page, and ellipsis markers where runs of pages are elided:
//
//	ComputeLabels(10, 20, 1) // 1 … 9 10 11 … 20
//
// NewView adds the affordances around the labels: previous/next, jumps to the
// first and last page for long lists, and a go-to input when the list is
// longer still.
//
// Example usage:
//
//	cfg := pagination.DefaultConfig()
//	v := pagination.NewView(page.PageNumber, page.TotalPages(), page.HasNext, page.HasPrevious, cfg)
//	if next, ok := v.Next(); ok {
//		browser.GoTo(ctx, next)
//	}
//
// Everything in this package is pure; callers own the current page.
package pagination
