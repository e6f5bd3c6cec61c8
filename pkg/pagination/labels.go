package pagination

import "strconv"

// LabelKind distinguishes page numbers from ellipsis markers.
type LabelKind int

const (
	// KindPage is a selectable page number.
	KindPage LabelKind = iota
	// KindEllipsis marks an elided run of page numbers.
	KindEllipsis
)

// Label is one entry of the page-number control.
type Label struct {
	Kind LabelKind
	Page int
}

// Number returns a page-number label.
func Number(n int) Label {
	return Label{Kind: KindPage, Page: n}
}

// Ellipsis returns an ellipsis marker.
func Ellipsis() Label {
	return Label{Kind: KindEllipsis}
}

// IsEllipsis reports whether l is an ellipsis marker.
func (l Label) IsEllipsis() bool {
	return l.Kind == KindEllipsis
}

// String renders the label as shown to the user.
func (l Label) String() string {
	if l.IsEllipsis() {
		return "..."
	}
	return strconv.Itoa(l.Page)
}

// DefaultMaxVisible is the page count up to which every page is listed.
const DefaultMaxVisible = 5

// ComputeLabels returns the labels for current of total pages, keeping radius
// siblings on each side of current.
func ComputeLabels(current, total, radius int) []Label {
	return computeLabels(current, total, radius, DefaultMaxVisible)
}

func computeLabels(current, total, radius, maxVisible int) []Label {
	if total <= 0 {
		return []Label{}
	}
	if radius < 0 {
		radius = 0
	}

	if total <= maxVisible {
		labels := make([]Label, 0, total)
		for i := 1; i <= total; i++ {
			labels = append(labels, Number(i))
		}
		return labels
	}

	low := max(1, current-radius)
	high := min(total, current+radius)

	labels := make([]Label, 0, high-low+5)

	if low > 1 {
		labels = append(labels, Number(1))
		if low > 2 {
			labels = append(labels, Ellipsis())
		}
	}

	for i := low; i <= high; i++ {
		labels = append(labels, Number(i))
	}

	if high < total {
		if high < total-1 {
			labels = append(labels, Ellipsis())
		}
		labels = append(labels, Number(total))
	}

	return labels
}

// Clamp returns page limited to [1, total]. With no pages it returns 1.
func Clamp(page, total int) int {
	if total < 1 || page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
