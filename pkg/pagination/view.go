package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds the pagination control thresholds.
type Config struct {
	// MaxVisible is the page count up to which every page is listed.
	MaxVisible int

	// SiblingCount is the number of pages shown on each side of the current page.
	SiblingCount int

	// JumpThreshold is the page count above which first/last jumps appear.
	JumpThreshold int

	// GoToThreshold is the page count above which the go-to input appears.
	GoToThreshold int
}

// DefaultConfig returns the default control thresholds.
func DefaultConfig() Config {
	return Config{
		MaxVisible:    DefaultMaxVisible,
		SiblingCount:  1,
		JumpThreshold: 7,
		GoToThreshold: 10,
	}
}

// Labels returns the labels for current of total pages.
func (c Config) Labels(current, total int) []Label {
	return computeLabels(current, total, c.SiblingCount, c.MaxVisible)
}

// View is everything needed to draw the control for one render.
type View struct {
	Labels      []Label
	CurrentPage int
	TotalPages  int

	CanPrevious bool
	CanNext     bool
	ShowFirst   bool
	ShowLast    bool
	ShowGoTo    bool
}

// NewView derives the control for current of total pages.
func NewView(current, total int, hasNext, hasPrevious bool, cfg Config) View {
	return View{
		Labels:      cfg.Labels(current, total),
		CurrentPage: current,
		TotalPages:  total,
		CanPrevious: hasPrevious,
		CanNext:     hasNext,
		ShowFirst:   current > 3 && total > cfg.JumpThreshold,
		ShowLast:    current < total-2 && total > cfg.JumpThreshold,
		ShowGoTo:    total > cfg.GoToThreshold,
	}
}

// Previous returns the page before the current one.
func (v View) Previous() (int, bool) {
	if !v.CanPrevious {
		return 0, false
	}
	return v.CurrentPage - 1, true
}

// Next returns the page after the current one.
func (v View) Next() (int, bool) {
	if !v.CanNext {
		return 0, false
	}
	return v.CurrentPage + 1, true
}

// First returns page 1 when the first-page jump is shown.
func (v View) First() (int, bool) {
	if !v.ShowFirst {
		return 0, false
	}
	return 1, true
}

// Last returns the last page when the last-page jump is shown.
func (v View) Last() (int, bool) {
	if !v.ShowLast {
		return 0, false
	}
	return v.TotalPages, true
}

// Select returns the page behind label l, or false for ellipsis markers.
func (v View) Select(l Label) (int, bool) {
	if l.IsEllipsis() || l.Page < 1 || l.Page > v.TotalPages {
		return 0, false
	}
	return l.Page, true
}

// SelectPage returns page when one of the visible labels leads to it.
func (v View) SelectPage(page int) (int, bool) {
	for _, l := range v.Labels {
		if p, ok := v.Select(l); ok && p == page {
			return p, true
		}
	}
	return 0, false
}

// GoTo validates go-to input. It fails when the go-to input is not shown.
func (v View) GoTo(input string) (int, bool) {
	if !v.ShowGoTo {
		return 0, false
	}
	return ParseGoTo(input, v.TotalPages)
}

// ParseGoTo validates go-to input. Only integers in [1, total] are accepted.
func ParseGoTo(input string, total int) (int, bool) {
	page, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || page < 1 || page > total {
		return 0, false
	}
	return page, true
}

// String renders the control on one line, marking the current page.
func (v View) String() string {
	var b strings.Builder
	for i, l := range v.Labels {
		if i > 0 {
			b.WriteByte(' ')
		}
		if !l.IsEllipsis() && l.Page == v.CurrentPage {
			fmt.Fprintf(&b, "[%d]", l.Page)
			continue
		}
		b.WriteString(l.String())
	}
	return b.String()
}
