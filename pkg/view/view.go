// Package view renders the post browser to a terminal.
//
// Render is a pure function of State: it branches on the state kind and
// writes text, nothing else.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/Sternrassler/post-pager/pkg/pagination"
	"github.com/Sternrassler/post-pager/pkg/posts"
	"github.com/fatih/color"
)

// SkeletonRows is the number of placeholder rows shown while loading.
const SkeletonRows = 5

// Kind is the kind of screen to render.
type Kind int

const (
	// KindLoading is shown while the current page is being fetched.
	KindLoading Kind = iota
	// KindError is shown when the current page could not be fetched.
	KindError
	// KindEmpty is shown for a valid page without posts.
	KindEmpty
	// KindSuccess is shown for a page with posts.
	KindSuccess
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindError:
		return "error"
	case KindEmpty:
		return "empty"
	case KindSuccess:
		return "success"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is everything Render needs for one screen.
type State struct {
	Kind        Kind
	CurrentPage int
	Page        *posts.Page
	Err         error
	Pagination  pagination.View
}

// Options controls rendering.
type Options struct {
	NoColor bool
}

type palette struct {
	title    *color.Color
	muted    *color.Color
	errText  *color.Color
	current  *color.Color
	disabled *color.Color
	badge    *color.Color
}

func newPalette(opts Options) palette {
	p := palette{
		title:    color.New(color.Bold),
		muted:    color.New(color.FgHiBlack),
		errText:  color.New(color.FgHiRed),
		current:  color.New(color.FgHiWhite, color.BgBlue, color.Bold),
		disabled: color.New(color.FgHiBlack, color.Faint),
		badge:    color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.title, p.muted, p.errText, p.current, p.disabled, p.badge} {
		if opts.NoColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return p
}

// Render writes the screen for s to w.
func Render(w io.Writer, s State, opts Options) error {
	p := newPalette(opts)
	b := &strings.Builder{}

	p.title.Fprint(b, "Posts")
	b.WriteRune('\n')

	switch s.Kind {
	case KindLoading:
		renderLoading(b, p)
	case KindError:
		renderError(b, p, s)
	case KindEmpty:
		renderEmpty(b, p, s)
	case KindSuccess:
		if s.Page == nil {
			return fmt.Errorf("success view without a page")
		}
		renderSuccess(b, p, s)
	default:
		return fmt.Errorf("unknown view kind %s", s.Kind)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderLoading(b *strings.Builder, p palette) {
	p.muted.Fprintln(b, "Loading post data...")
	b.WriteRune('\n')
	for i := 0; i < SkeletonRows; i++ {
		p.disabled.Fprintln(b, "  ░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░")
	}
}

func renderError(b *strings.Builder, p palette, s State) {
	p.muted.Fprintln(b, "Failed to load post data")
	b.WriteRune('\n')

	msg := "An unexpected error occurred"
	if s.Err != nil {
		msg = s.Err.Error()
	}
	p.errText.Fprint(b, "Error: ")
	b.WriteString(msg)
	b.WriteRune('\n')
	b.WriteString("Press r to retry.\n")
}

func renderEmpty(b *strings.Builder, p palette, s State) {
	p.muted.Fprintln(b, "No posts on this page")
	if s.Page != nil {
		fmt.Fprintf(b, "There are %d posts in total.\n", s.Page.TotalCount)
	}
	if s.Pagination.TotalPages > 0 {
		b.WriteRune('\n')
		renderControl(b, p, s.Pagination)
	}
}

func renderSuccess(b *strings.Builder, p palette, s State) {
	page := s.Page
	p.muted.Fprintf(b, "Showing %d of %d posts", len(page.Items), page.TotalCount)
	b.WriteString("  ")
	p.badge.Fprintf(b, "Page %d", page.PageNumber)
	b.WriteString("\n\n")

	for _, post := range page.Items {
		renderPost(b, p, post)
	}

	renderControl(b, p, s.Pagination)
}

func renderPost(b *strings.Builder, p palette, post posts.Post) {
	p.title.Fprint(b, post.Title)
	b.WriteRune('\n')
	for _, line := range strings.Split(post.Body, "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteRune('\n')
	}
	p.muted.Fprintf(b, "  post %d · user %d", post.ID, post.UserID)
	b.WriteString("\n\n")
}

func renderControl(b *strings.Builder, p palette, v pagination.View) {
	parts := make([]string, 0, len(v.Labels)+4)

	if v.ShowFirst {
		parts = append(parts, "«")
	}
	if v.CanPrevious {
		parts = append(parts, "‹ Previous")
	} else {
		parts = append(parts, p.disabled.Sprint("‹ Previous"))
	}

	for _, l := range v.Labels {
		switch {
		case l.IsEllipsis():
			parts = append(parts, p.muted.Sprint("..."))
		case l.Page == v.CurrentPage:
			parts = append(parts, p.current.Sprintf("[%d]", l.Page))
		default:
			parts = append(parts, l.String())
		}
	}

	if v.CanNext {
		parts = append(parts, "Next ›")
	} else {
		parts = append(parts, p.disabled.Sprint("Next ›"))
	}
	if v.ShowLast {
		parts = append(parts, "»")
	}

	b.WriteString(strings.Join(parts, " "))
	b.WriteRune('\n')
	fmt.Fprintf(b, "Page %d of %d", v.CurrentPage, v.TotalPages)
	if v.ShowGoTo {
		p.muted.Fprintf(b, "  (go to: g <1-%d>)", v.TotalPages)
	}
	b.WriteRune('\n')
}
