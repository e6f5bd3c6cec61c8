package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Sternrassler/post-pager/pkg/browser"
	"github.com/Sternrassler/post-pager/pkg/view"
	"github.com/fatih/color"
)

const helpText = `Commands:
  n, next        next page
  p, prev        previous page
  f, first       first page
  l, last        last page
  N              open page N shown in the control
  g N            go to page N when the go-to hint is shown
  r, retry       reload the current page
  h, help        show this help
  q, quit        exit
`

// repl drives a Browser from line-based commands.
type repl struct {
	browser *browser.Browser
	in      io.Reader
	out     io.Writer
	opts    view.Options
}

// run renders every state change and executes commands until quit, EOF or ctx is done.
func (r *repl) run(ctx context.Context) error {
	unsubscribe := r.browser.Subscribe(func(s view.State) {
		if err := view.Render(r.out, s, r.opts); err != nil {
			printError(r.out, err)
		}
	})
	defer unsubscribe()

	// the initial load failing is shown as the error screen; keep going so r can retry
	r.browser.Load(ctx)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(r.out, "> ")
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			fmt.Fprintln(r.out)
			return err
		case line := <-lines:
			quit, err := r.exec(ctx, line)
			if err != nil {
				printError(r.out, err)
			}
			if quit {
				return nil
			}
		}
	}
}

// exec runs one command. Load failures are already on screen and are not returned.
func (r *repl) exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	var navErr error
	switch cmd := strings.ToLower(fields[0]); cmd {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprint(r.out, helpText)
		return false, nil
	case "n", "next":
		navErr = r.browser.Next(ctx)
	case "p", "prev", "previous":
		navErr = r.browser.Previous(ctx)
	case "f", "first":
		navErr = r.browser.First(ctx)
	case "l", "last":
		navErr = r.browser.Last(ctx)
	case "r", "retry":
		navErr = r.browser.Retry(ctx)
	case "g", "goto":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: g <page>")
		}
		page, err := r.goToPage(fields[1])
		if err != nil {
			return false, err
		}
		navErr = r.browser.GoTo(ctx, page)
	default:
		n, convErr := strconv.Atoi(cmd)
		if len(fields) != 1 || convErr != nil {
			return false, fmt.Errorf("unknown command %q (h for help)", fields[0])
		}
		page, ok := r.browser.State().Pagination.SelectPage(n)
		if !ok {
			return false, fmt.Errorf("page %d is not shown; pick one from the control", n)
		}
		navErr = r.browser.GoTo(ctx, page)
	}

	switch {
	case navErr == nil:
		return false, nil
	case errors.Is(navErr, browser.ErrUnavailable):
		return false, fmt.Errorf("no such page from here")
	case r.browser.State().Kind == view.KindError:
		return false, nil
	default:
		return false, navErr
	}
}

func (r *repl) goToPage(input string) (int, error) {
	v := r.browser.State().Pagination
	if v.TotalPages < 1 {
		return 0, fmt.Errorf("page count not known yet")
	}
	if !v.ShowGoTo {
		return 0, fmt.Errorf("go to is not offered for %d pages; pick a page from the control", v.TotalPages)
	}
	page, ok := v.GoTo(input)
	if !ok {
		return 0, fmt.Errorf("enter a page between 1 and %d", v.TotalPages)
	}
	return page, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", color.HiRedString("Error:"), err.Error())
}
