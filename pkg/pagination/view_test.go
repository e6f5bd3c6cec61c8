package pagination

import "testing"

func TestNewView_Affordances(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name      string
		current   int
		total     int
		showFirst bool
		showLast  bool
		showGoTo  bool
	}{
		{"few pages", 4, 7, false, false, false},
		{"near start of many", 3, 8, false, true, false},
		{"past start of many", 4, 8, true, true, false},
		{"near end of many", 6, 8, true, false, false},
		{"go-to at eleven", 1, 11, false, true, true},
		{"no go-to at ten", 1, 10, false, true, false},
		{"middle of twenty", 10, 20, true, true, true},
		{"last of twenty", 20, 20, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(tt.current, tt.total, tt.current < tt.total, tt.current > 1, cfg)

			if v.ShowFirst != tt.showFirst {
				t.Errorf("ShowFirst = %v, want %v", v.ShowFirst, tt.showFirst)
			}
			if v.ShowLast != tt.showLast {
				t.Errorf("ShowLast = %v, want %v", v.ShowLast, tt.showLast)
			}
			if v.ShowGoTo != tt.showGoTo {
				t.Errorf("ShowGoTo = %v, want %v", v.ShowGoTo, tt.showGoTo)
			}
		})
	}
}

func TestView_Navigation(t *testing.T) {
	cfg := DefaultConfig()

	v := NewView(10, 20, true, true, cfg)
	if p, ok := v.Previous(); !ok || p != 9 {
		t.Errorf("Previous() = %d, %v", p, ok)
	}
	if p, ok := v.Next(); !ok || p != 11 {
		t.Errorf("Next() = %d, %v", p, ok)
	}
	if p, ok := v.First(); !ok || p != 1 {
		t.Errorf("First() = %d, %v", p, ok)
	}
	if p, ok := v.Last(); !ok || p != 20 {
		t.Errorf("Last() = %d, %v", p, ok)
	}

	first := NewView(1, 3, true, false, cfg)
	if _, ok := first.Previous(); ok {
		t.Error("Previous() should be disabled on the first page")
	}
	if _, ok := first.First(); ok {
		t.Error("First() should be hidden for short lists")
	}

	last := NewView(3, 3, false, true, cfg)
	if _, ok := last.Next(); ok {
		t.Error("Next() should be disabled on the last page")
	}
	if _, ok := last.Last(); ok {
		t.Error("Last() should be hidden for short lists")
	}
}

func TestView_Select(t *testing.T) {
	v := NewView(10, 20, true, true, DefaultConfig())

	for _, l := range v.Labels {
		p, ok := v.Select(l)
		if l.IsEllipsis() {
			if ok {
				t.Errorf("Select(ellipsis) = %d, want not ok", p)
			}
			continue
		}
		if !ok || p != l.Page {
			t.Errorf("Select(%v) = %d, %v", l, p, ok)
		}
	}

	if _, ok := v.Select(Number(21)); ok {
		t.Error("Select() should reject pages beyond the total")
	}
}

func TestView_SelectPage(t *testing.T) {
	v := NewView(10, 20, true, true, DefaultConfig())

	for page := 1; page <= 20; page++ {
		want := page == 1 || page == 9 || page == 10 || page == 11 || page == 20
		got, ok := v.SelectPage(page)
		if ok != want || (ok && got != page) {
			t.Errorf("SelectPage(%d) = %d, %v, want shown=%v", page, got, ok, want)
		}
	}
}

func TestView_GoTo(t *testing.T) {
	cfg := DefaultConfig()

	tenPages := NewView(1, 10, true, false, cfg)
	if tenPages.ShowGoTo {
		t.Fatal("go-to should not be offered for 10 pages")
	}
	if p, ok := tenPages.GoTo("9"); ok {
		t.Errorf("GoTo(9) on 10 pages = %d, want not offered", p)
	}

	elevenPages := NewView(1, 11, true, false, cfg)
	if p, ok := elevenPages.GoTo("9"); !ok || p != 9 {
		t.Errorf("GoTo(9) on 11 pages = %d, %v, want 9", p, ok)
	}
	if _, ok := elevenPages.GoTo("12"); ok {
		t.Error("GoTo(12) on 11 pages should be out of range")
	}
}

func TestView_String(t *testing.T) {
	v := NewView(10, 20, true, true, DefaultConfig())
	if got := v.String(); got != "1 ... 9 [10] 11 ... 20" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseGoTo(t *testing.T) {
	tests := []struct {
		input string
		total int
		page  int
		ok    bool
	}{
		{"5", 20, 5, true},
		{" 20 ", 20, 20, true},
		{"1", 20, 1, true},
		{"0", 20, 0, false},
		{"21", 20, 0, false},
		{"-3", 20, 0, false},
		{"", 20, 0, false},
		{"abc", 20, 0, false},
		{"12abc", 20, 0, false},
		{"2.5", 20, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			page, ok := ParseGoTo(tt.input, tt.total)
			if page != tt.page || ok != tt.ok {
				t.Errorf("ParseGoTo(%q, %d) = %d, %v, want %d, %v", tt.input, tt.total, page, ok, tt.page, tt.ok)
			}
		})
	}
}
