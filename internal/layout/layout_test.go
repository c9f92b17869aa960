package layout

import (
	"math"
	"testing"

	"github.com/dshills/conmenu/internal/renderer/core"
)

func TestBounds(t *testing.T) {
	tests := []struct {
		name string
		c    Content
		want Size
	}{
		{
			name: "items only",
			c:    Content{Items: []string{"Alpha", "Beta"}},
			want: Size{Width: 9, Height: 4},
		},
		{
			name: "header and footer",
			c: Content{
				Items:    []string{"Alpha", "Beta"},
				Header:   "MENU",
				Footer:   "Use arrows to navigate, Enter to select",
				HeaderOn: true,
				FooterOn: true,
			},
			want: Size{Width: 43, Height: 8},
		},
		{
			name: "disabled header ignored",
			c:    Content{Items: []string{"ab"}, Header: "a much longer header"},
			want: Size{Width: 6, Height: 3},
		},
		{
			name: "double width",
			c:    Content{Items: []string{"abc"}, DoubleWidth: true},
			want: Size{Width: 14, Height: 3},
		},
		{
			name: "visible glyphs",
			c:    Content{Items: []string{"\x1b[1mBold\x1b[0m", "日本"}},
			want: Size{Width: 8, Height: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bounds(tt.c); got != tt.want {
				t.Errorf("Bounds = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoundsMonotonic(t *testing.T) {
	c := Content{Header: "MENU", Footer: "footer", HeaderOn: true, FooterOn: true}
	prev := Bounds(c)
	for _, item := range []string{"a", "longer item", "mid", "日本語のテキスト", "x"} {
		c.Items = append(c.Items, item)
		got := Bounds(c)
		if got.Width < prev.Width {
			t.Fatalf("width shrank from %d to %d after adding %q", prev.Width, got.Width, item)
		}
		if got.Height != prev.Height+1 {
			t.Fatalf("height %d, want %d", got.Height, prev.Height+1)
		}
		for _, s := range append([]string{c.Header, c.Footer}, c.Items...) {
			if core.StringWidth(s)+horizontalPadding > got.Width {
				t.Fatalf("box width %d cannot hold %q", got.Width, s)
			}
		}
		prev = got
	}
}

func TestStart(t *testing.T) {
	vp := Size{Width: 80, Height: 24}
	box := Size{Width: 20, Height: 10}

	tests := []struct {
		name   string
		center Center
		want   Point
	}{
		{"centered", Center{}, Point{X: 30, Y: 7}},
		{"right top", Center{X: 1, Y: 1}, Point{X: 60, Y: 0}},
		{"left bottom", Center{X: -1, Y: -1}, Point{X: 0, Y: 14}},
		{"clamped input", Center{X: 5, Y: -9}, Point{X: 60, Y: 14}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Start(box, tt.center, vp); got != tt.want {
				t.Errorf("Start = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStartViewportTooSmall(t *testing.T) {
	got := Start(Size{Width: 40, Height: 10}, Center{X: 1, Y: 1}, Size{Width: 10, Height: 5})
	if got != (Point{}) {
		t.Errorf("expected origin fallback, got %+v", got)
	}
}

func TestStartStaysInViewport(t *testing.T) {
	vp := Size{Width: 37, Height: 13}
	box := Size{Width: 11, Height: 7}
	for cx := -1.0; cx <= 1.0; cx += 0.25 {
		for cy := -1.0; cy <= 1.0; cy += 0.25 {
			p := Start(box, Center{X: cx, Y: cy}, vp)
			if p.X < 0 || p.Y < 0 || p.X+box.Width > vp.Width || p.Y+box.Height > vp.Height {
				t.Fatalf("center (%v, %v) placed box out of viewport at %+v", cx, cy, p)
			}
		}
	}
}

func TestClampCenter(t *testing.T) {
	got := ClampCenter(Center{X: -3, Y: math.NaN()})
	if got.X != -1 || got.Y != 0 {
		t.Errorf("ClampCenter = %+v", got)
	}
	got = ClampCenter(Center{X: 0.5, Y: 2})
	if got.X != 0.5 || got.Y != 1 {
		t.Errorf("ClampCenter = %+v", got)
	}
}

func TestFormatHeader(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"MENU", 10, "   MENU   "},
		{"MENU", 9, "  MENU   "},
		{"toolong", 4, "tool"},
		{"日本", 6, " 日本 "},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		got := FormatHeader(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("FormatHeader(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
		if tt.width > 0 && core.StringWidth(got) != tt.width {
			t.Errorf("FormatHeader(%q, %d) width %d", tt.text, tt.width, core.StringWidth(got))
		}
	}
}

func TestFormatFooter(t *testing.T) {
	got := FormatFooter("hint", 10)
	if got != " hint     " {
		t.Errorf("FormatFooter = %q", got)
	}
	got = FormatFooter("overflowing", 6)
	if got != " overf" {
		t.Errorf("FormatFooter truncation = %q", got)
	}
	if FormatFooter("x", 0) != "" {
		t.Error("zero width should yield empty footer")
	}
}

func TestPlace(t *testing.T) {
	c := Content{
		Items:    []string{"Alpha", "Beta"},
		Header:   "MENU",
		Footer:   "hint",
		HeaderOn: true,
		FooterOn: true,
	}
	f := Place(c, Center{}, Size{Width: 30, Height: 20})

	if f.Box != (Size{Width: 9, Height: 8}) {
		t.Fatalf("unexpected box %+v", f.Box)
	}
	if f.Origin != (Point{X: 10, Y: 6}) {
		t.Fatalf("unexpected origin %+v", f.Origin)
	}
	if f.HeaderRow != 6 {
		t.Errorf("HeaderRow = %d, want 6", f.HeaderRow)
	}
	if f.ItemRow(0) != 9 || f.ItemRow(1) != 10 {
		t.Errorf("item rows = %d, %d", f.ItemRow(0), f.ItemRow(1))
	}
	if f.FooterRow != 12 {
		t.Errorf("FooterRow = %d, want 12", f.FooterRow)
	}
	if f.ItemColumn != 12 {
		t.Errorf("ItemColumn = %d, want 12", f.ItemColumn)
	}
	if last := f.FooterRow + 2; last != f.Origin.Y+f.Box.Height {
		t.Errorf("layout rows %d do not match box height end %d", last, f.Origin.Y+f.Box.Height)
	}
}

func TestPlaceNoHeaderFooter(t *testing.T) {
	c := Content{Items: []string{"a", "b", "c"}}
	f := Place(c, Center{}, Size{Width: 10, Height: 5})
	if f.HeaderRow != -1 || f.FooterRow != -1 {
		t.Errorf("expected header/footer off, got %d/%d", f.HeaderRow, f.FooterRow)
	}
	if f.FirstItemRow != f.Origin.Y+1 {
		t.Errorf("first item row %d, origin %d", f.FirstItemRow, f.Origin.Y)
	}
	if !(Size{Width: 10, Height: 5}).Fits(f.Box) {
		t.Error("viewport should fit box")
	}
}
