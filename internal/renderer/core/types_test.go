package core

import (
	"testing"
)

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b uint8
		wantErr bool
	}{
		{"#FF8040", 255, 128, 64, false},
		{"ff8040", 255, 128, 64, false},
		{"#FFF", 255, 255, 255, false},
		{"#0000AA", 0, 0, 170, false},
		{"invalid", 0, 0, 0, true},
		{"#GGG", 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := ColorFromHex(tt.hex)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.hex)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.R != tt.r || c.G != tt.g || c.B != tt.b {
				t.Errorf("expected (%d,%d,%d), got (%d,%d,%d)", tt.r, tt.g, tt.b, c.R, c.G, c.B)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"", ColorDefault},
		{"default", ColorDefault},
		{"DEFAULT", ColorDefault},
		{"4", ColorBlue},
		{"255", ColorFromIndex(255)},
		{"#00FF00", ColorFromRGB(0, 255, 0)},
		{"#0af", ColorFromRGB(0x00, 0xaa, 0xff)},
		{" 12 ", ColorFromIndex(12)},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tt.in, err)
		}
		if !got.Equals(tt.want) {
			t.Errorf("ParseColor(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	invalid := []string{"256", "300", "999", "fff", "00ff00", "#12", "#ggg", "-1", "red"}
	for _, in := range invalid {
		if got, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) = %s, want error", in, got)
		}
	}
}

func TestColorEquals(t *testing.T) {
	if ColorFromIndex(1).Equals(ColorFromRGB(1, 0, 0)) {
		t.Error("indexed and RGB colors should differ")
	}
	if !ColorFromIndex(3).Equals(Color{R: 3, G: 9, Indexed: true}) {
		t.Error("indexed colors should ignore G and B")
	}
	if ColorDefault.Equals(ColorBlack) {
		t.Error("default should not equal black")
	}
}

func TestParseAttribute(t *testing.T) {
	attr, err := ParseAttribute(" Bold ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attr != AttrBold {
		t.Errorf("expected AttrBold, got %d", attr)
	}
	if _, err := ParseAttribute("sparkle"); err == nil {
		t.Error("expected error for unknown attribute")
	}
}

func TestAttributeOps(t *testing.T) {
	a := AttrNone.With(AttrBold).With(AttrReverse)
	if !a.Has(AttrBold) || !a.Has(AttrReverse) {
		t.Error("expected bold and reverse")
	}
	a = a.Without(AttrBold)
	if a.Has(AttrBold) {
		t.Error("bold should be removed")
	}
}

func TestStyleEquals(t *testing.T) {
	s1 := NewStyle(ColorWhite, ColorBlue).Bold()
	s2 := DefaultStyle().WithForeground(ColorWhite).WithBackground(ColorBlue).WithAttributes(AttrBold)
	if !s1.Equals(s2) {
		t.Error("styles should be equal")
	}
	if s1.IsDefault() {
		t.Error("styled value should not be default")
	}
	if !DefaultStyle().IsDefault() {
		t.Error("DefaultStyle should be default")
	}
}

func TestCellWidth(t *testing.T) {
	if w := NewStyledCell('A', DefaultStyle()).Width; w != 1 {
		t.Errorf("expected width 1 for 'A', got %d", w)
	}
	if w := NewStyledCell('日', DefaultStyle()).Width; w != 2 {
		t.Errorf("expected width 2 for CJK, got %d", w)
	}
	if !ContinuationCell(DefaultStyle()).IsContinuation() {
		t.Error("continuation cell should report IsContinuation")
	}
	if EmptyCell().IsContinuation() {
		t.Error("empty cell is not a continuation")
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"Alpha", 5},
		{"日本", 4},
		{"\x1b[1mBold\x1b[0m", 4},
		{"é", 1},
		{"e\u0301", 1},
		{"👍🏽 ok", 7},
		{"❤️ love", 6},
	}
	for _, tt := range tests {
		if got := StringWidth(tt.in); got != tt.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := StripEscapes("\x1b[31mred\x1b[0m"); got != "red" {
		t.Errorf("StripEscapes = %q, want %q", got, "red")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Alpha", 10, "Alpha"},
		{"Alpha", 3, "Alp"},
		{"Alpha", 0, ""},
		{"日本語", 5, "日本"},
		{"日本語", 1, ""},
		{"👍🏽 ok", 2, "👍"},
		{"👍🏽 ok", 5, "👍🏽 "},
	}
	for _, tt := range tests {
		got := Truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if w := StringWidth(got); w > tt.width {
			t.Errorf("Truncate(%q, %d) width = %d", tt.in, tt.width, w)
		}
	}
}

func TestScreenRect(t *testing.T) {
	r := RectFromSize(2, 3, 1, 5)
	if r.Width() != 5 || r.Height() != 1 {
		t.Fatalf("expected 5x1, got %dx%d", r.Width(), r.Height())
	}
	if !r.Contains(3, 2) || !r.Contains(7, 2) {
		t.Error("expected edge columns inside")
	}
	if r.Contains(8, 2) || r.Contains(3, 3) || r.Contains(2, 2) {
		t.Error("expected points outside")
	}
	if !NewScreenRect(0, 0, 0, 4).IsEmpty() {
		t.Error("zero-height rect should be empty")
	}
}
