// Package capability selects how menus are painted onto surfaces.
//
// Terminals that understand escape-sequence cursor addressing and styling
// use the Modern painter, which encodes each draw as a single escape
// string. Everything else uses the Legacy painter, which issues discrete
// positioning and attribute calls. Both produce identical cells.
package capability

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode is the detected terminal capability.
type Mode int

const (
	// ModeLegacy paints with explicit cursor-position and attribute calls.
	ModeLegacy Mode = iota
	// ModeModern paints with escape sequences.
	ModeModern
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeModern:
		return "modern"
	default:
		return "legacy"
	}
}

// ProbeInput is the environment a probe decides from.
type ProbeInput struct {
	// IsTerminal reports whether output is attached to a terminal.
	IsTerminal bool
	// Term and ColorTerm are the TERM and COLORTERM variables.
	Term      string
	ColorTerm string
	// Colors is the color count reported by the display, or -1 when
	// unknown.
	Colors int
}

// Probe decides the capability mode. A detached display is Legacy.
func Probe(in ProbeInput) Mode {
	if !in.IsTerminal {
		return ModeLegacy
	}
	if in.Colors >= 0 && in.Colors < 8 {
		return ModeLegacy
	}

	colorterm := strings.ToLower(in.ColorTerm)
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ModeModern
	}

	t := strings.ToLower(strings.TrimSpace(in.Term))
	if t == "" || t == "dumb" {
		return ModeLegacy
	}
	return ModeModern
}

// ProbeTerminal gathers ProbeInput for stdout from the environment.
// colors is the count reported by the backend, or -1 when unknown.
func ProbeTerminal(colors int) ProbeInput {
	return ProbeInput{
		IsTerminal: term.IsTerminal(int(os.Stdout.Fd())),
		Term:       os.Getenv("TERM"),
		ColorTerm:  os.Getenv("COLORTERM"),
		Colors:     colors,
	}
}

// ViewportSize returns the size of the terminal on stdout. ok is false
// when stdout is not a terminal.
func ViewportSize() (width, height int, ok bool) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}
