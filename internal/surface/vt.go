package surface

import (
	"image/color"

	"github.com/charmbracelet/x/ansi"

	"github.com/dshills/conmenu/internal/renderer/core"
)

// maxPending bounds the bytes of an unterminated sequence kept between
// writes. Longer sequences are dropped.
const maxPending = 256

// vtState holds the decoder and any escape sequence left incomplete by the
// previous Write.
type vtState struct {
	parser  *ansi.Parser
	pending string
}

func (v *vtState) decoder() *ansi.Parser {
	if v.parser == nil {
		v.parser = new(ansi.Parser)
		v.parser.SetParamsSize(32)
		v.parser.SetDataSize(64)
	}
	return v.parser
}

// Write interprets text as a VT stream: printable runes are written at
// the cursor, and CUP, ED, EL, SGR and DECTCEM sequences update the
// surface. Unknown sequences are consumed and ignored.
func (s *Surface) Write(text string) {
	p := s.vt.decoder()
	text = s.vt.pending + text
	s.vt.pending = ""

	for len(text) > 0 {
		seq, _, n, next := ansi.DecodeSequence(text, ansi.NormalState, p)
		if n <= 0 {
			n = 1
			seq = text[:1]
		}
		if next != ansi.NormalState {
			if len(text) <= maxPending {
				s.vt.pending = text
			}
			return
		}
		text = text[n:]

		switch {
		case ansi.HasCsiPrefix(seq):
			s.dispatchCSI(ansi.Cmd(p.Command()), p.Params())
		case ansi.HasEscPrefix(seq):
			// Other escapes carry no state we track.
		default:
			for _, r := range seq {
				s.putRune(r)
			}
		}
	}
}

func (s *Surface) dispatchCSI(cmd ansi.Cmd, params ansi.Params) {
	if cmd.Intermediate() != 0 {
		return
	}

	if cmd.Prefix() == '?' {
		if mode, _, _ := params.Param(0, 0); mode == 25 {
			switch cmd.Final() {
			case 'h':
				s.cursorVisible = true
			case 'l':
				s.cursorVisible = false
			}
		}
		return
	}
	if cmd.Prefix() != 0 {
		return
	}

	switch cmd.Final() {
	case 'H', 'f':
		row, col := position(params, 0), position(params, 1)
		s.SetCursorPosition(col-1, row-1)
	case 'J':
		cur := s.cursorY*s.width + s.cursorX
		switch n, _, _ := params.Param(0, 0); n {
		case 0:
			s.erase(cur, len(s.cells))
		case 1:
			s.erase(0, cur+1)
		case 2, 3:
			s.erase(0, len(s.cells))
		}
	case 'K':
		row := s.cursorY * s.width
		cur := row + s.cursorX
		switch n, _, _ := params.Param(0, 0); n {
		case 0:
			s.erase(cur, row+s.width)
		case 1:
			s.erase(row, cur+1)
		case 2:
			s.erase(row, row+s.width)
		}
	case 'm':
		s.applySGR(params)
	}
}

// position returns the 1-based CUP coordinate at i. Missing and zero
// values mean 1.
func position(params ansi.Params, i int) int {
	n, _, _ := params.Param(i, 1)
	return max(n, 1)
}

func (s *Surface) applySGR(params ansi.Params) {
	if len(params) == 0 {
		s.attr = core.DefaultStyle()
		return
	}

	for i := 0; i < len(params); i++ {
		code := params[i].Param(0)
		switch {
		case code == 0:
			s.attr = core.DefaultStyle()
		case code == 1:
			s.attr.Attributes |= core.AttrBold
		case code == 2:
			s.attr.Attributes |= core.AttrDim
		case code == 3:
			s.attr.Attributes |= core.AttrItalic
		case code == 4:
			s.attr.Attributes |= core.AttrUnderline
		case code == 5:
			s.attr.Attributes |= core.AttrBlink
		case code == 7:
			s.attr.Attributes |= core.AttrReverse
		case code == 9:
			s.attr.Attributes |= core.AttrStrikethrough
		case code == 22:
			s.attr.Attributes &^= core.AttrBold | core.AttrDim
		case code == 23:
			s.attr.Attributes &^= core.AttrItalic
		case code == 24:
			s.attr.Attributes &^= core.AttrUnderline
		case code == 25:
			s.attr.Attributes &^= core.AttrBlink
		case code == 27:
			s.attr.Attributes &^= core.AttrReverse
		case code == 29:
			s.attr.Attributes &^= core.AttrStrikethrough
		case code >= 30 && code <= 37:
			s.attr.Foreground = core.ColorFromIndex(uint8(code - 30))
		case code >= 40 && code <= 47:
			s.attr.Background = core.ColorFromIndex(uint8(code - 40))
		case code >= 90 && code <= 97:
			s.attr.Foreground = core.ColorFromIndex(uint8(code - 90 + 8))
		case code >= 100 && code <= 107:
			s.attr.Background = core.ColorFromIndex(uint8(code - 100 + 8))
		case code == 39:
			s.attr.Foreground = core.ColorDefault
		case code == 49:
			s.attr.Background = core.ColorDefault
		case code == 38 || code == 48:
			c, used, ok := extendedColor(params[i:])
			if used == 0 {
				return
			}
			i += used - 1
			if !ok {
				continue
			}
			if code == 38 {
				s.attr.Foreground = c
			} else {
				s.attr.Background = c
			}
		}
	}
}

// extendedColor decodes a 38 or 48 sequence starting at params[0]: 5;n or
// 2;r;g;b. It returns the color, the number of parameters consumed and
// whether the color is one a cell can hold. A zero count means the
// sequence is malformed.
func extendedColor(params ansi.Params) (core.Color, int, bool) {
	var c color.Color
	n := ansi.ReadStyleColor(params, &c)
	if n == 0 || c == nil {
		return core.Color{}, n, false
	}

	switch v := c.(type) {
	case ansi.IndexedColor:
		if idx := params[2].Param(0); idx > 255 {
			return core.Color{}, n, false
		}
		return core.ColorFromIndex(uint8(v)), n, true
	case color.RGBA:
		for _, p := range params[2:n] {
			if p.Param(0) > 255 {
				return core.Color{}, n, false
			}
		}
		return core.ColorFromRGB(v.R, v.G, v.B), n, true
	default:
		return core.Color{}, n, false
	}
}
