package engine

import (
	"strconv"
	"strings"
)

// Palette maps the symbolic GREP_COLORS keys to raw SGR code strings. An
// empty string code means "unset" for MatchText and "no styling" for the
// remaining keys; neither can be configured to a literal empty value, since
// values must parse as semicolon-separated integers.
type Palette struct {
	MatchText     string // mt: overrides ms/mc when set
	MatchSelected string // ms: match span on a selected line
	MatchContext  string // mc: match span when invert-match selects context
	SelectedLine  string // sl: whole selected line
	ContextLine   string // cx: whole context line
	Reverse       bool   // rv: swap sl/cx when invert-match is active
	FileName      string // fn
	LineNumber    string // ln
	ByteOffset    string // bn
	Separator     string // se
	NoEOL         bool   // ne
}

// DefaultPalette returns the palette used when GREP_COLORS is not set.
func DefaultPalette() Palette {
	return Palette{
		MatchSelected: "01;31",
		MatchContext:  "01;31",
		FileName:      "35",
		LineNumber:    "32",
		ByteOffset:    "32",
		Separator:     "36",
	}
}

// ParsePalette overlays a GREP_COLORS-style specification onto the default
// palette.
func ParsePalette(spec string) Palette {
	pal := DefaultPalette()
	pal.Overlay(spec)
	return pal
}

// Overlay applies a GREP_COLORS-style specification (colon-separated
// key=value pairs) on top of the palette. Boolean keys are set by mere
// presence; value keys are applied only when every semicolon-separated
// segment parses as an integer, and are silently ignored otherwise.
func (p *Palette) Overlay(spec string) {
	if spec == "" {
		return
	}

	for _, entry := range strings.Split(spec, ":") {
		key, value, hasValue := strings.Cut(entry, "=")
		switch key {
		case "rv":
			p.Reverse = true
		case "ne":
			p.NoEOL = true
		case "mt", "ms", "mc", "sl", "cx", "fn", "ln", "bn", "se":
			if !hasValue || !validCodes(value) {
				continue
			}
			p.set(key, value)
		}
	}
}

// Set assigns raw SGR codes to the named value key, reporting whether the
// key is known. Unlike Overlay, the codes are not validated; callers that
// accept symbolic style names resolve them first.
func (p *Palette) Set(key, value string) bool {
	switch key {
	case "mt", "ms", "mc", "sl", "cx", "fn", "ln", "bn", "se":
		p.set(key, value)
		return true
	}
	return false
}

func (p *Palette) set(key, value string) {
	switch key {
	case "mt":
		p.MatchText = value
	case "ms":
		p.MatchSelected = value
	case "mc":
		p.MatchContext = value
	case "sl":
		p.SelectedLine = value
	case "cx":
		p.ContextLine = value
	case "fn":
		p.FileName = value
	case "ln":
		p.LineNumber = value
	case "bn":
		p.ByteOffset = value
	case "se":
		p.Separator = value
	}
}

func validCodes(value string) bool {
	for _, part := range strings.Split(value, ";") {
		if _, err := strconv.Atoi(part); err != nil {
			return false
		}
	}
	return true
}
