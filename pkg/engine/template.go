package engine

import (
	"strings"

	"github.com/yaklabco/grepl/pkg/ansi"
)

type fieldKind int

const (
	fieldFileName fieldKind = iota
	fieldLineNumber
	fieldByteOffset
	fieldBody
)

// fieldSlot is one output field plus the (pre-styled) separator that follows
// it. Empty codes leave the field unstyled; the body field arrives already
// rendered and is never restyled here.
type fieldSlot struct {
	kind  fieldKind
	codes string
	sep   string
}

// lineTemplate is the ordered field layout for one output record. Two
// templates exist per run: one with the selected-line separators and one
// with the context-line separators.
type lineTemplate struct {
	slots []fieldSlot
}

func buildTemplate(opts *Options, colored bool, selected bool) *lineTemplate {
	pal := &opts.Palette
	seps := opts.Separators.selected()
	if !selected {
		seps = opts.Separators.context()
	}

	styleSep := func(s string) string {
		if colored {
			return styleText(s, pal.Separator)
		}
		return s
	}
	fieldCodes := func(codes string) string {
		if colored {
			return codes
		}
		return ""
	}

	nameOnly := opts.Mode != ModeLines
	showName := opts.ShowFileName || nameOnly
	showNum := opts.ShowLineNumbers && !nameOnly
	showByte := opts.ShowByteOffset && !nameOnly
	showBody := opts.Mode == ModeLines || opts.Mode == ModeCount

	t := &lineTemplate{}
	if showName {
		sep := ""
		switch {
		case showNum:
			sep = styleSep(seps.nameNum)
		case showByte:
			sep = styleSep(seps.nameByte)
		case showBody:
			sep = styleSep(seps.result)
		}
		t.slots = append(t.slots, fieldSlot{fieldFileName, fieldCodes(pal.FileName), sep})
	}
	if showNum {
		sep := ""
		switch {
		case showByte:
			sep = styleSep(seps.nameByte)
		case showBody:
			sep = styleSep(seps.result)
		}
		t.slots = append(t.slots, fieldSlot{fieldLineNumber, fieldCodes(pal.LineNumber), sep})
	}
	if showByte {
		sep := ""
		if showBody {
			sep = styleSep(seps.result)
		}
		t.slots = append(t.slots, fieldSlot{fieldByteOffset, fieldCodes(pal.ByteOffset), sep})
	}
	if showBody {
		t.slots = append(t.slots, fieldSlot{fieldBody, "", ""})
	}
	return t
}

// render assembles one output record. body must already carry its styling.
func (t *lineTemplate) render(name, num, offset, body string) string {
	var b strings.Builder
	for _, slot := range t.slots {
		var value string
		switch slot.kind {
		case fieldFileName:
			value = styleText(name, slot.codes)
		case fieldLineNumber:
			value = styleText(num, slot.codes)
		case fieldByteOffset:
			value = styleText(offset, slot.codes)
		case fieldBody:
			value = body
		}
		b.WriteString(value)
		b.WriteString(slot.sep)
	}
	return b.String()
}

// styleText wraps s in the given SGR codes, or returns it unchanged when no
// codes apply.
func styleText(s, codes string) string {
	if codes == "" || s == "" {
		return s
	}
	t := ansi.New(s)
	t.Apply(codes, 0, -1, true)
	return t.Render()
}
