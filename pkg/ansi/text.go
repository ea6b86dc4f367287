// Package ansi implements an interval-based text annotator for ANSI SGR
// styling. A Text owns an immutable base string and a sparse table of style
// events keyed by byte index; rendering interleaves the base string with
// escape sequences representing the set of styles active at each index.
package ansi

import (
	"sort"
	"strings"
)

const (
	escPrefix = "\x1b["
	escSuffix = "m"

	// escClear resets all active styling (an empty SGR command equals 0).
	escClear = escPrefix + escSuffix
)

// Text is a base string plus the style events applied to sub-ranges of it.
// The zero value is not usable; construct with New.
type Text struct {
	s      string
	events map[int]*StyleEvent
}

// New creates a Text over the given base string with no styling.
func New(s string) *Text {
	return &Text{s: s, events: make(map[int]*StyleEvent)}
}

// Base returns the base string without any styling.
func (t *Text) Base() string {
	return t.s
}

// Len returns the byte length of the base string.
func (t *Text) Len() int {
	return len(t.s)
}

// Apply registers the SGR codes over [start, start+length). A negative
// length applies the codes through the end of the string with no paired
// remove event. Empty codes or a non-positive bounded length are ignored.
// When topmost is true the style renders after (on top of) styles already
// active at the same index; otherwise it yields to them.
func (t *Text) Apply(codes string, start, length int, topmost bool) {
	if codes == "" || length == 0 {
		return
	}

	tok := newToken(codes)
	t.insert(start, tok, true, topmost)
	if length > 0 {
		t.insert(start+length, tok, false, topmost)
	}
}

// ApplyForSpan registers codes over the half-open span [start, end).
func (t *Text) ApplyForSpan(codes string, start, end int) {
	t.Apply(codes, start, end-start, true)
}

// Clear removes all style events; the base string is unaffected.
func (t *Text) Clear() {
	t.events = make(map[int]*StyleEvent)
}

func (t *Text) insert(idx int, tok *StyleToken, apply, topmost bool) {
	ev, ok := t.events[idx]
	if !ok {
		ev = &StyleEvent{}
		t.events[idx] = ev
	}
	list := &ev.Remove
	if apply {
		list = &ev.Apply
	}
	if topmost {
		*list = append(*list, tok)
	} else {
		*list = append([]*StyleToken{tok}, *list...)
	}
}

// Render returns the base string interleaved with escape sequences for the
// registered style events.
func (t *Text) Render() string {
	return t.render(t.events)
}

// RenderWith renders like Render with an additional style format applied
// topmost over the whole string for this call only. The format is resolved
// through ResolveFormat; a malformed format is a configuration error.
func (t *Text) RenderWith(format string) (string, error) {
	if format == "" {
		return t.render(t.events), nil
	}

	codes, err := ResolveFormat(format)
	if err != nil {
		return "", err
	}
	if codes == "" {
		return t.render(t.events), nil
	}

	// Copy the event table so the synthetic apply does not persist.
	events := make(map[int]*StyleEvent, len(t.events)+1)
	for idx, ev := range t.events {
		events[idx] = ev
	}
	first := &StyleEvent{}
	if ev, ok := events[0]; ok {
		first = ev.clone()
	}
	first.Apply = append(first.Apply, newToken(codes))
	events[0] = first

	return t.render(events), nil
}

func (t *Text) render(events map[int]*StyleEvent) string {
	if len(events) == 0 {
		return t.s
	}

	idxs := sortedIndices(events)

	var b strings.Builder
	var active []*StyleToken
	last := 0
	clearNeeded := false

	for _, idx := range idxs {
		if idx >= len(t.s) {
			break
		}
		ev := events[idx]
		for _, tok := range ev.Remove {
			active = removeToken(active, tok)
		}
		active = append(active, ev.Apply...)

		b.WriteString(t.s[last:idx])
		last = idx

		codes := make([]string, 0, len(active)+1)
		if len(ev.Remove) > 0 && len(active) > 0 {
			// SGR codes are not individually revocable: once any style is
			// removed while others stay active, reset and reapply the rest.
			codes = append(codes, codeReset)
		}
		for _, tok := range active {
			codes = append(codes, tok.codes)
		}
		b.WriteString(escPrefix + strings.Join(codes, ";") + escSuffix)
		clearNeeded = len(active) > 0
	}

	b.WriteString(t.s[last:])
	if clearNeeded {
		b.WriteString(escClear)
	}
	return b.String()
}

// Slice returns a new Text over s[start:end]. Negative indices resolve from
// the end of the string; both bounds are clamped to [0, len]. The style set
// in effect at start carries into the slice as its index-0 apply event with
// no synthetic remove; events at or beyond end are dropped. The result never
// shares event state with the receiver, a full-range slice included.
func (t *Text) Slice(start, end int) *Text {
	st := resolveIndex(start, len(t.s))
	en := resolveIndex(end, len(t.s))
	if st == 0 && en == len(t.s) {
		out := New(t.s)
		for idx, ev := range t.events {
			out.events[idx] = ev.clone()
		}
		return out
	}
	if en < st {
		en = st
	}

	out := New(t.s[st:en])

	var active, carried []*StyleToken
	initialized := false

	for _, idx := range sortedIndices(t.events) {
		if idx >= len(t.s) || idx >= en {
			break
		}
		ev := t.events[idx]
		for _, tok := range ev.Remove {
			active = removeToken(active, tok)
		}
		active = append(active, ev.Apply...)

		switch {
		case idx == st:
			if len(active) > 0 {
				out.events[0] = &StyleEvent{Apply: append([]*StyleToken(nil), active...)}
			}
			initialized = true
		case idx > st:
			if !initialized {
				if len(carried) > 0 {
					out.events[0] = &StyleEvent{Apply: append([]*StyleToken(nil), carried...)}
				}
				initialized = true
			}
			out.events[idx-st] = ev.clone()
		}
		carried = append([]*StyleToken(nil), active...)
	}

	if !initialized && len(carried) > 0 {
		out.events[0] = &StyleEvent{Apply: carried}
	}
	return out
}

func resolveIndex(v, n int) int {
	if v < 0 {
		v += n
		if v < 0 {
			v = 0
		}
	}
	if v > n {
		v = n
	}
	return v
}

// removeToken removes tok from active by identity. A remove event whose
// token was never applied violates the apply/remove pairing invariant and
// cannot be rendered meaningfully.
func removeToken(active []*StyleToken, tok *StyleToken) []*StyleToken {
	for i, cur := range active {
		if cur == tok {
			return append(active[:i], active[i+1:]...)
		}
	}
	panic("ansi: remove event for a style token that was never applied")
}

func sortedIndices(events map[int]*StyleEvent) []int {
	idxs := make([]int, 0, len(events))
	for idx := range events {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	return idxs
}
