package ansi_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yaklabco/grepl/pkg/ansi"
)

// escapePattern matches any SGR escape sequence.
var escapePattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestRender_NoStyles(t *testing.T) {
	t.Parallel()

	text := ansi.New("plain text")
	assert.Equal(t, "plain text", text.Render(), "unstyled render must be the base string exactly")
}

func TestRender_WholeString(t *testing.T) {
	t.Parallel()

	text := ansi.New("foo")
	text.Apply("31", 0, 3, true)
	assert.Equal(t, "\x1b[31mfoo\x1b[m", text.Render())
}

func TestRender_OpenEnded(t *testing.T) {
	t.Parallel()

	// Negative length styles through the end with no remove event.
	text := ansi.New("foo")
	text.Apply("31", 0, -1, true)
	assert.Equal(t, "\x1b[31mfoo\x1b[m", text.Render())
}

func TestRender_MidStringRange(t *testing.T) {
	t.Parallel()

	text := ansi.New("abc")
	text.Apply("1", 1, 1, true)
	assert.Equal(t, "a\x1b[1mb\x1b[mc", text.Render())
}

func TestRender_ResetAndReapply(t *testing.T) {
	t.Parallel()

	// When one style ends while another is still active, the renderer must
	// reset and reapply the survivors.
	text := ansi.New("abcd")
	text.Apply("1", 0, 2, true)
	text.Apply("31", 0, 4, true)
	assert.Equal(t, "\x1b[1;31mab\x1b[0;31mcd\x1b[m", text.Render())
}

func TestRender_TopmostOrdering(t *testing.T) {
	t.Parallel()

	over := ansi.New("x")
	over.Apply("31", 0, 1, true)
	over.Apply("42", 0, 1, true)
	assert.Equal(t, "\x1b[31;42mx\x1b[m", over.Render())

	under := ansi.New("x")
	under.Apply("31", 0, 1, true)
	under.Apply("42", 0, 1, false)
	assert.Equal(t, "\x1b[42;31mx\x1b[m", under.Render())
}

func TestRender_EmptyCodesIgnored(t *testing.T) {
	t.Parallel()

	text := ansi.New("abc")
	text.Apply("", 0, 3, true)
	text.Apply("31", 0, 0, true)
	assert.Equal(t, "abc", text.Render())
}

func TestRenderWith(t *testing.T) {
	t.Parallel()

	text := ansi.New("x")

	got, err := text.RenderWith("fg_red")
	require.NoError(t, err)
	assert.Equal(t, "\x1b[31mx\x1b[m", got)

	got, err = text.RenderWith("[01;31")
	require.NoError(t, err)
	assert.Equal(t, "\x1b[01;31mx\x1b[m", got)

	// The synthetic apply must not persist.
	assert.Equal(t, "x", text.Render())

	_, err = text.RenderWith("no_such_style")
	require.Error(t, err)
}

func TestSlice_Bounds(t *testing.T) {
	t.Parallel()

	text := ansi.New("hello world")
	assert.Equal(t, "hello", text.Slice(0, 5).Base())
	assert.Equal(t, "world", text.Slice(-5, len("hello world")).Base())
	assert.Equal(t, "", text.Slice(7, 3).Base(), "inverted bounds collapse to empty")
	assert.Equal(t, "hello world", text.Slice(0, 999).Base(), "end clamps to length")
}

func TestSlice_CarriesActiveStyle(t *testing.T) {
	t.Parallel()

	// A style opened before the slice start stays in effect inside it even
	// when no event falls within the sliced range.
	text := ansi.New("foo")
	text.Apply("31", 0, -1, true)

	got := text.Slice(1, 2).Render()
	assert.Equal(t, "\x1b[31mo\x1b[m", got)
}

func TestSlice_DropsEventsPastEnd(t *testing.T) {
	t.Parallel()

	text := ansi.New("abcdef")
	text.Apply("1", 4, 2, true)
	assert.Equal(t, "abc", text.Slice(0, 3).Render())
}

func TestSlice_ShiftsInteriorEvents(t *testing.T) {
	t.Parallel()

	text := ansi.New("abcdef")
	text.Apply("31", 2, 2, true)

	got := text.Slice(1, 5).Render()
	assert.Equal(t, "b\x1b[31mcd\x1b[me", got)
}

func TestSlice_FullRangeIsIndependent(t *testing.T) {
	t.Parallel()

	text := ansi.New("abc")
	text.Apply("31", 0, 2, true)

	slice := text.Slice(0, 3)
	slice.Apply("1", 1, 1, true)

	assert.Equal(t, "\x1b[31mab\x1b[mc", text.Render(), "styling the slice must not touch the source")
	assert.NotEqual(t, text.Render(), slice.Render())
}

func TestRender_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		base := rapid.StringOfN(rapid.RuneFrom([]rune("abcxyz 123")), 0, 12, -1).Draw(t, "base")
		text := ansi.New(base)

		codes := []string{"1", "31", "42", "01;31"}
		applies := rapid.IntRange(0, 4).Draw(t, "applies")
		for i := 0; i < applies; i++ {
			start := rapid.IntRange(0, len(base)).Draw(t, "start")
			length := rapid.IntRange(-1, len(base)).Draw(t, "length")
			code := rapid.SampledFrom(codes).Draw(t, "code")
			topmost := rapid.Bool().Draw(t, "topmost")
			text.Apply(code, start, length, topmost)
		}

		rendered := text.Render()

		// Stripping every escape sequence recovers the base string.
		stripped := escapePattern.ReplaceAllString(rendered, "")
		if stripped != base {
			t.Fatalf("stripped render %q != base %q", stripped, base)
		}

		// Any styled render ends with the clear sequence or contains no
		// escapes at all.
		if rendered != base && !strings.HasSuffix(rendered, "\x1b[m") {
			// Styles that all end mid-string leave no trailing clear; the
			// last escape must then be a bare clear already.
			if !strings.Contains(rendered, "\x1b[") {
				t.Fatalf("render %q differs from base with no escapes", rendered)
			}
		}

		// Slicing preserves the underlying characters.
		i := rapid.IntRange(0, len(base)).Draw(t, "i")
		j := rapid.IntRange(i, len(base)).Draw(t, "j")
		slice := text.Slice(i, j)
		if slice.Base() != base[i:j] {
			t.Fatalf("slice base %q != %q", slice.Base(), base[i:j])
		}
		strippedSlice := escapePattern.ReplaceAllString(slice.Render(), "")
		if strippedSlice != base[i:j] {
			t.Fatalf("stripped slice render %q != %q", strippedSlice, base[i:j])
		}
	})
}
