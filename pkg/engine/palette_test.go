package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/grepl/pkg/engine"
)

func TestDefaultPalette(t *testing.T) {
	t.Parallel()

	pal := engine.DefaultPalette()
	assert.Equal(t, "01;31", pal.MatchSelected)
	assert.Equal(t, "01;31", pal.MatchContext)
	assert.Equal(t, "35", pal.FileName)
	assert.Equal(t, "32", pal.LineNumber)
	assert.Equal(t, "32", pal.ByteOffset)
	assert.Equal(t, "36", pal.Separator)
	assert.Empty(t, pal.MatchText, "mt defaults to unset")
	assert.False(t, pal.Reverse)
}

func TestParsePalette(t *testing.T) {
	t.Parallel()

	pal := engine.ParsePalette("mt=01;32:fn=1;35:rv")
	assert.Equal(t, "01;32", pal.MatchText)
	assert.Equal(t, "1;35", pal.FileName)
	assert.True(t, pal.Reverse)
	assert.Equal(t, "01;31", pal.MatchSelected, "untouched keys keep defaults")
}

func TestParsePalette_IgnoresMalformedEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec string
	}{
		{"non-integer codes", "fn=bold"},
		{"empty value", "fn="},
		{"unknown key", "zz=31"},
		{"missing value", "fn"},
		{"trailing garbage segment", "fn=35;x"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			pal := engine.ParsePalette(testCase.spec)
			assert.Equal(t, engine.DefaultPalette(), pal, "malformed entries must be ignored")
		})
	}
}

func TestParsePalette_BooleanKeysBySpec(t *testing.T) {
	t.Parallel()

	pal := engine.ParsePalette("ne:rv=anything")
	assert.True(t, pal.NoEOL)
	assert.True(t, pal.Reverse, "boolean keys are set by presence, value ignored")
}

func TestPaletteSet(t *testing.T) {
	t.Parallel()

	pal := engine.DefaultPalette()
	assert.True(t, pal.Set("sl", "7"))
	assert.Equal(t, "7", pal.SelectedLine)
	assert.False(t, pal.Set("nope", "7"))
}
