package ansi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/grepl/pkg/ansi"
)

func TestResolveFormat_Names(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   string
		expected string
	}{
		{"single name", "bold", "1"},
		{"case insensitive", "BOLD", "1"},
		{"foreground color", "fg_red", "31"},
		{"background color", "bg_cyan", "46"},
		{"composite 256-color name", "fg_orange", "38;5;202"},
		{"name list", "bold;fg_red", "1;31"},
		{"mixed names and codes", "bold;31", "1;31"},
		{"bare integer", "32", "32"},
		{"integer list", "01;31", "01;31"},
		{"verbatim prefix", "[01;31", "01;31"},
		{"verbatim is not validated", "[anything;goes", "anything;goes"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			codes, err := ansi.ResolveFormat(testCase.format)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, codes)
		})
	}
}

func TestResolveFormat_UnknownName(t *testing.T) {
	t.Parallel()

	_, err := ansi.ResolveFormat("not_a_style")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_a_style")

	_, err = ansi.ResolveFormat("bold;nope")
	require.Error(t, err)
}
