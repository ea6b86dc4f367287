package engine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/grepl/pkg/engine"
	"github.com/yaklabco/grepl/pkg/match"
	"github.com/yaklabco/grepl/pkg/scan"
)

type runOutput struct {
	out    string
	errOut string
	report engine.FileReport
}

func runEngine(t *testing.T, input string, exprs []string, mopts match.Options, opts engine.Options) runOutput {
	t.Helper()

	set, err := match.Compile(exprs, mopts)
	require.NoError(t, err)

	if opts.Separators == (engine.Separators{}) {
		opts.Separators = engine.DefaultSeparators()
	}
	if opts.Palette == (engine.Palette{}) {
		opts.Palette = engine.DefaultPalette()
	}

	var out, errOut bytes.Buffer
	sink := &engine.WriterSink{
		Out:           &out,
		Err:           &errOut,
		SuppressLines: opts.Mode != engine.ModeLines,
	}

	eng := engine.New(opts, set, sink)
	report, err := eng.Run(scan.NewReaderSource(strings.NewReader(input), "test"))
	require.NoError(t, err)

	return runOutput{out: out.String(), errOut: errOut.String(), report: report}
}

func TestRun_FixedStringMatches(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "foo\nbar baz\nfoo\n",
		[]string{"foo"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{ShowByteOffset: true},
	)

	assert.Equal(t, "0:foo\n12:foo\n", got.out)
	assert.True(t, got.report.Matched)
	assert.Equal(t, 2, got.report.MatchCount)
}

func TestRun_EmptyExpressionMatchesEverything(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "a\nb\n",
		[]string{""},
		match.Options{Dialect: match.DialectBasic},
		engine.Options{},
	)

	assert.Equal(t, "a\nb\n", got.out)
	assert.Equal(t, 2, got.report.MatchCount)
}

func TestRun_BinaryFileStatus(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "\xffabc\nplain abc\n",
		[]string{"abc"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{Binary: scan.BinaryReportErrors},
	)

	// The binary line matches but is never printed; the condition surfaces
	// once in the end-of-file status message.
	assert.Equal(t, "plain abc\ntest: binary file matches\n", got.out)
	assert.True(t, got.report.Binary)
	assert.Equal(t, 2, got.report.MatchCount)
}

func TestRun_BinaryLineEndsTrailingContext(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "match\n\xffbin\nplain\ntail\n",
		[]string{"match"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{AfterContext: 2, Binary: scan.BinaryReportErrors},
	)

	// The suppressed binary line closes the trailing-context window, so the
	// lines following it must not print as context.
	assert.Equal(t, "match\ntest: binary file matches\n", got.out)
}

func TestRun_OverflowStatus(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "abcdefgh\nhit\n",
		[]string{"hit"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{Limit: 4},
	)

	assert.Equal(t, "hit\ntest: line overflow detected\n", got.out)
	assert.True(t, got.report.Overflow)
}

func TestRun_ContextGroups(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "a\nMATCH\nb\nc\nMATCH\nd\n",
		[]string{"MATCH"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{BeforeContext: 1, AfterContext: 1},
	)

	// The second group's before-context is the line immediately preceding
	// the second match, separated from the first group.
	assert.Equal(t, "a\nMATCH\nb\n--\nc\nMATCH\nd\n", got.out)
}

func TestRun_ContextSymmetry(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "1\n2\n3\nMATCH\n5\n6\n7\n",
		[]string{"MATCH"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{BeforeContext: 2, AfterContext: 2},
	)

	assert.Equal(t, "2\n3\nMATCH\n5\n6\n", got.out,
		"a lone match emits exactly B+1+A lines with no separator")
}

func TestRun_NoGroupSeparator(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "a\nMATCH\nc\nMATCH\n",
		[]string{"MATCH"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{BeforeContext: 1, NoGroupSeparator: true},
	)

	assert.Equal(t, "a\nMATCH\nc\nMATCH\n", got.out)
}

func TestRun_ContextLineSeparators(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "ctx\nMATCH\n",
		[]string{"MATCH"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{BeforeContext: 1, ShowLineNumbers: true},
	)

	// Context lines join fields with "-" where selected lines use ":".
	assert.Equal(t, "1-ctx\n2:MATCH\n", got.out)
}

func TestRun_InvertMatchWithoutSpans(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "no periods here\none. period\n",
		[]string{"."},
		match.Options{Dialect: match.DialectFixed, InvertMatch: true, CollectSpans: true},
		engine.Options{InvertMatch: true, Color: true},
	)

	// The selected line carries no highlighted spans.
	assert.Equal(t, "no periods here\n", got.out)
	assert.Equal(t, 1, got.report.MatchCount)
}

func TestRun_MaxCount(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "x\nx\nx\n",
		[]string{"x"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{MaxCount: 2},
	)

	assert.Equal(t, "x\nx\n", got.out)
	assert.Equal(t, 2, got.report.MatchCount)
}

func TestRun_OnlyMatching(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "foo bar foo\nnope\n",
		[]string{"foo"},
		match.Options{Dialect: match.DialectFixed, CollectSpans: true},
		engine.Options{OnlyMatching: true, ShowByteOffset: true},
	)

	// Each span becomes its own record with the span-adjusted byte offset.
	assert.Equal(t, "0:foo\n8:foo\n", got.out)
}

func TestRun_OnlyMatchingEmptyExpression(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "whole line\n",
		[]string{""},
		match.Options{Dialect: match.DialectBasic, CollectSpans: true},
		engine.Options{OnlyMatching: true},
	)

	assert.Equal(t, "whole line\n", got.out, "zero spans fall back to the whole line")
}

func TestRun_CountMode(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "x\ny\nx\n",
		[]string{"x"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{Mode: engine.ModeCount},
	)

	assert.Equal(t, "test:2\n", got.out)
}

func TestRun_FilesWithMatch(t *testing.T) {
	t.Parallel()

	matched := runEngine(t, "x\n", []string{"x"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{Mode: engine.ModeFilesWithMatch},
	)
	assert.Equal(t, "test\n", matched.out)

	unmatched := runEngine(t, "y\n", []string{"x"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{Mode: engine.ModeFilesWithMatch},
	)
	assert.Equal(t, "", unmatched.out)
}

func TestRun_FilesWithoutMatch(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "y\n", []string{"x"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{Mode: engine.ModeFilesWithoutMatch},
	)
	assert.Equal(t, "test\n", got.out)
}

func TestRun_BinarySkipFile(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "\x00\x01\x02\n", []string{"x"},
		match.Options{Dialect: match.DialectFixed},
		engine.Options{Binary: scan.BinarySkipFile},
	)

	assert.Equal(t, "", got.out)
	assert.True(t, got.report.Skipped)
}

func TestRun_MatchHighlighting(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "a foo b\n",
		[]string{"foo"},
		match.Options{Dialect: match.DialectFixed, CollectSpans: true},
		engine.Options{Color: true},
	)

	assert.Equal(t, "a \x1b[01;31mfoo\x1b[m b\n", got.out)
}

func TestRun_FieldColors(t *testing.T) {
	t.Parallel()

	got := runEngine(t, "a foo b\n",
		[]string{"foo"},
		match.Options{Dialect: match.DialectFixed, CollectSpans: true},
		engine.Options{Color: true, ShowLineNumbers: true},
	)

	// Line number wrapped in ln, separator in se, match span in ms.
	assert.Equal(t, "\x1b[32m1\x1b[m\x1b[36m:\x1b[ma \x1b[01;31mfoo\x1b[m b\n", got.out)
}

func TestRun_SelectedLineColor(t *testing.T) {
	t.Parallel()

	pal := engine.DefaultPalette()
	pal.SelectedLine = "33"

	got := runEngine(t, "a foo b\n",
		[]string{"foo"},
		match.Options{Dialect: match.DialectFixed, CollectSpans: true},
		engine.Options{Color: true, Palette: pal},
	)

	// The line-wide style yields to the match style over the span, then the
	// renderer reapplies it when the span closes.
	assert.Equal(t, "\x1b[33ma \x1b[33;01;31mfoo\x1b[0;33m b\x1b[m\n", got.out)
}

func TestRun_ReverseVideoSwapsLineColors(t *testing.T) {
	t.Parallel()

	pal := engine.DefaultPalette()
	pal.SelectedLine = "33"
	pal.ContextLine = "34"
	pal.Reverse = true

	got := runEngine(t, "keep\nskip word\n",
		[]string{"word"},
		match.Options{Dialect: match.DialectFixed, InvertMatch: true, CollectSpans: true},
		engine.Options{Color: true, InvertMatch: true, Palette: pal},
	)

	// With invert-match and rv set, selected lines take the context color.
	assert.Equal(t, "\x1b[34mkeep\x1b[m\n", got.out)
}

func TestRun_MatchContextColorUnderInvert(t *testing.T) {
	t.Parallel()

	pal := engine.DefaultPalette()
	pal.MatchContext = "45"

	// mt is unset, so inverted runs highlight with mc.
	got := runEngine(t, "aXb\n",
		[]string{"y"},
		match.Options{Dialect: match.DialectFixed, InvertMatch: true, CollectSpans: true},
		engine.Options{Color: true, InvertMatch: true},
	)
	assert.Equal(t, "aXb\n", got.out, "inverted matches have no spans to color")
	assert.Equal(t, 1, got.report.MatchCount)
}
