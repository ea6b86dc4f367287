// Package match compiles user search expressions into a matchable form and
// evaluates them against single lines, producing match spans for
// highlighting and only-matching extraction.
package match

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Span is a half-open byte range [Start, End) within a line.
type Span struct {
	Start int
	End   int
}

// MatchResult reports whether a line matched (after invert-match) and the
// spans every expression contributed. Spans are unused by callers when the
// result was inverted.
type MatchResult struct {
	Matched bool
	Spans   []Span
}

// Options holds the global flags that shape compilation and evaluation.
type Options struct {
	Dialect     Dialect
	IgnoreCase  bool
	WordRegexp  bool
	LineRegexp  bool
	InvertMatch bool

	// CollectSpans keeps evaluating all expressions and occurrences so
	// every span is recorded; when false, evaluation short-circuits on the
	// first matching expression.
	CollectSpans bool
}

// expression is one compiled expression. Exactly one of literal, re, or p2
// drives evaluation, unless the transformed pattern came out empty, which
// matches every line trivially.
type expression struct {
	empty   bool
	literal []byte
	re      *regexp.Regexp
	p2      *regexp2.Regexp
}

// ExpressionSet is an immutable compiled set of expressions. Compile once
// per run; Evaluate per line.
type ExpressionSet struct {
	opts      Options
	exprs     []expression
	fixedFold bool
}

// basicInvertChars are the metacharacters whose escaping basic dialect
// inverts relative to extended.
const basicInvertChars = "?+{}|()"

// Compile builds an ExpressionSet from raw user expressions. Compilation
// failures are configuration errors and fatal to the run.
func Compile(raws []string, opts Options) (*ExpressionSet, error) {
	set := &ExpressionSet{
		opts:      opts,
		exprs:     make([]expression, 0, len(raws)),
		fixedFold: opts.Dialect == DialectFixed && opts.IgnoreCase && !opts.WordRegexp && !opts.LineRegexp,
	}

	for _, raw := range raws {
		expr, err := compileOne(raw, opts)
		if err != nil {
			return nil, fmt.Errorf("compile expression %q: %w", raw, err)
		}
		set.exprs = append(set.exprs, expr)
	}
	return set, nil
}

func compileOne(raw string, opts Options) (expression, error) {
	pattern := raw
	fixed := opts.Dialect == DialectFixed

	switch opts.Dialect {
	case DialectFixed:
		if opts.IgnoreCase {
			pattern = strings.ToLower(pattern)
		}
	case DialectBasic:
		pattern = invertEscape(pattern, basicInvertChars)
	case DialectExtended, DialectPerl:
	}

	// Anchoring forces regex evaluation even for fixed strings.
	switch {
	case opts.WordRegexp:
		if fixed {
			pattern = `\b` + regexp.QuoteMeta(pattern) + `\b`
		} else {
			pattern = `\b` + pattern + `\b`
		}
	case opts.LineRegexp && fixed:
		pattern = regexp.QuoteMeta(pattern)
	}

	if pattern == "" {
		return expression{empty: true}, nil
	}

	if fixed && !opts.WordRegexp && !opts.LineRegexp {
		return expression{literal: []byte(pattern)}, nil
	}

	// Line-regexp requires a full match; Go has no fullmatch entry point,
	// so anchor the compiled pattern instead.
	if opts.LineRegexp {
		pattern = `\A(?:` + pattern + `)\z`
	}

	if opts.Dialect == DialectPerl {
		p2opts := regexp2.None
		if opts.IgnoreCase {
			p2opts |= regexp2.IgnoreCase
		}
		p2, err := regexp2.Compile(pattern, p2opts)
		if err != nil {
			return expression{}, err
		}
		return expression{p2: p2}, nil
	}

	if opts.IgnoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return expression{}, err
	}
	return expression{re: re}, nil
}

// invertEscape swaps the escaped and unescaped forms of each character in
// chars, transforming basic dialect syntax into extended (and vice versa).
func invertEscape(expr, chars string) string {
	for _, c := range chars {
		ch := string(c)
		esc := `\` + ch
		pieces := strings.Split(expr, esc)
		for i, piece := range pieces {
			pieces[i] = strings.ReplaceAll(piece, ch, esc)
		}
		expr = strings.Join(pieces, ch)
	}
	return expr
}

// Evaluate matches one line against every expression in the set.
func (s *ExpressionSet) Evaluate(line []byte) MatchResult {
	var res MatchResult

	target := line
	var offs []int
	if s.fixedFold {
		target, offs = foldLine(line)
	}

	for i := range s.exprs {
		if res.Matched && !s.opts.CollectSpans {
			break
		}
		expr := &s.exprs[i]

		switch {
		case expr.empty:
			// An empty expression matches the whole line with no span.
			res.Matched = true
		case expr.literal != nil:
			s.evalFixed(expr, target, offs, &res)
		case expr.p2 != nil:
			s.evalPerl(expr, line, &res)
		default:
			s.evalRegexp(expr, line, &res)
		}
	}

	if s.opts.InvertMatch {
		res.Matched = !res.Matched
	}
	return res
}

// evalFixed collects every non-overlapping occurrence of the literal. When
// offs is non-nil the target is a case-folded copy whose byte positions may
// differ from the original line; spans are mapped back through it.
func (s *ExpressionSet) evalFixed(expr *expression, target []byte, offs []int, res *MatchResult) {
	loc := bytes.Index(target, expr.literal)
	if loc < 0 {
		return
	}
	res.Matched = true
	if !s.opts.CollectSpans {
		return
	}
	for loc >= 0 {
		end := loc + len(expr.literal)
		sp := Span{Start: loc, End: end}
		if offs != nil {
			sp = Span{Start: offs[loc], End: offs[end]}
		}
		res.Spans = append(res.Spans, sp)
		next := bytes.Index(target[end:], expr.literal)
		if next < 0 {
			break
		}
		loc = end + next
	}
}

// evalRegexp collects matches from the RE2 engine. Line-anchored patterns
// contribute exactly one whole-match span.
func (s *ExpressionSet) evalRegexp(expr *expression, line []byte, res *MatchResult) {
	if s.opts.LineRegexp {
		if loc := expr.re.FindIndex(line); loc != nil {
			res.Matched = true
			res.Spans = append(res.Spans, Span{Start: loc[0], End: loc[1]})
		}
		return
	}
	for _, loc := range expr.re.FindAllIndex(line, -1) {
		res.Matched = true
		res.Spans = append(res.Spans, Span{Start: loc[0], End: loc[1]})
	}
}

// evalPerl collects matches from the backtracking engine. regexp2 reports
// rune positions, so spans are translated back to byte offsets.
func (s *ExpressionSet) evalPerl(expr *expression, line []byte, res *MatchResult) {
	text := string(line)
	offs := runeOffsets(text)

	m, err := expr.p2.FindStringMatch(text)
	for err == nil && m != nil {
		res.Matched = true
		start := m.Index
		end := start + m.Length
		if start >= 0 && end < len(offs) {
			res.Spans = append(res.Spans, Span{Start: offs[start], End: offs[end]})
		}
		if s.opts.LineRegexp {
			break
		}
		m, err = expr.p2.FindNextMatch(m)
	}
}

// runeOffsets maps rune index -> byte offset for a string, with a final
// entry for the end of the string.
func runeOffsets(s string) []int {
	offs := make([]int, 0, len(s)+1)
	for i := range s {
		offs = append(offs, i)
	}
	return append(offs, len(s))
}

// foldLine lowercases the line rune by rune, the same fold applied to fixed
// patterns at compile time, and records the original byte offset each folded
// byte came from (with an end sentinel) so spans found in the folded copy
// translate back to the original line. Bytes that are not valid UTF-8 pass
// through untouched.
func foldLine(line []byte) ([]byte, []int) {
	folded := make([]byte, 0, len(line))
	offs := make([]int, 0, len(line)+1)
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRune(line[i:])
		if r == utf8.RuneError && size == 1 {
			folded = append(folded, line[i])
			offs = append(offs, i)
			i++
			continue
		}
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], unicode.ToLower(r))
		for j := 0; j < n; j++ {
			folded = append(folded, buf[j])
			offs = append(offs, i)
		}
		i += size
	}
	return folded, append(offs, len(line))
}
