// Package engine drives the per-file scan loop: it pulls logical lines from
// the segmenter, evaluates the compiled expression set against each one, and
// emits selected lines with their surrounding context, colors, and metadata
// fields in the configured output mode.
package engine

import (
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/grepl/pkg/ansi"
	"github.com/yaklabco/grepl/pkg/match"
	"github.com/yaklabco/grepl/pkg/scan"
)

// FileReport summarizes one scanned file for the caller's exit-status and
// aggregation logic.
type FileReport struct {
	Name       string
	Matched    bool
	MatchCount int

	// Binary and Overflow mirror the per-file status conditions.
	Binary   bool
	Overflow bool

	// Skipped reports that the file was abandoned as binary under the
	// skip-file policy.
	Skipped bool
}

// Engine scans files against a compiled expression set. One Engine serves a
// whole run; Run is called once per input file and keeps no state across
// calls.
type Engine struct {
	opts Options
	set  *match.ExpressionSet
	sink Sink

	matchCodes    string
	selectedCodes string
	contextCodes  string

	selTmpl *lineTemplate
	ctxTmpl *lineTemplate

	groupSep string
}

// New builds an Engine. Only-matching output forces the context window to
// zero, and count mode forces the permissive decode policy so undecodable
// content still gets counted.
func New(opts Options, set *match.ExpressionSet, sink Sink) *Engine {
	if opts.OnlyMatching {
		opts.BeforeContext = 0
		opts.AfterContext = 0
	}
	if opts.Mode == ModeCount {
		opts.Binary = scan.BinaryIgnoreDecodeErrors
	}

	e := &Engine{opts: opts, set: set, sink: sink}

	if opts.Color {
		pal := &opts.Palette
		e.matchCodes = pal.MatchText
		if e.matchCodes == "" {
			if opts.InvertMatch {
				e.matchCodes = pal.MatchContext
			} else {
				e.matchCodes = pal.MatchSelected
			}
		}
		e.selectedCodes, e.contextCodes = pal.SelectedLine, pal.ContextLine
		if pal.Reverse && opts.InvertMatch {
			e.selectedCodes, e.contextCodes = e.contextCodes, e.selectedCodes
		}
	}

	e.selTmpl = buildTemplate(&e.opts, opts.Color, true)
	e.ctxTmpl = buildTemplate(&e.opts, opts.Color, false)

	if !opts.NoGroupSeparator {
		e.groupSep = opts.Separators.Group
		if opts.Color {
			e.groupSep = styleText(e.groupSep, opts.Palette.Separator)
		}
	}
	return e
}

// bufferedLine is one unprinted line held for before-context, styled and
// ready to render.
type bufferedLine struct {
	text   *ansi.Text
	number int
	offset int64
}

type fileState struct {
	name string

	before []bufferedLine
	after  int

	matches  int
	binary   bool
	overflow bool
	eof      bool

	// printed tracks whether any line went out for this file, which decides
	// group separator emission.
	printed bool
}

// Run scans one source to completion and reports its outcome. I/O errors
// other than the binary-skip signal abort the file and surface to the
// caller.
func (e *Engine) Run(src scan.ByteSource) (FileReport, error) {
	rep := FileReport{Name: src.Name()}
	seg := scan.NewSegmenter(src, scan.Config{
		Terminator: e.opts.Terminator,
		StripCR:    e.opts.StripCR,
		Binary:     e.opts.Binary,
		Limit:      e.opts.Limit,
	})
	st := &fileState{name: src.Name()}

	for e.opts.MaxCount <= 0 || st.matches < e.opts.MaxCount {
		rec, err := seg.Next()
		if errors.Is(err, io.EOF) {
			st.eof = true
			break
		}
		if errors.Is(err, scan.ErrBinaryFile) {
			// Skip-file policy: abandon the file, including any pending
			// per-file records.
			e.fill(&rep, st)
			rep.Skipped = true
			return rep, nil
		}
		if err != nil {
			e.fill(&rep, st)
			return rep, err
		}
		e.processLine(st, rec)
	}

	if st.eof {
		e.emitStatus(st)
	}
	e.emitFileRecord(st)
	e.fill(&rep, st)
	return rep, nil
}

func (e *Engine) fill(rep *FileReport, st *fileState) {
	rep.Matched = st.matches > 0
	rep.MatchCount = st.matches
	rep.Binary = st.binary
	rep.Overflow = st.overflow
}

func (e *Engine) processLine(st *fileState, rec *scan.LineRecord) {
	if rec.Overflow {
		st.overflow = true
	}
	if rec.Binary {
		st.binary = true
	}

	// Matching runs over the decoded text so highlight spans line up with
	// what gets printed.
	res := e.set.Evaluate([]byte(rec.Text))
	if res.Matched {
		st.matches++
	}

	text := ansi.New(rec.Text)
	if e.opts.Color {
		if res.Matched && e.matchCodes != "" {
			for _, sp := range res.Spans {
				text.ApplyForSpan(e.matchCodes, sp.Start, sp.End)
			}
		}
		lineCodes := e.contextCodes
		if res.Matched {
			lineCodes = e.selectedCodes
		}
		if lineCodes != "" {
			text.Apply(lineCodes, 0, -1, false)
		}
	}

	printed := false
	if (res.Matched || st.after > 0) && !rec.Binary {
		e.flushBefore(st)
		e.emitLine(st, text, rec, res.Spans, res.Matched)
		if res.Matched {
			st.after = e.opts.AfterContext
		} else {
			st.after--
		}
		printed = true
	} else {
		// Any line that does not go out, binary lines included, ends the
		// trailing context window.
		st.after = 0
	}

	if !printed && e.opts.BeforeContext > 0 {
		st.before = append(st.before, bufferedLine{text, rec.Number, rec.ByteOffset})
		if len(st.before) > e.opts.BeforeContext {
			st.before = st.before[1:]
		}
	}
}

// flushBefore drains the pending before-context, prefixed by a group
// separator when something was already printed for this file.
func (e *Engine) flushBefore(st *fileState) {
	if len(st.before) == 0 {
		return
	}
	if st.printed && e.groupSep != "" {
		e.sink.Chunk(e.groupSep + "\n")
	}
	for _, b := range st.before {
		e.sink.Line(e.ctxTmpl.render(st.name, itoa(b.number), itoa64(b.offset), b.text.Render()))
		st.printed = true
	}
	st.before = st.before[:0]
}

func (e *Engine) emitLine(st *fileState, text *ansi.Text, rec *scan.LineRecord, spans []match.Span, matched bool) {
	tmpl := e.ctxTmpl
	if matched {
		tmpl = e.selTmpl
	}

	if e.opts.OnlyMatching && matched {
		if len(spans) == 0 {
			spans = []match.Span{{Start: 0, End: text.Len()}}
		}
		sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
		for _, sp := range spans {
			body := text.Slice(sp.Start, sp.End).Render()
			off := rec.ByteOffset + int64(sp.Start)
			e.sink.Line(tmpl.render(st.name, itoa(rec.Number), itoa64(off), body))
			st.printed = true
		}
		return
	}

	e.sink.Line(tmpl.render(st.name, itoa(rec.Number), itoa64(rec.ByteOffset), text.Render()))
	st.printed = true
}

// emitStatus reports binary and overflow conditions once per file, after the
// source is exhausted.
func (e *Engine) emitStatus(st *fileState) {
	if e.opts.Mode != ModeLines {
		return
	}
	var parts []string
	if st.binary && st.matches > 0 && e.opts.Binary == scan.BinaryReportErrors {
		parts = append(parts, "binary file matches")
	}
	if st.overflow {
		parts = append(parts, "line overflow detected")
	}
	if len(parts) > 0 {
		e.sink.Info(st.name + ": " + strings.Join(parts, " and "))
	}
}

func (e *Engine) emitFileRecord(st *fileState) {
	switch e.opts.Mode {
	case ModeFilesWithMatch:
		if st.matches > 0 {
			e.sink.Result(e.selTmpl.render(st.name, "", "", ""))
		}
	case ModeFilesWithoutMatch:
		if st.matches == 0 {
			e.sink.Result(e.selTmpl.render(st.name, "", "", ""))
		}
	case ModeCount:
		e.sink.Result(e.selTmpl.render(st.name, "", "", itoa(st.matches)))
	}
}

func itoa(v int) string { return strconv.Itoa(v) }

func itoa64(v int64) string { return strconv.FormatInt(v, 10) }
