package engine

import "github.com/yaklabco/grepl/pkg/scan"

// Mode selects what the engine emits per file.
type Mode int

const (
	// ModeLines emits every selected line (plus requested context).
	ModeLines Mode = iota

	// ModeFilesWithMatch emits only the names of files with a match.
	ModeFilesWithMatch

	// ModeFilesWithoutMatch emits only the names of files without a match.
	ModeFilesWithoutMatch

	// ModeCount emits one match count per file.
	ModeCount
)

// String names the mode for logs and error messages.
func (m Mode) String() string {
	switch m {
	case ModeFilesWithMatch:
		return "files-with-match"
	case ModeFilesWithoutMatch:
		return "files-without-match"
	case ModeCount:
		return "count"
	default:
		return "lines"
	}
}

// Separators holds the strings joining output fields. Selected lines and
// context lines carry distinct separator sets, and a run-level group
// separator splits non-adjacent context groups.
type Separators struct {
	Result   string // between metadata and the line on selected lines
	NameNum  string // between file name and line number on selected lines
	NameByte string // between line number and byte offset on selected lines

	ContextResult   string
	ContextNameNum  string
	ContextNameByte string

	Group string
}

// DefaultSeparators returns the conventional ":" / "-" / "--" separator set.
func DefaultSeparators() Separators {
	return Separators{
		Result:          ":",
		NameNum:         ":",
		NameByte:        ":",
		ContextResult:   "-",
		ContextNameNum:  "-",
		ContextNameByte: "-",
		Group:           "--",
	}
}

type separatorSet struct {
	result   string
	nameNum  string
	nameByte string
}

func (s Separators) selected() separatorSet {
	return separatorSet{s.Result, s.NameNum, s.NameByte}
}

func (s Separators) context() separatorSet {
	return separatorSet{s.ContextResult, s.ContextNameNum, s.ContextNameByte}
}

// Options configures an Engine for one run. The zero value is usable with
// DefaultSeparators and DefaultPalette filled in by the caller.
type Options struct {
	Palette Palette

	// Color enables ANSI styling of matches, lines, and metadata fields.
	Color bool

	// InvertMatch selects the palette's context-side colors for matches.
	InvertMatch bool

	ShowFileName    bool
	ShowLineNumbers bool
	ShowByteOffset  bool

	// OnlyMatching emits each match span as its own record and forces the
	// context window to zero.
	OnlyMatching bool

	Mode Mode

	BeforeContext int
	AfterContext  int

	// MaxCount stops scanning a file after this many matching lines; zero or
	// negative means unlimited.
	MaxCount int

	Separators Separators

	// NoGroupSeparator drops the separator between context groups entirely.
	NoGroupSeparator bool

	// Terminator, StripCR, Binary, and Limit are passed to the segmenter.
	// ModeCount overrides Binary with the permissive decode policy.
	Terminator []byte
	StripCR    bool
	Binary     scan.BinaryMode
	Limit      int
}
