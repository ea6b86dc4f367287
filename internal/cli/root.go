// Package cli provides the Cobra command structure for grepl.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/grepl/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// searchFlags collects every flag of the root command.
type searchFlags struct {
	// Expression selection.
	extendedRegexp bool
	fixedStrings   bool
	basicRegexp    bool
	perlRegexp     bool
	expressions    []string
	expressionFile []string

	// Matching behavior.
	ignoreCase   bool
	noIgnoreCase bool
	wordRegexp   bool
	lineRegexp   bool
	invertMatch  bool
	maxCount     int

	// Line handling.
	nullData       bool
	lineTerminator string
	binary         bool

	// Output fields.
	byteOffset   bool
	lineNumber   bool
	withFilename bool
	noFilename   bool
	label        string
	initialTab   bool

	// Output modes.
	onlyMatching      bool
	quiet             bool
	count             bool
	filesWithMatches  bool
	filesWithoutMatch bool

	// Context.
	beforeContext int
	afterContext  int
	context       int

	// Separators.
	groupSeparator     string
	noGroupSeparator   bool
	null               bool
	resultSep          string
	nameNumSep         string
	nameByteSep        string
	contextGroupSep    string
	contextResultSep   string
	contextNameNumSep  string
	contextNameByteSep string

	// Binary files.
	binaryFiles  string
	text         bool
	ignoreBinary bool

	// Directories and filters.
	directories          string
	recursive            bool
	dereferenceRecursive bool
	include              []string
	exclude              []string
	excludeFrom          []string
	excludeDir           []string

	// Messages.
	noMessages   bool
	lineBuffered bool
}

// NewRootCommand creates the root grepl command.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string
	flags := &searchFlags{}

	rootCmd := &cobra.Command{
		Use:   "grepl [flags] EXPRESSION [file...]",
		Short: "Search files for lines matching an expression",
		Long: `grepl searches the named input files (or standard input) for lines
matching one or more expressions and prints each selected line.

Expressions are basic regular expressions by default; -E, -F, and -P
select extended, fixed-string, and Perl-compatible syntax. Matches are
highlighted when color output is enabled, honoring GREP_COLORS.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, flags, color)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().Lookup("color").NoOptDefVal = "always"

	addSearchFlags(rootCmd, flags)

	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

func addSearchFlags(cmd *cobra.Command, flags *searchFlags) {
	f := cmd.Flags()

	f.BoolVarP(&flags.extendedRegexp, "extended-regexp", "E", false, "expressions are extended regular expressions")
	f.BoolVarP(&flags.fixedStrings, "fixed-strings", "F", false, "expressions are literal strings")
	f.BoolVarP(&flags.basicRegexp, "basic-regexp", "G", false, "expressions are basic regular expressions (default)")
	f.BoolVarP(&flags.perlRegexp, "perl-regexp", "P", false, "expressions are Perl-compatible regular expressions")
	f.StringArrayVarP(&flags.expressions, "regexp", "e", nil, "expression to search for; may be repeated")
	f.StringArrayVarP(&flags.expressionFile, "file", "f", nil, "read expressions from file, one per line")

	f.BoolVarP(&flags.ignoreCase, "ignore-case", "i", false, "ignore case distinctions")
	f.BoolVar(&flags.noIgnoreCase, "no-ignore-case", false, "cancel a previous --ignore-case")
	f.BoolVarP(&flags.wordRegexp, "word-regexp", "w", false, "match only whole words")
	f.BoolVarP(&flags.lineRegexp, "line-regexp", "x", false, "match only whole lines")
	f.BoolVarP(&flags.invertMatch, "invert-match", "v", false, "select non-matching lines")
	f.IntVarP(&flags.maxCount, "max-count", "m", 0, "stop after NUM matching lines per file (0 = unlimited)")

	f.BoolVarP(&flags.nullData, "null-data", "z", false, "lines end in a zero byte, not newline")
	f.StringVar(&flags.lineTerminator, "end", "", "line terminator sequence (supports escapes like \\r\\n)")
	f.BoolVarP(&flags.binary, "binary", "U", false, "do not strip CR characters at end of lines")

	f.BoolVarP(&flags.byteOffset, "byte-offset", "b", false, "print the byte offset with output lines")
	f.BoolVarP(&flags.lineNumber, "line-number", "n", false, "print line number with output lines")
	f.BoolVarP(&flags.withFilename, "with-filename", "H", false, "print file name with output lines")
	f.BoolVar(&flags.noFilename, "no-filename", false, "suppress the file name prefix on output")
	f.StringVar(&flags.label, "label", "", "use LABEL as the standard input file name")
	f.BoolVarP(&flags.initialTab, "initial-tab", "T", false, "insert a tab before the line content")

	f.BoolVarP(&flags.onlyMatching, "only-matching", "o", false, "print only the matched parts of lines")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress all normal output")
	f.BoolVarP(&flags.count, "count", "c", false, "print only a count of selected lines per file")
	f.BoolVarP(&flags.filesWithMatches, "files-with-matches", "l", false, "print only names of files with selected lines")
	f.BoolVarP(&flags.filesWithoutMatch, "files-without-match", "L", false, "print only names of files without selected lines")

	f.IntVarP(&flags.beforeContext, "before-context", "B", 0, "print NUM lines of leading context")
	f.IntVarP(&flags.afterContext, "after-context", "A", 0, "print NUM lines of trailing context")
	f.IntVarP(&flags.context, "context", "C", 0, "print NUM lines of leading and trailing context")

	f.StringVar(&flags.groupSeparator, "group-separator", "--", "separator between context groups")
	f.BoolVar(&flags.noGroupSeparator, "no-group-separator", false, "do not separate context groups")
	f.BoolVarP(&flags.null, "null", "Z", false, "append a zero byte to the result separator")
	f.StringVar(&flags.resultSep, "result-sep", ":", "separator between metadata and matching line content")
	f.StringVar(&flags.nameNumSep, "name-num-sep", ":", "separator between file name and line number")
	f.StringVar(&flags.nameByteSep, "name-byte-sep", ":", "separator between line number and byte offset")
	f.StringVar(&flags.contextGroupSep, "context-group-sep", `--\n`, "separator between context groups")
	f.StringVar(&flags.contextResultSep, "context-result-sep", "-", "separator between metadata and context line content")
	f.StringVar(&flags.contextNameNumSep, "context-name-num-sep", "-", "separator between file name and line number on context lines")
	f.StringVar(&flags.contextNameByteSep, "context-name-byte-sep", "-", "separator between line number and byte offset on context lines")

	f.StringVar(&flags.binaryFiles, "binary-files", "binary", "how to handle binary files: binary, text, without-match")
	f.BoolVarP(&flags.text, "text", "a", false, "process binary files as text (same as --binary-files=text)")
	f.BoolVarP(&flags.ignoreBinary, "ignore-binary", "I", false, "skip binary files (same as --binary-files=without-match)")

	f.StringVarP(&flags.directories, "directories", "d", "read", "how to handle directories: read, recurse, skip")
	f.BoolVarP(&flags.recursive, "recursive", "r", false, "recurse into directories (same as -d recurse)")
	f.BoolVarP(&flags.dereferenceRecursive, "dereference-recursive", "R", false, "recurse into directories, following symlinks")
	f.StringArrayVar(&flags.include, "include", nil, "search only files whose name matches GLOB")
	f.StringArrayVar(&flags.exclude, "exclude", nil, "skip files whose name matches GLOB")
	f.StringArrayVar(&flags.excludeFrom, "exclude-from", nil, "read exclude globs from file")
	f.StringArrayVar(&flags.excludeDir, "exclude-dir", nil, "skip directories whose name matches GLOB")

	f.BoolVarP(&flags.noMessages, "no-messages", "s", false, "suppress messages about unreadable files")
	f.BoolVar(&flags.lineBuffered, "line-buffered", false, "flush output after every line")
}
