package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/grepl/internal/configloader"
	"github.com/yaklabco/grepl/internal/logging"
	"github.com/yaklabco/grepl/internal/ui/pretty"
	"github.com/yaklabco/grepl/pkg/engine"
	"github.com/yaklabco/grepl/pkg/match"
	"github.com/yaklabco/grepl/pkg/runner"
	"github.com/yaklabco/grepl/pkg/scan"
)

// ErrNoMatch signals a clean run that selected no lines. It carries exit
// status 1 and is never logged.
var ErrNoMatch = errors.New("no lines selected")

// ErrFileErrors signals that some inputs could not be read. The per-file
// messages were already written to the error stream.
var ErrFileErrors = errors.New("errors while reading input")

func runSearch(cmd *cobra.Command, args []string, flags *searchFlags, colorMode string) error {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(configloader.LoadOptions{ExplicitPath: configPath})
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}
	settings := loadResult.Settings
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	exprs, files, err := gatherExpressions(args, flags)
	if err != nil {
		return err
	}

	dialect, err := resolveDialect(flags)
	if err != nil {
		return err
	}

	mode := colorMode
	if !cmd.Flags().Changed("color") && settings.Color != "" {
		mode = settings.Color
	}
	colorEnabled := pretty.IsColorEnabled(mode, cmd.OutOrStdout())

	outMode := engine.ModeLines
	switch {
	case flags.filesWithoutMatch:
		outMode = engine.ModeFilesWithoutMatch
	case flags.filesWithMatches:
		outMode = engine.ModeFilesWithMatch
	case flags.count:
		outMode = engine.ModeCount
	}

	binMode, err := resolveBinaryMode(flags)
	if err != nil {
		return err
	}

	dirAction, err := resolveDirAction(flags)
	if err != nil {
		return err
	}

	// --no-ignore-case cancels an earlier -i, wherever either came from.
	ignoreCase := flags.ignoreCase && !flags.noIgnoreCase

	set, err := match.Compile(exprs, match.Options{
		Dialect:      dialect,
		IgnoreCase:   ignoreCase,
		WordRegexp:   flags.wordRegexp,
		LineRegexp:   flags.lineRegexp,
		InvertMatch:  flags.invertMatch,
		CollectSpans: colorEnabled || flags.onlyMatching,
	})
	if err != nil {
		return err
	}

	before, after := flags.beforeContext, flags.afterContext
	if flags.context > 0 {
		if before == 0 {
			before = flags.context
		}
		if after == 0 {
			after = flags.context
		}
	}

	recursive := dirAction == runner.DirRecurse || dirAction == runner.DirRecurseLinks
	showName := len(files) > 1 || recursive
	if flags.withFilename {
		showName = true
	}
	if flags.noFilename {
		showName = false
	}

	terminator := []byte("\n")
	if flags.nullData {
		terminator = []byte{0}
	}
	if flags.lineTerminator != "" {
		terminator = []byte(unescapeArg(flags.lineTerminator))
	}

	seps := engine.Separators{
		Result:          unescapeArg(flags.resultSep),
		NameNum:         unescapeArg(flags.nameNumSep),
		NameByte:        unescapeArg(flags.nameByteSep),
		ContextResult:   unescapeArg(flags.contextResultSep),
		ContextNameNum:  unescapeArg(flags.contextNameNumSep),
		ContextNameByte: unescapeArg(flags.contextNameByteSep),
	}

	groupSep := flags.groupSeparator
	if !cmd.Flags().Changed("group-separator") && settings.GroupSeparator != nil {
		groupSep = *settings.GroupSeparator
	}
	seps.Group = unescapeArg(groupSep)
	if cmd.Flags().Changed("context-group-sep") {
		// The engine terminates the group separator itself, so a trailing
		// newline in the argument is dropped.
		seps.Group = strings.TrimSuffix(unescapeArg(flags.contextGroupSep), "\n")
	}

	if flags.initialTab {
		seps.Result += "\t"
		seps.NameNum += "\t"
		seps.NameByte += "\t"
		seps.ContextResult += "\t"
		seps.ContextNameNum += "\t"
		seps.ContextNameByte += "\t"
	}
	if flags.null {
		seps.Result += "\x00"
		seps.ContextResult += "\x00"
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	sink := &engine.WriterSink{
		Out:             out,
		Err:             cmd.ErrOrStderr(),
		SuppressLines:   flags.quiet || outMode != engine.ModeLines,
		SuppressResults: flags.quiet,
		SuppressInfo:    flags.quiet,
		SuppressErrors:  flags.noMessages,
		LineBuffered:    flags.lineBuffered,
	}

	eng := engine.New(engine.Options{
		Palette:          loadResult.Palette,
		Color:            colorEnabled,
		InvertMatch:      flags.invertMatch,
		ShowFileName:     showName,
		ShowLineNumbers:  flags.lineNumber,
		ShowByteOffset:   flags.byteOffset,
		OnlyMatching:     flags.onlyMatching,
		Mode:             outMode,
		BeforeContext:    before,
		AfterContext:     after,
		MaxCount:         flags.maxCount,
		Separators:       seps,
		NoGroupSeparator: flags.noGroupSeparator || seps.Group == "",
		Terminator:       terminator,
		StripCR:          !flags.binary,
		Binary:           binMode,
	}, set, sink)

	excludes, err := gatherExcludes(flags, settings)
	if err != nil {
		return err
	}

	run, err := runner.New(eng, sink, runner.Options{
		Paths:           files,
		Stdin:           cmd.InOrStdin(),
		Label:           flags.label,
		Directories:     dirAction,
		IncludeGlobs:    flags.include,
		ExcludeGlobs:    excludes,
		ExcludeDirGlobs: append(settings.ExcludeDir, flags.excludeDir...),
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	logger.Debug("starting search",
		logging.FieldDialect, dialect.String(),
		logging.FieldExpressions, len(exprs),
		logging.FieldIgnoreCase, ignoreCase,
		logging.FieldInvert, flags.invertMatch,
		logging.FieldMode, outMode.String(),
		logging.FieldBeforeContext, before,
		logging.FieldAfterContext, after,
		logging.FieldPaths, files,
		logging.FieldColor, colorEnabled,
	)

	result, err := run.Run(ctx)
	if err != nil {
		return errors.Join(errors.New("search run failed"), err)
	}
	out.Flush()

	logger.Debug("search complete",
		logging.FieldFilesScanned, result.Stats.FilesScanned,
		logging.FieldFilesMatched, result.Stats.FilesMatched,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
	)

	switch ExitCodeFromResult(result, flags.quiet) {
	case ExitNoMatch:
		return ErrNoMatch
	case ExitError:
		return ErrFileErrors
	}
	return nil
}

// gatherExpressions resolves the expression list from -e, -f, and the first
// positional argument, returning the remaining arguments as file paths.
func gatherExpressions(args []string, flags *searchFlags) ([]string, []string, error) {
	exprs := append([]string(nil), flags.expressions...)

	for _, path := range flags.expressionFile {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read expression file: %w", err)
		}
		lines := strings.Split(string(content), "\n")
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		exprs = append(exprs, lines...)
	}

	if len(exprs) > 0 {
		return exprs, args, nil
	}
	if len(args) == 0 {
		return nil, nil, errors.New("an expression is required")
	}
	return args[:1], args[1:], nil
}

func resolveDialect(flags *searchFlags) (match.Dialect, error) {
	selected := 0
	dialect := match.DialectBasic
	if flags.basicRegexp {
		selected++
	}
	if flags.extendedRegexp {
		selected++
		dialect = match.DialectExtended
	}
	if flags.fixedStrings {
		selected++
		dialect = match.DialectFixed
	}
	if flags.perlRegexp {
		selected++
		dialect = match.DialectPerl
	}
	if selected > 1 {
		return 0, errors.New("only one of -E, -F, -G, -P may be given")
	}
	return dialect, nil
}

func resolveBinaryMode(flags *searchFlags) (scan.BinaryMode, error) {
	var mode scan.BinaryMode
	switch flags.binaryFiles {
	case "binary":
		mode = scan.BinaryReportErrors
	case "text":
		mode = scan.BinaryIgnoreDecodeErrors
	case "without-match":
		mode = scan.BinarySkipFile
	default:
		return 0, fmt.Errorf("invalid --binary-files value %q", flags.binaryFiles)
	}
	if flags.text {
		mode = scan.BinaryIgnoreDecodeErrors
	}
	if flags.ignoreBinary {
		mode = scan.BinarySkipFile
	}
	return mode, nil
}

func resolveDirAction(flags *searchFlags) (runner.DirAction, error) {
	var action runner.DirAction
	switch flags.directories {
	case "read":
		action = runner.DirRead
	case "recurse":
		action = runner.DirRecurse
	case "skip":
		action = runner.DirSkip
	default:
		return 0, fmt.Errorf("invalid --directories value %q", flags.directories)
	}
	if flags.recursive {
		action = runner.DirRecurse
	}
	if flags.dereferenceRecursive {
		action = runner.DirRecurseLinks
	}
	return action, nil
}

// gatherExcludes merges config defaults, --exclude flags, and the contents
// of every --exclude-from file.
func gatherExcludes(flags *searchFlags, settings configloader.Settings) ([]string, error) {
	excludes := append(append([]string(nil), settings.Exclude...), flags.exclude...)
	for _, path := range flags.excludeFrom {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read exclude file: %w", err)
		}
		for _, line := range strings.Split(string(content), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				excludes = append(excludes, line)
			}
		}
	}
	return excludes, nil
}

// unescapeArg interprets backslash escapes in separator and terminator
// arguments, so "--end \r\n" works from a shell. Arguments that fail to
// parse are used verbatim.
func unescapeArg(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	quoted := `"` + strings.ReplaceAll(expandNul(s), `"`, `\"`) + `"`
	unescaped, err := strconv.Unquote(quoted)
	if err != nil {
		return s
	}
	return unescaped
}

// expandNul rewrites the two-character escape \0 as \x00, which strconv
// understands. A \0 followed by an octal digit is left alone, as is the 0
// after an escaped backslash.
func expandNul(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(s) && s[i+1] == '0' && (i+2 >= len(s) || s[i+2] < '0' || s[i+2] > '7') {
			b.WriteString(`\x00`)
			i++
			continue
		}
		b.WriteByte(c)
		if i+1 < len(s) {
			i++
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
