package match

import "fmt"

// Dialect selects which pattern syntax governs expression compilation.
type Dialect int

const (
	// DialectFixed treats expressions as literal strings.
	DialectFixed Dialect = iota

	// DialectBasic is "basic" regular expression syntax, where the escaped
	// and unescaped forms of ? + { } | ( ) are swapped relative to extended.
	DialectBasic

	// DialectExtended is "extended" regular expression syntax, passed to
	// the regexp engine unchanged.
	DialectExtended

	// DialectPerl is Perl-compatible syntax, evaluated by a backtracking
	// engine that supports constructs RE2 rejects.
	DialectPerl
)

// String implements fmt.Stringer.
func (d Dialect) String() string {
	switch d {
	case DialectFixed:
		return "fixed-strings"
	case DialectBasic:
		return "basic-regexp"
	case DialectExtended:
		return "extended-regexp"
	case DialectPerl:
		return "perl-regexp"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}
