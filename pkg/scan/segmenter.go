// Package scan segments raw byte streams into logical lines. The segmenter
// reads byte-at-a-time against a configurable multi-byte terminator, caps
// returned content at a fixed byte limit with overflow detection, and
// classifies each line as text or binary under a configurable policy.
package scan

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-enry/go-enry/v2"
)

// LineByteLimit caps the content returned for a single line (128 KiB). A
// line at this size is not human-parsable anyway; bytes past the cap are
// consumed for offset accounting but not returned.
const LineByteLimit = 128 * 1024

// ErrBinaryFile signals that binary content was detected under
// BinarySkipFile policy: the remainder of the current file must not be
// scanned.
var ErrBinaryFile = errors.New("binary file detected")

// BinaryMode selects how content that fails strict decoding is handled.
type BinaryMode int

const (
	// BinaryReportErrors keeps the raw bytes as an opaque text surrogate
	// and flags the line, so the engine can report "binary file matches".
	BinaryReportErrors BinaryMode = iota

	// BinaryIgnoreDecodeErrors silently drops undecodable bytes and treats
	// every line as text.
	BinaryIgnoreDecodeErrors

	// BinarySkipFile aborts the remainder of the file on the first binary
	// line.
	BinarySkipFile
)

// Config controls segmentation behavior.
type Config struct {
	// Terminator is the byte sequence ending each line. Empty means "\n".
	Terminator []byte

	// StripCR removes a trailing CR when the terminator begins with LF.
	StripCR bool

	// Binary selects the decode policy.
	Binary BinaryMode

	// Limit overrides LineByteLimit when positive (tests only).
	Limit int
}

// Segmenter yields logical lines from a ByteSource.
type Segmenter struct {
	src     ByteSource
	term    []byte
	stripCR bool
	binary  BinaryMode
	limit   int

	offset  int64
	number  int
	eof     bool
	sniffed bool
}

// NewSegmenter creates a Segmenter over src.
func NewSegmenter(src ByteSource, cfg Config) *Segmenter {
	term := cfg.Terminator
	if len(term) == 0 {
		term = []byte("\n")
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = LineByteLimit
	}
	return &Segmenter{
		src:     src,
		term:    term,
		stripCR: cfg.StripCR,
		binary:  cfg.Binary,
		limit:   limit,
	}
}

// Next returns the next logical line, io.EOF once the source is exhausted
// with no pending content, or ErrBinaryFile under BinarySkipFile policy.
func (s *Segmenter) Next() (*LineRecord, error) {
	if s.eof {
		return nil, io.EOF
	}

	var content []byte
	tail := make([]byte, 0, len(s.term))
	consumed := 0

	for {
		b, err := s.src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.eof = true
				break
			}
			return nil, err
		}
		consumed++
		if len(content) < s.limit {
			content = append(content, b)
		}
		tail = append(tail, b)
		if len(tail) > len(s.term) {
			tail = tail[1:]
		}
		if bytes.Equal(tail, s.term) {
			break
		}
	}

	if consumed == 0 {
		return nil, io.EOF
	}

	rec := &LineRecord{
		Number:     s.number + 1,
		ByteOffset: s.offset,
		Consumed:   consumed,
		EOF:        s.eof,
	}
	s.number++
	s.offset += int64(consumed)

	// A returned line that does not end in its terminator either overflowed
	// the cap or hit true EOF; only the former is an overflow.
	if bytes.HasSuffix(content, s.term) {
		content = content[:len(content)-len(s.term)]
	} else {
		rec.Overflow = !s.eof
	}

	if s.term[0] == '\n' && s.stripCR && bytes.HasSuffix(content, []byte("\r")) {
		content = content[:len(content)-1]
	}
	rec.Raw = content

	if err := s.decode(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// decode fills in Text and Binary according to the configured policy.
func (s *Segmenter) decode(rec *LineRecord) error {
	switch s.binary {
	case BinaryIgnoreDecodeErrors:
		rec.Text = strings.ToValidUTF8(string(rec.Raw), "")
	case BinarySkipFile:
		if !s.sniffed {
			s.sniffed = true
			if enry.IsBinary(rec.Raw) {
				return ErrBinaryFile
			}
		}
		if !utf8.Valid(rec.Raw) {
			return ErrBinaryFile
		}
		rec.Text = string(rec.Raw)
	case BinaryReportErrors:
		if !utf8.Valid(rec.Raw) {
			rec.Binary = true
		}
		rec.Text = string(rec.Raw)
	}
	return nil
}
