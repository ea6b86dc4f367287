package scan

import (
	"bufio"
	"io"
	"os"
)

// ByteSource is the byte stream a Segmenter consumes: single-byte reads
// until io.EOF, plus a display name for messages and output records.
type ByteSource interface {
	io.ByteReader
	Name() string
}

// FileSource is a ByteSource backed by a file. Reads go through a buffered
// reader so the byte-at-a-time segmentation loop does not hit the OS per
// byte.
type FileSource struct {
	name string
	f    *os.File
	br   *bufio.Reader
}

// OpenFile opens path for reading as a ByteSource.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{name: path, f: f, br: bufio.NewReader(f)}, nil
}

// ReadByte implements io.ByteReader.
func (s *FileSource) ReadByte() (byte, error) {
	return s.br.ReadByte()
}

// Name returns the path the source was opened with.
func (s *FileSource) Name() string {
	return s.name
}

// Close closes the underlying file.
func (s *FileSource) Close() error {
	return s.f.Close()
}

// ReaderSource adapts an arbitrary io.Reader (typically stdin) as a
// ByteSource with a display label.
type ReaderSource struct {
	label string
	br    *bufio.Reader
}

// NewReaderSource wraps r with the given display label.
func NewReaderSource(r io.Reader, label string) *ReaderSource {
	return &ReaderSource{label: label, br: bufio.NewReader(r)}
}

// ReadByte implements io.ByteReader.
func (s *ReaderSource) ReadByte() (byte, error) {
	return s.br.ReadByte()
}

// Name returns the display label.
func (s *ReaderSource) Name() string {
	return s.label
}
