package scan

// LineRecord is one logical line pulled from a ByteSource, with the metadata
// the scanning engine needs to format and account for it.
type LineRecord struct {
	// Raw is the line content with the terminator (and optionally a trailing
	// CR) stripped, capped at the segmenter's byte limit.
	Raw []byte

	// Text is the decoded line. When Binary is set it carries the raw bytes
	// verbatim as an opaque surrogate.
	Text string

	// Binary reports that the line failed strict decoding.
	Binary bool

	// Number is the 1-based line number within the source.
	Number int

	// ByteOffset is the cumulative byte offset of the line start.
	ByteOffset int64

	// Consumed is the total number of bytes this line consumed from the
	// source, including the terminator and any bytes beyond the cap.
	Consumed int

	// Overflow is set when the line's raw bytes did not end in the
	// terminator while the source was not yet exhausted.
	Overflow bool

	// EOF is set when the source was exhausted while reading this line.
	EOF bool
}
