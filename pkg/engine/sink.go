package engine

import "io"

// Sink receives the engine's output. Lines and results share the normal
// output stream but are suppressed independently: per-line records go quiet
// in the file-list and count modes while per-file records survive them.
type Sink interface {
	// Line emits one per-line output record, newline-terminated.
	Line(s string)

	// Chunk emits raw text on the line stream with no added newline
	// (group separators carry their own terminator).
	Chunk(s string)

	// Result emits one per-file record (a count or a file name).
	Result(s string)

	// Info emits an informational notice (binary/overflow status).
	Info(s string)

	// Error emits a per-file error message.
	Error(s string)
}

// Flusher is implemented by buffered writers a WriterSink should flush in
// line-buffered mode.
type Flusher interface {
	Flush() error
}

// WriterSink writes engine output to a pair of writers with per-stream
// suppression flags.
type WriterSink struct {
	Out io.Writer
	Err io.Writer

	SuppressLines   bool
	SuppressResults bool
	SuppressInfo    bool
	SuppressErrors  bool

	// LineBuffered flushes Out after every emission when it implements
	// Flusher.
	LineBuffered bool
}

func (w *WriterSink) Line(s string) {
	if w.SuppressLines {
		return
	}
	w.write(s + "\n")
}

func (w *WriterSink) Chunk(s string) {
	if w.SuppressLines {
		return
	}
	w.write(s)
}

func (w *WriterSink) Result(s string) {
	if w.SuppressResults {
		return
	}
	w.write(s + "\n")
}

func (w *WriterSink) Info(s string) {
	if w.SuppressInfo {
		return
	}
	w.write(s + "\n")
}

func (w *WriterSink) Error(s string) {
	if w.SuppressErrors || w.Err == nil {
		return
	}
	io.WriteString(w.Err, s+"\n")
}

func (w *WriterSink) write(s string) {
	io.WriteString(w.Out, s)
	if w.LineBuffered {
		if f, ok := w.Out.(Flusher); ok {
			f.Flush()
		}
	}
}
