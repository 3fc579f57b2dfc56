package output

import (
	"bufio"
	"io"
)

// TextWriter writes only the cleaned text of each record, one per line.
// Consecutive records are separated by a blank line.
type TextWriter struct {
	w       *bufio.Writer
	written int
}

// NewTextWriter creates a plain text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes the cleaned text of rec.
func (w *TextWriter) Write(rec Record) error {
	if w.written > 0 {
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	w.written++

	if _, err := w.w.WriteString(rec.Clean); err != nil {
		return err
	}
	if rec.Clean == "" {
		return nil
	}
	return w.w.WriteByte('\n')
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
