package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter writes JSON output. A single record is written as an object,
// anything else as an array.
type JSONWriter struct {
	w       *bufio.Writer
	pretty  bool
	indent  string
	records []Record
	flushed bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:       bufio.NewWriter(w),
		pretty:  pretty,
		indent:  indent,
		records: make([]Record, 0),
	}
}

// Write buffers a single record.
func (w *JSONWriter) Write(rec Record) error {
	w.records = append(w.records, rec)
	return nil
}

// Flush writes the buffered records and resets the buffer.
func (w *JSONWriter) Flush() error {
	enc := newEncoder(w.w)
	if w.pretty {
		enc.SetIndent("", w.indent)
	}

	var err error
	if len(w.records) == 1 {
		err = enc.Encode(w.records[0])
	} else {
		err = enc.Encode(w.records)
	}
	if err != nil {
		return err
	}

	w.records = w.records[:0]
	w.flushed = true
	return w.w.Flush()
}

// Close writes anything still buffered. It writes nothing if every record
// has already been flushed.
func (w *JSONWriter) Close() error {
	if w.flushed && len(w.records) == 0 {
		return w.w.Flush()
	}
	return w.Flush()
}

// JSONLWriter writes newline-delimited JSON (JSONL).
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{
		w:   bw,
		enc: newEncoder(bw),
	}
}

// Write writes a single record as a JSON line.
func (w *JSONLWriter) Write(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return err
	}
	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}

// newEncoder returns an encoder that leaves <, > and & alone. Cleaned text
// routinely contains them.
func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}
