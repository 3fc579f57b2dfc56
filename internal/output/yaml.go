package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes YAML output.
type YAMLWriter struct {
	w       *bufio.Writer
	records []Record
	flushed bool
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:       bufio.NewWriter(w),
		records: make([]Record, 0),
	}
}

// Write buffers a single record.
func (w *YAMLWriter) Write(rec Record) error {
	w.records = append(w.records, rec)
	return nil
}

// Flush writes the buffered records as YAML and resets the buffer.
func (w *YAMLWriter) Flush() error {
	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	var err error
	if len(w.records) == 1 {
		err = encoder.Encode(w.records[0])
	} else {
		err = encoder.Encode(w.records)
	}
	if err != nil {
		return err
	}

	if err := encoder.Close(); err != nil {
		return err
	}

	w.records = w.records[:0]
	w.flushed = true
	return w.w.Flush()
}

// Close writes anything still buffered. It writes nothing if every record
// has already been flushed.
func (w *YAMLWriter) Close() error {
	if w.flushed && len(w.records) == 0 {
		return w.w.Flush()
	}
	return w.Flush()
}
