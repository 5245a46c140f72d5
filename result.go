package pdfdocx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/porticus-lab/go-pdf-docx/docx"
)

// Result holds a generated Word document and provides helpers for common
// outputs such as raw bytes, streaming readers and files on disk.
//
// A Result is returned by every document pipeline. Its methods may be called
// any number of times; the underlying data is never modified.
type Result struct {
	data  []byte
	stats docx.Stats
	shots []string
}

// newResult serializes d.
func newResult(d *docx.Document) (*Result, error) {
	data, err := d.Bytes()
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: serializing document: %w", err)
	}
	return &Result{data: data, stats: d.Stats()}, nil
}

// Bytes returns the raw .docx content.
func (r *Result) Bytes() []byte {
	return r.data
}

// Base64 returns the .docx content encoded as standard base64 (RFC 4648).
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.data)
}

// Reader returns an [*bytes.Reader] over the .docx content.
func (r *Result) Reader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// WriteTo writes the full .docx content to w. It implements [io.WriterTo].
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// WriteToFile writes the document to path, creating parent directories and
// replacing any existing file.
func (r *Result) WriteToFile(path string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("pdfdocx: creating output directory: %w", err)
	}
	return os.WriteFile(path, r.data, perm)
}

// Len returns the size of the .docx in bytes.
func (r *Result) Len() int {
	return len(r.data)
}

// Stats returns the element counts of the generated document.
func (r *Result) Stats() docx.Stats {
	return r.stats
}

// Shots returns the screenshot files a capture produced, in page order.
// It is empty for pipelines that do not capture.
func (r *Result) Shots() []string {
	return r.shots
}
