package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gomutex/godocx/wml/ctypes"
)

// zipEpoch is stamped on every archive entry so output is reproducible.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// canonicalParts have their root attributes sorted before packaging; godocx
// emits them in map order.
var canonicalParts = map[string]bool{
	"word/document.xml": true,
	"word/styles.xml":   true,
}

var attrPattern = regexp.MustCompile(`\s+[^\s=]+="[^"]*"`)

// applySection writes page size and margins into the body's final sectPr.
func (d *Document) applySection() {
	body := d.root.Document.Body
	if body.SectPr == nil {
		body.SectPr = ctypes.NewSectionProper()
	}
	w := uint64(d.cfg.page.Width.twips())
	h := uint64(d.cfg.page.Height.twips())
	body.SectPr.PageSize = &ctypes.PageSize{Width: &w, Height: &h}

	m := d.cfg.margins
	top, right := m.Top.twips(), m.Right.twips()
	bottom, left := m.Bottom.twips(), m.Left.twips()
	header, footer, gutter := Inches(0.5).twips(), Inches(0.5).twips(), 0
	body.SectPr.PageMargin = &ctypes.PageMargin{
		Top: &top, Right: &right, Bottom: &bottom, Left: &left,
		Header: &header, Footer: &footer, Gutter: &gutter,
	}
}

// dedupeContentTypes drops the repeated Default entries godocx appends for
// every picture of the same extension.
func (d *Document) dedupeContentTypes() {
	ct := &d.root.ContentType
	seen := make(map[string]bool, len(ct.Default))
	out := ct.Default[:0]
	for _, def := range ct.Default {
		ext := strings.ToLower(def.Extension)
		if seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, def)
	}
	ct.Default = out
}

// WriteTo serializes the document as a .docx archive to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := d.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Save writes the document to path, creating parent directories as needed.
// An existing file is replaced.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("docx: creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("docx: writing %s: %w", path, err)
	}
	return nil
}

// Bytes serializes the document as a .docx archive.
func (d *Document) Bytes() ([]byte, error) {
	d.applySection()
	d.dedupeContentTypes()

	var raw bytes.Buffer
	if err := d.root.Write(&raw); err != nil {
		return nil, fmt.Errorf("docx: encoding package: %w", err)
	}
	return repack(raw.Bytes())
}

// repack rewrites a godocx archive with canonical root attributes and fixed
// entry timestamps, keeping entry order.
func repack(raw []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("docx: reading package: %w", err)
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		data, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		if canonicalParts[f.Name] {
			data = sortRootAttrs(data)
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		})
		if err != nil {
			return nil, fmt.Errorf("docx: creating %s: %w", f.Name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return nil, fmt.Errorf("docx: writing %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("docx: opening %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("docx: reading %s: %w", f.Name, err)
	}
	return data, nil
}

// sortRootAttrs orders the attributes of the root element's start tag by
// name. Parts without a recognisable root are returned unchanged.
func sortRootAttrs(data []byte) []byte {
	start := rootStart(data)
	if start < 0 {
		return data
	}
	end := bytes.IndexByte(data[start:], '>')
	if end < 0 {
		return data
	}
	end += start
	tag := data[start:end]
	selfClosing := bytes.HasSuffix(tag, []byte("/"))
	if selfClosing {
		tag = tag[:len(tag)-1]
	}
	nameEnd := bytes.IndexAny(tag, " \t\r\n")
	if nameEnd < 0 {
		return data
	}

	attrs := attrPattern.FindAll(tag[nameEnd:], -1)
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = strings.TrimSpace(string(a))
	}
	sort.Strings(parts)

	var out bytes.Buffer
	out.Write(data[:start])
	out.Write(tag[:nameEnd])
	for _, a := range parts {
		out.WriteByte(' ')
		out.WriteString(a)
	}
	if selfClosing {
		out.WriteByte('/')
	}
	out.Write(data[end:])
	return out.Bytes()
}

// rootStart returns the offset of the root element's name, just past its
// '<', or -1.
func rootStart(data []byte) int {
	for i := 0; i < len(data)-1; i++ {
		if data[i] != '<' {
			continue
		}
		switch data[i+1] {
		case '?', '!':
			continue
		}
		return i + 1
	}
	return -1
}
