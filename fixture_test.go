package pdfdocx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// buildTestPDF returns a minimal Letter-sized PDF with one line of text per
// page and a correct cross-reference table.
func buildTestPDF(pages int) []byte {
	var (
		buf     bytes.Buffer
		offsets []int
	)
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// 1: catalog, 2: page tree, 3: font, then a page and its content per page.
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf(" %d 0 R", 4+i*2)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s ] /Count %d >>", kids, pages))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i := 0; i < pages; i++ {
		content := fmt.Sprintf("BT /F1 24 Tf 72 700 Td (Page %d) Tj ET", i+1)
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R "+
			"/Resources << /Font << /F1 3 0 R >> >> >>", 5+i*2))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// writeTestPDF stores a generated PDF in a temp directory and returns its path.
func writeTestPDF(t *testing.T, pages int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.pdf")
	if err := os.WriteFile(path, buildTestPDF(pages), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
