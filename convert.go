package pdfdocx

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/porticus-lab/go-pdf-docx/docx"
	"github.com/porticus-lab/go-pdf-docx/internal/htmlconv"
)

// ConvertHTML converts HTML markup directly to a Word document: headings,
// paragraphs, lists, tables and images become their Word counterparts.
// Relative image sources resolve against baseDir. If pg is nil,
// [DefaultPageConfig] values are used.
func ConvertHTML(html []byte, baseDir string, pg *PageConfig) (*Result, error) {
	d := docx.New(pg.docxOptions()...)
	if err := htmlconv.Convert(d, html, htmlconv.Options{
		BaseDir:       baseDir,
		MaxImageWidth: docx.Inches(pg.textWidth()),
		Logger:        zap.L(),
	}); err != nil {
		return nil, fmt.Errorf("pdfdocx: %w", err)
	}
	return newResult(d)
}

// ConvertHTMLFile reads the UTF-8 HTML file at path and converts it with
// [ConvertHTML], resolving images relative to the file.
func ConvertHTMLFile(path string, pg *PageConfig) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: resolving path: %w", err)
	}
	return ConvertHTML(data, filepath.Dir(abs), pg)
}
