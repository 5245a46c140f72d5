package pdfdocx

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultScale is the zoom factor applied when rasterizing pages. PDF user
// space is 72 units per inch, so 2.0 renders at 144 DPI.
const DefaultScale = 2.0

// PageRef names one page of a source PDF.
type PageRef struct {
	Page int    `yaml:"page"` // 1-based page number
	Name string `yaml:"name"` // output file name without extension
}

// Source is a PDF and the pages to extract from it.
type Source struct {
	Path  string    `yaml:"path"`
	Label string    `yaml:"label"`
	Pages []PageRef `yaml:"pages"`
}

// Report summarises an extraction run.
type Report struct {
	Saved  []string // written PNG paths, in processing order
	Failed []string // names of pages that could not be written
	Err    error    // every failure combined; nil when all pages succeeded
}

// OK reports whether every page was written.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

type extractConfig struct {
	scale  float64
	status io.Writer
	logger *zap.Logger
}

// ExtractOption configures a [PageExtractor].
type ExtractOption func(*extractConfig)

// WithScale sets the rasterization zoom factor. Defaults to [DefaultScale].
func WithScale(scale float64) ExtractOption {
	return func(c *extractConfig) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

// WithStatus sets where one-line progress messages are printed. Defaults to
// [io.Discard].
func WithStatus(w io.Writer) ExtractOption {
	return func(c *extractConfig) {
		if w != nil {
			c.status = w
		}
	}
}

// WithExtractLogger sets the logger. Defaults to the zap global logger.
func WithExtractLogger(l *zap.Logger) ExtractOption {
	return func(c *extractConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// PageExtractor renders single PDF pages to PNG files in one output
// directory. Every page is handled independently: a failing page never
// prevents the next one from being written.
type PageExtractor struct {
	dir string
	cfg extractConfig
}

// NewPageExtractor returns an extractor writing into dir, creating it if
// needed.
func NewPageExtractor(dir string, opts ...ExtractOption) (*PageExtractor, error) {
	cfg := extractConfig{
		scale:  DefaultScale,
		status: io.Discard,
		logger: zap.L(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("pdfdocx: creating output directory: %w", err)
	}
	return &PageExtractor{dir: dir, cfg: cfg}, nil
}

// Dir returns the output directory.
func (e *PageExtractor) Dir() string {
	return e.dir
}

// Extract renders the 1-based page of pdfPath to <dir>/<name>.png and
// returns the written path. Existing files are overwritten.
func (e *PageExtractor) Extract(ctx context.Context, pdfPath string, page int, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("pdfdocx: opening %s: %w", pdfPath, err)
	}
	defer doc.Close()

	if n := doc.NumPage(); page < 1 || page > n {
		return "", fmt.Errorf("%w: page %d of %d in %s", ErrPageRange, page, n, pdfPath)
	}

	png, err := doc.ImagePNG(page-1, 72*e.cfg.scale)
	if err != nil {
		return "", fmt.Errorf("pdfdocx: rendering page %d: %w", page, err)
	}

	out := filepath.Join(e.dir, name+".png")
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return "", fmt.Errorf("pdfdocx: writing %s: %w", out, err)
	}
	e.cfg.logger.Debug("page rendered",
		zap.String("pdf", pdfPath),
		zap.Int("page", page),
		zap.Float64("dpi", 72*e.cfg.scale),
		zap.Int("bytes", len(png)),
	)
	return out, nil
}

// ExtractPage is the non-failing form of [PageExtractor.Extract]: it prints
// a success or failure line to the status writer and reports whether the
// PNG was written.
func (e *PageExtractor) ExtractPage(pdfPath string, page int, name string) bool {
	_, err := e.extractPage(context.Background(), pdfPath, page, name)
	return err == nil
}

// extractPage runs Extract and reports the outcome on the status writer.
func (e *PageExtractor) extractPage(ctx context.Context, pdfPath string, page int, name string) (string, error) {
	out, err := e.Extract(ctx, pdfPath, page, name)
	if err != nil {
		fmt.Fprintf(e.cfg.status, "✗ %s failed: %v\n", name, err)
		e.cfg.logger.Warn("page extraction failed", zap.String("name", name), zap.Error(err))
		return "", err
	}
	fmt.Fprintf(e.cfg.status, "✓ %s saved: %s\n", name, out)
	return out, nil
}

// Run extracts every page of every source in order. Failures are collected
// in the report and never stop the run; a cancelled ctx fails the remaining
// pages.
func (e *PageExtractor) Run(ctx context.Context, sources []Source) *Report {
	rep := &Report{}
	for i, src := range sources {
		label := src.Label
		if label == "" {
			label = filepath.Base(src.Path)
		}
		if i > 0 {
			fmt.Fprintln(e.cfg.status)
		}
		fmt.Fprintf(e.cfg.status, "Processing %s PDF: %s\n", label, src.Path)

		for _, ref := range src.Pages {
			out, err := e.extractPage(ctx, src.Path, ref.Page, ref.Name)
			if err != nil {
				rep.Failed = append(rep.Failed, ref.Name)
				rep.Err = multierr.Append(rep.Err, fmt.Errorf("%s: %w", ref.Name, err))
				continue
			}
			rep.Saved = append(rep.Saved, out)
		}
	}

	if rep.OK() {
		fmt.Fprintf(e.cfg.status, "\n✅ All images saved to %s\n", e.dir)
	} else {
		fmt.Fprintf(e.cfg.status, "\n%d of %d pages saved to %s\n",
			len(rep.Saved), len(rep.Saved)+len(rep.Failed), e.dir)
	}
	e.cfg.logger.Info("extraction finished",
		zap.Int("saved", len(rep.Saved)),
		zap.Int("failed", len(rep.Failed)),
	)
	return rep
}
