package pdfdocx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/porticus-lab/go-pdf-docx/docx"
)

// Composer defaults.
const (
	DefaultFont        = "맑은 고딕"
	DefaultFontSize    = 10.0
	DefaultImageWidth  = 6.5
	DefaultPlaceholder = "[image missing: %s]"
)

// ComposerConfig configures a [Composer]. Zero fields use the defaults.
type ComposerConfig struct {
	// BaseDir resolves relative image paths. Empty means the working
	// directory.
	BaseDir string

	// Font and FontSize set the Normal style. Default to [DefaultFont] at
	// [DefaultFontSize] points.
	Font     string
	FontSize float64

	// ImageWidth is the picture width in inches when a block gives none.
	ImageWidth float64

	// Placeholder is the format of the paragraph that stands in for a missing
	// image; its single %s receives the relative path.
	Placeholder string

	// Page sets the section layout. Nil uses [DefaultPageConfig].
	Page *PageConfig

	// Logger defaults to the zap global logger.
	Logger *zap.Logger
}

// Composer lays out a report from titles, text boxes and extracted page
// images. Calls append to the document in order; nothing is reordered.
type Composer struct {
	cfg ComposerConfig
	doc *docx.Document
}

// NewComposer returns an empty Composer.
func NewComposer(cfg ComposerConfig) *Composer {
	if cfg.Font == "" {
		cfg.Font = DefaultFont
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = DefaultFontSize
	}
	if cfg.ImageWidth <= 0 {
		cfg.ImageWidth = DefaultImageWidth
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.L()
	}

	pg := cfg.Page.resolved()
	pg.Font, pg.FontSize = cfg.Font, cfg.FontSize
	return &Composer{cfg: cfg, doc: docx.New(pg.docxOptions()...)}
}

// Document exposes the document under construction.
func (c *Composer) Document() *docx.Document {
	return c.doc
}

// AddTitle appends a level 1 heading in 20pt bold with 12pt after.
func (c *Composer) AddTitle(text string) *docx.Paragraph {
	p := c.doc.AddHeading(text, 1)
	p.Runs()[0].SetSize(20).SetBold(true)
	return p.SetSpaceAfter(12)
}

// AddSubtitle appends a level 2 heading in 14pt bold with 12pt before and
// 6pt after.
func (c *Composer) AddSubtitle(text string) *docx.Paragraph {
	p := c.doc.AddHeading(text, 2)
	p.Runs()[0].SetSize(14).SetBold(true)
	return p.SetSpaceBefore(12).SetSpaceAfter(6)
}

// AddTextBox appends a bold 11pt label followed by one bullet per item,
// indented 0.3 inch with 3pt after.
func (c *Composer) AddTextBox(title string, items []string) {
	label := c.doc.AddParagraph("", "")
	label.AddRun(title).SetBold(true).SetSize(11)
	for _, it := range items {
		c.doc.AddBullet(it).SetLeftIndent(0.3).SetSpaceAfter(3)
	}
}

// AddImage appends the image at rel (relative to the base directory),
// centered with 12pt after. A non-positive width uses the configured
// default. When the file does not exist a placeholder paragraph naming rel
// is written instead and AddImage reports false.
func (c *Composer) AddImage(rel string, width float64) (bool, error) {
	if width <= 0 {
		width = c.cfg.ImageWidth
	}
	full := rel
	if !filepath.IsAbs(full) {
		full = filepath.Join(c.cfg.BaseDir, filepath.FromSlash(rel))
	}

	if _, err := os.Stat(full); errors.Is(err, fs.ErrNotExist) {
		c.doc.AddParagraph(fmt.Sprintf(c.cfg.Placeholder, rel), "")
		c.cfg.Logger.Warn("image not found, placeholder written", zap.String("path", full))
		return false, nil
	}

	p, err := c.doc.AddPicture(full, docx.Inches(width))
	if err != nil {
		return false, fmt.Errorf("pdfdocx: adding image %s: %w", rel, err)
	}
	p.SetAlignment(docx.AlignCenter).SetSpaceAfter(12)
	return true, nil
}

// AddSpacer appends an empty paragraph.
func (c *Composer) AddSpacer() {
	c.doc.AddParagraph("", "")
}

// AddPageBreak starts a new page.
func (c *Composer) AddPageBreak() {
	c.doc.AddPageBreak()
}

// Apply replays blocks in order.
func (c *Composer) Apply(blocks []Block) error {
	for i, b := range blocks {
		switch {
		case b.Title != "":
			c.AddTitle(b.Title)
		case b.Subtitle != "":
			c.AddSubtitle(b.Subtitle)
		case b.Box != nil:
			c.AddTextBox(b.Box.Title, b.Box.Items)
		case b.Image != "":
			if _, err := c.AddImage(b.Image, b.Width); err != nil {
				return err
			}
		case b.Spacer:
			c.AddSpacer()
		case b.PageBreak:
			c.AddPageBreak()
		default:
			return fmt.Errorf("%w: block %d is empty", ErrInvalidPlan, i+1)
		}
	}
	return nil
}

// Result serializes the document.
func (c *Composer) Result() (*Result, error) {
	return newResult(c.doc)
}
