package pdfdocx

import (
	"math"

	"github.com/porticus-lab/go-pdf-docx/docx"
)

// PageSize represents paper dimensions in centimeters.
type PageSize struct {
	Width  float64 // Width in centimeters.
	Height float64 // Height in centimeters.
}

// Standard paper sizes.
var (
	A3      = PageSize{Width: 29.7, Height: 42.0}
	A4      = PageSize{Width: 21.0, Height: 29.7}
	A5      = PageSize{Width: 14.8, Height: 21.0}
	Letter  = PageSize{Width: 21.59, Height: 27.94}
	Legal   = PageSize{Width: 21.59, Height: 35.56}
	Tabloid = PageSize{Width: 27.94, Height: 43.18}
)

// cssPixelsPerInch is the CSS reference resolution.
const cssPixelsPerInch = 96

// Viewport returns the page size in CSS pixels, rounded to whole pixels.
// A4 yields 794×1123.
func (s PageSize) Viewport() (width, height int64) {
	return int64(math.Round(cmToInches(s.Width) * cssPixelsPerInch)),
		int64(math.Round(cmToInches(s.Height) * cssPixelsPerInch))
}

// Orientation represents the page orientation.
type Orientation int

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = iota
	// Landscape rotates the page to horizontal orientation.
	Landscape
)

// Margin represents page margins in centimeters.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(cm float64) Margin {
	return Margin{Top: cm, Right: cm, Bottom: cm, Left: cm}
}

// PageConfig controls the section layout of generated Word documents.
//
// A nil PageConfig or zero-value fields use the defaults: US Letter,
// portrait, 2.54 cm (1 inch) margins.
type PageConfig struct {
	// Size specifies the paper size. Defaults to Letter.
	Size PageSize

	// Orientation specifies portrait or landscape. Defaults to Portrait.
	Orientation Orientation

	// Margin specifies page margins in centimeters. Defaults to 2.54 cm on
	// all sides.
	Margin Margin

	// Font is the Normal style font family. Empty keeps the Word default.
	Font string

	// FontSize is the Normal style size in points. Zero keeps the default.
	FontSize float64
}

// DefaultPageConfig returns a PageConfig with the defaults applied.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:        Letter,
		Orientation: Portrait,
		Margin:      UniformMargin(2.54),
	}
}

// resolved returns a PageConfig with all zero values replaced by defaults.
func (p *PageConfig) resolved() PageConfig {
	d := DefaultPageConfig()
	if p == nil {
		return d
	}
	r := *p
	if r.Size == (PageSize{}) {
		r.Size = d.Size
	}
	if r.Margin == (Margin{}) {
		r.Margin = d.Margin
	}
	return r
}

// cmToInches converts centimeters to inches.
func cmToInches(cm float64) float64 {
	return cm / 2.54
}

// paperDimensions returns the paper width and height in inches,
// accounting for orientation.
func (p *PageConfig) paperDimensions() (width, height float64) {
	r := p.resolved()
	w := cmToInches(r.Size.Width)
	h := cmToInches(r.Size.Height)
	if r.Orientation == Landscape {
		return h, w
	}
	return w, h
}

// marginInches returns margins converted to inches.
func (p *PageConfig) marginInches() (top, right, bottom, left float64) {
	r := p.resolved()
	return cmToInches(r.Margin.Top),
		cmToInches(r.Margin.Right),
		cmToInches(r.Margin.Bottom),
		cmToInches(r.Margin.Left)
}

// textWidth is the usable width between the side margins, in inches.
func (p *PageConfig) textWidth() float64 {
	w, _ := p.paperDimensions()
	_, right, _, left := p.marginInches()
	return w - left - right
}

// docxOptions translates the page layout into document builder options.
func (p *PageConfig) docxOptions() []docx.Option {
	r := p.resolved()
	w, h := p.paperDimensions()
	top, right, bottom, left := p.marginInches()
	return []docx.Option{
		docx.WithPageSize(docx.PageSize{Width: docx.Inches(w), Height: docx.Inches(h)}),
		docx.WithMargins(docx.Margins{
			Top: docx.Inches(top), Right: docx.Inches(right),
			Bottom: docx.Inches(bottom), Left: docx.Inches(left),
		}),
		docx.WithFont(r.Font, docx.Pt(r.FontSize)),
	}
}
