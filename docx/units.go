package docx

import "math"

// Inches is a length in inches.
type Inches float64

// Pt is a length in typographic points (1/72 inch).
type Pt float64

const twipsPerInch = 1440

func (i Inches) twips() int {
	return int(math.Round(float64(i) * twipsPerInch))
}

func (p Pt) twips() int {
	return int(math.Round(float64(p) * 20))
}

// halfPoints is the unit of w:sz.
func (p Pt) halfPoints() int {
	return int(math.Round(float64(p) * 2))
}

// Alignment is a paragraph justification value.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
	AlignBoth   Alignment = "both"
)

// Margins are page margins in inches.
type Margins struct {
	Top    Inches
	Right  Inches
	Bottom Inches
	Left   Inches
}

// UniformMargins returns Margins with the same value on all sides.
func UniformMargins(in Inches) Margins {
	return Margins{Top: in, Right: in, Bottom: in, Left: in}
}

// Standard page sizes.
var (
	A4     = PageSize{Width: 8.27, Height: 11.69}
	Letter = PageSize{Width: 8.5, Height: 11}
)

// PageSize is a page width and height in inches.
type PageSize struct {
	Width  Inches
	Height Inches
}
