package docx

import (
	"strings"

	gdocx "github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
	"github.com/gomutex/godocx/wml/stypes"
	"golang.org/x/text/unicode/norm"
)

// Built-in paragraph style IDs of the base template.
const (
	StyleNormal     = "Normal"
	StyleListBullet = "ListBullet"
	StyleListNumber = "ListNumber"
)

// Paragraph is a body paragraph. Paragraphs are created by [Document] methods.
type Paragraph struct {
	p    *gdocx.Paragraph
	runs []*Run
}

func (p *Paragraph) ct() *ctypes.Paragraph {
	return p.p.GetCT()
}

func (p *Paragraph) props() *ctypes.ParagraphProp {
	ct := p.ct()
	if ct.Property == nil {
		ct.Property = ctypes.DefaultParaProperty()
	}
	return ct.Property
}

// Style returns the paragraph style ID, or [StyleNormal] when unset.
func (p *Paragraph) Style() string {
	pp := p.ct().Property
	if pp == nil || pp.Style == nil || pp.Style.Val == "" {
		return StyleNormal
	}
	return pp.Style.Val
}

// newRun appends an empty run and wraps its element.
func (p *Paragraph) newRun() *Run {
	gr := p.p.AddRun()
	children := p.ct().Children
	r := &Run{r: gr, ct: children[len(children)-1].Run}
	p.runs = append(p.runs, r)
	return r
}

// AddRun appends a text run and returns it. Text is stored in NFC.
func (p *Paragraph) AddRun(text string) *Run {
	r := p.newRun()
	if text != "" {
		r.ct.Children = append(r.ct.Children, ctypes.RunChild{
			Text: ctypes.TextFromString(norm.NFC.String(text)),
		})
	}
	return r
}

// AddLineBreak appends a run holding a soft line break.
func (p *Paragraph) AddLineBreak() {
	p.newRun().r.AddBreak(nil)
}

// Runs returns the paragraph's runs in order, line breaks included.
func (p *Paragraph) Runs() []*Run {
	return p.runs
}

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, c := range p.ct().Children {
		if c.Run == nil {
			continue
		}
		for _, rc := range c.Run.Children {
			if rc.Text != nil {
				sb.WriteString(rc.Text.Text)
			}
		}
	}
	return sb.String()
}

// HasPicture reports whether the paragraph carries an inline picture.
func (p *Paragraph) HasPicture() bool {
	return p.anyRunChild(func(rc ctypes.RunChild) bool {
		return rc.Drawing != nil
	})
}

// IsPageBreak reports whether the paragraph holds a page break.
func (p *Paragraph) IsPageBreak() bool {
	return p.anyRunChild(func(rc ctypes.RunChild) bool {
		return rc.Break != nil && rc.Break.BreakType != nil &&
			*rc.Break.BreakType == stypes.BreakTypePage
	})
}

func (p *Paragraph) anyRunChild(fn func(ctypes.RunChild) bool) bool {
	for _, c := range p.ct().Children {
		if c.Run == nil {
			continue
		}
		for _, rc := range c.Run.Children {
			if fn(rc) {
				return true
			}
		}
	}
	return false
}

// SetAlignment sets the paragraph justification.
func (p *Paragraph) SetAlignment(a Alignment) *Paragraph {
	p.p.Justification(stypes.Justification(a))
	return p
}

// Alignment returns the paragraph justification, or "" when inherited.
func (p *Paragraph) Alignment() Alignment {
	pp := p.ct().Property
	if pp == nil || pp.Justification == nil {
		return ""
	}
	return Alignment(pp.Justification.Val)
}

func (p *Paragraph) spacing() *ctypes.Spacing {
	pp := p.props()
	if pp.Spacing == nil {
		pp.Spacing = &ctypes.Spacing{}
	}
	return pp.Spacing
}

// SetSpaceBefore sets the space above the paragraph.
func (p *Paragraph) SetSpaceBefore(v Pt) *Paragraph {
	tw := uint64(max(v.twips(), 0))
	p.spacing().Before = &tw
	return p
}

// SetSpaceAfter sets the space below the paragraph.
func (p *Paragraph) SetSpaceAfter(v Pt) *Paragraph {
	tw := uint64(max(v.twips(), 0))
	p.spacing().After = &tw
	return p
}

// SetLeftIndent sets the paragraph's left indentation.
func (p *Paragraph) SetLeftIndent(v Inches) *Paragraph {
	tw := v.twips()
	p.props().Indent = &ctypes.Indent{Left: &tw}
	return p
}

// Run is a span of text sharing one set of character properties.
type Run struct {
	r  *gdocx.Run
	ct *ctypes.Run
}

func (r *Run) props() *ctypes.RunProperty {
	if r.ct.Property == nil {
		r.ct.Property = &ctypes.RunProperty{}
	}
	return r.ct.Property
}

// SetBold toggles bold.
func (r *Run) SetBold(on bool) *Run {
	if on {
		r.r.Bold(true)
	} else if r.ct.Property != nil {
		r.ct.Property.Bold = nil
	}
	return r
}

// Bold reports whether the run is explicitly bold.
func (r *Run) Bold() bool {
	return r.ct.Property != nil && onOff(r.ct.Property.Bold)
}

// SetItalic toggles italic.
func (r *Run) SetItalic(on bool) *Run {
	if on {
		r.r.Italic(true)
	} else if r.ct.Property != nil {
		r.ct.Property.Italic = nil
	}
	return r
}

// Italic reports whether the run is explicitly italic.
func (r *Run) Italic() bool {
	return r.ct.Property != nil && onOff(r.ct.Property.Italic)
}

// SetUnderline toggles single underline.
func (r *Run) SetUnderline(on bool) *Run {
	if on {
		r.r.Underline(stypes.UnderlineSingle)
	} else if r.ct.Property != nil {
		r.ct.Property.Underline = nil
	}
	return r
}

// Underlined reports whether the run has an explicit underline.
func (r *Run) Underlined() bool {
	return r.ct.Property != nil && r.ct.Property.Underline != nil &&
		r.ct.Property.Underline.Val != stypes.UnderlineNone
}

// SetSize sets the font size. Half points are kept.
func (r *Run) SetSize(size Pt) *Run {
	hp := uint64(max(size.halfPoints(), 0))
	pp := r.props()
	pp.Size = ctypes.NewFontSize(hp)
	pp.SizeCs = ctypes.NewFontSizeCS(hp)
	return r
}

// Size returns the explicit font size, or 0 when inherited.
func (r *Run) Size() Pt {
	if r.ct.Property == nil || r.ct.Property.Size == nil {
		return 0
	}
	return Pt(r.ct.Property.Size.Value) / 2
}

// SetFont sets the run's font for all scripts.
func (r *Run) SetFont(name string) *Run {
	r.props().Fonts = &ctypes.RunFonts{Ascii: name, HAnsi: name, EastAsia: name, CS: name}
	return r
}

// onOff reads a toggle property; an element without w:val is on.
func onOff(v *ctypes.OnOff) bool {
	if v == nil {
		return false
	}
	if v.Val == nil {
		return true
	}
	switch *v.Val {
	case stypes.OnOffTrue, stypes.OnOffOne, stypes.OnOffOn:
		return true
	}
	return false
}
