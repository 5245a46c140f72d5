// Package docx builds Word documents (.docx) on top of godocx.
//
// A [Document] is an append-only sequence of block elements: headings,
// paragraphs, list items, pictures, tables and page breaks. Styles, list
// numbering and the package layout come from the godocx base template. The
// document is serialized once with [Document.Save], [Document.WriteTo] or
// [Document.Bytes]; the same sequence of calls always produces the same bytes.
//
//	d := docx.New(docx.WithFont("Malgun Gothic", 10))
//	d.AddHeading("Quarterly review", 1)
//	d.AddBullet("Revenue up 12%")
//	if _, err := d.AddPicture("chart.png", 6.5); err != nil {
//	    return err
//	}
//	d.AddPageBreak()
//	err := d.Save("review.docx")
package docx

import (
	"fmt"
	"strconv"

	"github.com/gomutex/godocx"
	gdocx "github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
)

// Stats counts the block elements appended to a [Document].
type Stats struct {
	Paragraphs int         // body paragraphs, including headings
	Headings   map[int]int // heading level -> count
	ListItems  int
	Images     int
	PageBreaks int
	Tables     int
}

type config struct {
	font     string
	fontSize Pt
	page     PageSize
	margins  Margins
}

func defaultConfig() config {
	return config{
		font:     "Calibri",
		fontSize: 11,
		page:     Letter,
		margins:  UniformMargins(1),
	}
}

// Option configures a [Document].
type Option func(*config)

// WithFont sets the default font family and size.
func WithFont(name string, size Pt) Option {
	return func(c *config) {
		if name != "" {
			c.font = name
		}
		if size > 0 {
			c.fontSize = size
		}
	}
}

// WithPageSize sets the page dimensions. Defaults to [Letter].
func WithPageSize(s PageSize) Option {
	return func(c *config) {
		c.page = s
	}
}

// WithMargins sets the page margins. Defaults to 1 inch on all sides.
func WithMargins(m Margins) Option {
	return func(c *config) {
		c.margins = m
	}
}

// Document is an in-memory .docx under construction. It is not safe for
// concurrent use.
type Document struct {
	cfg   config
	root  *gdocx.RootDoc
	paras []*Paragraph
	stats Stats
}

// New creates an empty Document from the godocx base template. It panics if
// the embedded template cannot be unpacked.
func New(opts ...Option) *Document {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	root, err := godocx.NewDocument()
	if err != nil {
		panic(fmt.Sprintf("docx: unpacking base template: %v", err))
	}
	d := &Document{
		cfg:   cfg,
		root:  root,
		stats: Stats{Headings: make(map[int]int)},
	}
	d.applyFont()
	return d
}

// applyFont replaces the theme fonts of the document defaults with the
// configured family and size.
func (d *Document) applyFont() {
	styles := d.root.DocStyles
	if styles == nil {
		return
	}
	if styles.DocDefaults == nil {
		styles.DocDefaults = &ctypes.DocDefault{}
	}
	dd := styles.DocDefaults
	if dd.RunProp == nil {
		dd.RunProp = &ctypes.RunPropDefault{}
	}
	if dd.RunProp.RunProp == nil {
		dd.RunProp.RunProp = &ctypes.RunProperty{}
	}
	rp := dd.RunProp.RunProp
	f := d.cfg.font
	rp.Fonts = &ctypes.RunFonts{Ascii: f, HAnsi: f, EastAsia: f, CS: f}
	hp := uint64(d.cfg.fontSize.halfPoints())
	rp.Size = ctypes.NewFontSize(hp)
	rp.SizeCs = ctypes.NewFontSizeCS(hp)
}

// SetMargins replaces the page margins.
func (d *Document) SetMargins(m Margins) {
	d.cfg.margins = m
}

// Margins returns the page margins.
func (d *Document) Margins() Margins {
	return d.cfg.margins
}

// Stats returns a snapshot of the element counts.
func (d *Document) Stats() Stats {
	s := d.stats
	s.Headings = make(map[int]int, len(d.stats.Headings))
	for k, v := range d.stats.Headings {
		s.Headings[k] = v
	}
	return s
}

// Paragraphs returns the body-level paragraphs in document order. Table
// cells are not included.
func (d *Document) Paragraphs() []*Paragraph {
	return d.paras
}

func (d *Document) track(gp *gdocx.Paragraph) *Paragraph {
	p := &Paragraph{p: gp}
	d.paras = append(d.paras, p)
	d.stats.Paragraphs++
	return p
}

// AddParagraph appends a paragraph with the given style ("" for Normal). If
// text is not empty it becomes the paragraph's first run.
func (d *Document) AddParagraph(text, style string) *Paragraph {
	p := d.track(d.root.AddEmptyParagraph())
	if style != "" && style != StyleNormal {
		p.p.Style(style)
	}
	if text != "" {
		p.AddRun(text)
	}
	switch style {
	case StyleListBullet, StyleListNumber:
		d.stats.ListItems++
	}
	return p
}

// AddHeading appends a heading paragraph. level is clamped to 1..6.
func (d *Document) AddHeading(text string, level int) *Paragraph {
	level = max(1, min(level, 6))
	p := d.AddParagraph("", headingStyle(level))
	p.AddRun(text)
	d.stats.Headings[level]++
	return p
}

// AddBullet appends a bulleted list item.
func (d *Document) AddBullet(text string) *Paragraph {
	return d.AddParagraph(text, StyleListBullet)
}

// AddNumbered appends a numbered list item.
func (d *Document) AddNumbered(text string) *Paragraph {
	return d.AddParagraph(text, StyleListNumber)
}

// AddPageBreak appends a paragraph holding a single page break.
func (d *Document) AddPageBreak() *Paragraph {
	p := d.track(d.root.AddPageBreak())
	d.stats.PageBreaks++
	return p
}

func headingStyle(level int) string {
	return "Heading" + strconv.Itoa(level)
}

// String summarises the document for debugging.
func (d *Document) String() string {
	return fmt.Sprintf("docx.Document{paragraphs: %d, images: %d, page breaks: %d}",
		len(d.paras), d.stats.Images, d.stats.PageBreaks)
}
