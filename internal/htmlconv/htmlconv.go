// Package htmlconv appends the content of an HTML document to a Word
// document. The HTML is sanitized first; the remaining markup is mapped to
// headings, paragraphs with character formatting, lists, tables and
// pictures.
package htmlconv

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/porticus-lab/go-pdf-docx/docx"
)

// cssPixelsPerInch converts HTML pixel widths to inches.
const cssPixelsPerInch = 96

// Options controls a conversion.
type Options struct {
	// BaseDir resolves relative image sources. Empty means the working
	// directory.
	BaseDir string

	// MaxImageWidth caps picture widths. Zero means 6.5 inches.
	MaxImageWidth docx.Inches

	// Logger receives warnings about skipped content. Nil discards them.
	Logger *zap.Logger
}

// Sanitize removes scripts, event handlers and other active content while
// keeping structure, formatting, tables and images. Image sources may be data
// URIs, relative paths or file URLs.
func Sanitize(src []byte) []byte {
	p := bluemonday.UGCPolicy()
	p.AllowDataURIImages()
	p.AllowURLSchemes("http", "https", "file")
	p.AllowAttrs("width").OnElements("img")
	return p.SanitizeBytes(src)
}

// Convert sanitizes src and appends its content to d.
func Convert(d *docx.Document, src []byte, opts Options) error {
	root, err := html.Parse(bytes.NewReader(Sanitize(src)))
	if err != nil {
		return fmt.Errorf("htmlconv: parsing: %w", err)
	}
	if opts.MaxImageWidth <= 0 {
		opts.MaxImageWidth = 6.5
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	c := &converter{d: d, opts: opts}
	c.walk(root)
	return nil
}

type converter struct {
	d    *docx.Document
	opts Options

	para      *docx.Paragraph // open paragraph receiving inline content
	lineStart bool            // no visible text yet on the current line
	emptyItem bool            // para is a list item with no content yet

	bold, italic, underline int
	lists                   []atom.Atom
}

// flush closes the open paragraph.
func (c *converter) flush() {
	c.para = nil
	c.emptyItem = false
}

func (c *converter) paragraph() *docx.Paragraph {
	if c.para == nil {
		c.para = c.d.AddParagraph("", "")
		c.lineStart = true
	}
	return c.para
}

func (c *converter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		c.text(n.Data)
		return
	case html.ElementNode:
		if c.element(n) {
			return
		}
	}
	c.children(n)
}

func (c *converter) children(n *html.Node) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.walk(ch)
	}
}

// element handles n and reports whether its children were consumed.
func (c *converter) element(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Head, atom.Title, atom.Script, atom.Style:
		return true

	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		c.flush()
		if text := collectText(n); text != "" {
			c.d.AddHeading(text, int(n.Data[1]-'0'))
		}
		return true

	case atom.P, atom.Div, atom.Section, atom.Article, atom.Blockquote, atom.Pre,
		atom.Header, atom.Footer, atom.Main, atom.Figure, atom.Figcaption:
		// <li><p>text</p></li> fills the list item itself.
		if !c.emptyItem {
			c.flush()
		}
		c.children(n)
		c.flush()
		return true

	case atom.B, atom.Strong:
		c.bold++
		c.children(n)
		c.bold--
		return true
	case atom.I, atom.Em:
		c.italic++
		c.children(n)
		c.italic--
		return true
	case atom.U, atom.Ins:
		c.underline++
		c.children(n)
		c.underline--
		return true

	case atom.Br:
		c.paragraph().AddLineBreak()
		c.lineStart = true
		c.emptyItem = false
		return true

	case atom.Hr:
		c.flush()
		c.d.AddParagraph("", "")
		return true

	case atom.Ul, atom.Ol:
		c.flush()
		c.lists = append(c.lists, n.DataAtom)
		c.children(n)
		c.lists = c.lists[:len(c.lists)-1]
		c.flush()
		return true

	case atom.Li:
		c.flush()
		style := docx.StyleListBullet
		if len(c.lists) > 0 && c.lists[len(c.lists)-1] == atom.Ol {
			style = docx.StyleListNumber
		}
		c.para = c.d.AddParagraph("", style)
		c.lineStart = true
		c.emptyItem = true
		c.children(n)
		c.flush()
		return true

	case atom.Table:
		c.flush()
		c.table(n)
		return true

	case atom.Img:
		c.flush()
		c.image(n)
		return true
	}
	return false
}

func (c *converter) text(raw string) {
	s := collapseSpace(raw)
	if s == "" {
		return
	}
	if c.para == nil || c.lineStart {
		s = strings.TrimLeft(s, " ")
		if s == "" {
			return
		}
	}
	r := c.paragraph().AddRun(s)
	c.lineStart = false
	c.emptyItem = false
	if c.bold > 0 {
		r.SetBold(true)
	}
	if c.italic > 0 {
		r.SetItalic(true)
	}
	if c.underline > 0 {
		r.SetUnderline(true)
	}
}

func (c *converter) table(n *html.Node) {
	var (
		rows   [][]string
		header bool
	)
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			var row []string
			allTH := true
			for cell := n.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type != html.ElementNode {
					continue
				}
				switch cell.DataAtom {
				case atom.Th:
					row = append(row, collectText(cell))
				case atom.Td:
					row = append(row, collectText(cell))
					allTH = false
				}
			}
			if len(row) > 0 {
				if len(rows) == 0 {
					header = allTH
				}
				rows = append(rows, row)
			}
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			visit(ch)
		}
	}
	visit(n)
	if len(rows) > 0 {
		c.d.AddTable(rows, header)
	}
}

func (c *converter) image(n *html.Node) {
	src := attr(n, "src")
	if src == "" {
		return
	}
	name, data, err := c.load(src)
	if err != nil {
		c.opts.Logger.Warn("skipping image", zap.String("src", shorten(src)), zap.Error(err))
		return
	}

	width := c.opts.MaxImageWidth
	if px, err := strconv.Atoi(strings.TrimSuffix(attr(n, "width"), "px")); err == nil && px > 0 {
		width = min(width, docx.Inches(float64(px)/cssPixelsPerInch))
	} else if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil && cfg.Width > 0 {
		width = min(width, docx.Inches(float64(cfg.Width)/cssPixelsPerInch))
	}

	if _, err := c.d.AddPictureData(name, data, width); err != nil {
		c.opts.Logger.Warn("skipping image", zap.String("src", shorten(src)), zap.Error(err))
	}
}

// load returns the bytes of an image source: a data URI or a local path.
func (c *converter) load(src string) (string, []byte, error) {
	if rest, ok := strings.CutPrefix(src, "data:"); ok {
		meta, payload, ok := strings.Cut(rest, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return "", nil, fmt.Errorf("unsupported data URI")
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, err
		}
		return "inline", data, nil
	}

	path := src
	if strings.HasPrefix(src, "file:") {
		u, err := url.Parse(src)
		if err != nil {
			return "", nil, err
		}
		path = filepath.FromSlash(u.Path)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.opts.BaseDir, filepath.FromSlash(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(path), data, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// collectText returns the whitespace-collapsed text below n.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			visit(ch)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// collapseSpace folds runs of whitespace into a single space, keeping one
// leading or trailing space where the input had any.
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if unicode.IsSpace(rune(s[0])) {
		out = " " + out
	}
	if unicode.IsSpace(rune(s[len(s)-1])) {
		out += " "
	}
	return out
}

func shorten(s string) string {
	if len(s) > 64 {
		return s[:64] + "..."
	}
	return s
}
