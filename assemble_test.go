package pdfdocx

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/porticus-lab/go-pdf-docx/docx"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func lastParagraph(t *testing.T, c *Composer) *docx.Paragraph {
	t.Helper()
	ps := c.Document().Paragraphs()
	if len(ps) == 0 {
		t.Fatal("document has no paragraphs")
	}
	return ps[len(ps)-1]
}

func TestComposer_TitleAndSubtitle(t *testing.T) {
	c := NewComposer(ComposerConfig{})

	title := c.AddTitle("Overview")
	if title.Style() != "Heading1" {
		t.Errorf("title style = %s, want Heading1", title.Style())
	}
	if r := title.Runs()[0]; r.Size() != 20 || !r.Bold() {
		t.Errorf("title run size=%v bold=%v, want 20 bold", r.Size(), r.Bold())
	}

	sub := c.AddSubtitle("Strategy")
	if sub.Style() != "Heading2" {
		t.Errorf("subtitle style = %s, want Heading2", sub.Style())
	}
	if r := sub.Runs()[0]; r.Size() != 14 || !r.Bold() {
		t.Errorf("subtitle run size=%v bold=%v, want 14 bold", r.Size(), r.Bold())
	}
}

func TestComposer_TextBox(t *testing.T) {
	c := NewComposer(ComposerConfig{})
	c.AddTextBox("Long-Short", []string{"alpha", "beta", "gamma"})

	ps := c.Document().Paragraphs()
	if len(ps) != 4 {
		t.Fatalf("got %d paragraphs, want label + 3 items", len(ps))
	}
	if r := ps[0].Runs()[0]; !r.Bold() || r.Size() != 11 || ps[0].Style() != docx.StyleNormal {
		t.Errorf("label run bold=%v size=%v style=%s", r.Bold(), r.Size(), ps[0].Style())
	}
	for _, p := range ps[1:] {
		if p.Style() != docx.StyleListBullet {
			t.Errorf("item style = %s, want %s", p.Style(), docx.StyleListBullet)
		}
	}
	if got := c.Document().Stats().ListItems; got != 3 {
		t.Errorf("ListItems = %d, want 3", got)
	}
}

func TestComposer_AddImage(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "images", "chart.png"), 40, 20)
	c := NewComposer(ComposerConfig{BaseDir: dir})

	ok, err := c.AddImage("images/chart.png", 0)
	if err != nil || !ok {
		t.Fatalf("AddImage(existing) = %v, %v", ok, err)
	}
	if p := lastParagraph(t, c); p.Alignment() != docx.AlignCenter {
		t.Errorf("image alignment = %q, want center", p.Alignment())
	}
	if c.Document().Stats().Images != 1 {
		t.Error("image not embedded")
	}
}

func TestComposer_MissingImagePlaceholder(t *testing.T) {
	c := NewComposer(ComposerConfig{BaseDir: t.TempDir(), Placeholder: "[no image: %s]"})

	ok, err := c.AddImage("images/x.png", 6.5)
	if err != nil || ok {
		t.Fatalf("AddImage(missing) = %v, %v, want false, nil", ok, err)
	}
	if got := lastParagraph(t, c).Text(); got != "[no image: images/x.png]" {
		t.Errorf("placeholder = %q", got)
	}
	if c.Document().Stats().Images != 0 {
		t.Error("missing image counted as embedded")
	}
}

func TestComposer_CorruptImageFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewComposer(ComposerConfig{BaseDir: dir})
	if _, err := c.AddImage("bad.png", 6.5); err == nil {
		t.Fatal("AddImage(corrupt) succeeded")
	}
}

func TestComposer_Apply(t *testing.T) {
	c := NewComposer(ComposerConfig{BaseDir: t.TempDir()})
	err := c.Apply([]Block{
		{Title: "T"},
		{Box: &Box{Title: "B", Items: []string{"i"}}},
		{Spacer: true},
		{Image: "missing.png"},
		{PageBreak: true},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	st := c.Document().Stats()
	if st.Headings[1] != 1 || st.ListItems != 1 || st.PageBreaks != 1 {
		t.Errorf("Stats = %+v", st)
	}

	if err := c.Apply([]Block{{}}); err == nil {
		t.Error("Apply accepted an empty block")
	}
}

func TestDefaultPlan_Assemble(t *testing.T) {
	p, err := DefaultPlan()
	if err != nil {
		t.Fatalf("DefaultPlan: %v", err)
	}
	// Resolve against an empty directory so every image is missing.
	p.dir = t.TempDir()

	res, err := p.BuildReport()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	st := res.Stats()
	if st.Headings[1] != 5 {
		t.Errorf("titles = %d, want 5", st.Headings[1])
	}
	if st.Headings[2] != 11 {
		t.Errorf("subtitles = %d, want 11", st.Headings[2])
	}
	if st.ListItems != 6 {
		t.Errorf("bullets = %d, want 6", st.ListItems)
	}
	if st.PageBreaks != 4 {
		t.Errorf("page breaks = %d, want 4", st.PageBreaks)
	}
	if st.Images != 0 {
		t.Errorf("images = %d, want 0", st.Images)
	}
	if !bytes.Contains(res.Bytes(), []byte("PK")) {
		t.Error("result is not a zip")
	}
}

func TestDefaultPlan_AssembleWithImages(t *testing.T) {
	p, err := DefaultPlan()
	if err != nil {
		t.Fatal(err)
	}
	p.dir = t.TempDir()
	for _, b := range p.Assemble.Blocks {
		if b.Image != "" {
			writePNG(t, filepath.Join(p.dir, b.Image), 30, 20)
		}
	}

	c := p.Composer()
	if err := c.Apply(p.Assemble.Blocks); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := c.Document().Stats().Images; got != 10 {
		t.Errorf("images = %d, want 10", got)
	}
	for _, para := range c.Document().Paragraphs() {
		if strings.HasPrefix(para.Text(), "[이미지 없음") {
			t.Errorf("unexpected placeholder %q", para.Text())
		}
	}
}
