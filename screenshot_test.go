package pdfdocx

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/porticus-lab/go-pdf-docx/docx"
)

func TestBuildScreenshotDocument(t *testing.T) {
	dir := t.TempDir()
	var shots []string
	for i := 1; i <= 3; i++ {
		p := filepath.Join(dir, "page_"+string(rune('0'+i))+".png")
		writePNG(t, p, 794, 1123)
		shots = append(shots, p)
	}

	var placed []int
	layout := &ScreenshotLayout{OnPage: func(page int, shot string) {
		if shot != shots[page-1] {
			t.Errorf("page %d reported as %s, want %s", page, shot, shots[page-1])
		}
		placed = append(placed, page)
	}}
	d, err := screenshotDocument(shots, layout)
	if err != nil {
		t.Fatalf("screenshotDocument: %v", err)
	}
	if len(placed) != 3 || placed[0] != 1 || placed[1] != 2 || placed[2] != 3 {
		t.Errorf("OnPage calls = %v, want [1 2 3]", placed)
	}

	// picture, break, picture, break, picture
	ps := d.Paragraphs()
	if len(ps) != 5 {
		t.Fatalf("paragraphs = %d, want 5", len(ps))
	}
	for i, p := range ps {
		wantPicture := i%2 == 0
		if p.HasPicture() != wantPicture || p.IsPageBreak() == wantPicture {
			t.Errorf("paragraph %d: picture=%v break=%v, want picture=%v",
				i, p.HasPicture(), p.IsPageBreak(), wantPicture)
		}
	}

	res, err := BuildScreenshotDocument(shots, nil)
	if err != nil {
		t.Fatalf("BuildScreenshotDocument: %v", err)
	}
	st := res.Stats()
	if st.Images != 3 {
		t.Errorf("images = %d, want 3", st.Images)
	}
	if st.PageBreaks != 2 {
		t.Errorf("page breaks = %d, want 2 (none before the first image)", st.PageBreaks)
	}
	if len(res.Shots()) != 3 {
		t.Errorf("Shots() = %v", res.Shots())
	}
}

func TestBuildScreenshotDocument_SingleShot(t *testing.T) {
	p := filepath.Join(t.TempDir(), "page_1.png")
	writePNG(t, p, 10, 10)
	res, err := BuildScreenshotDocument([]string{p}, &ScreenshotLayout{Margin: 0.25})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats().PageBreaks != 0 {
		t.Error("single screenshot produced a page break")
	}
}

func TestBuildScreenshotDocument_Errors(t *testing.T) {
	if _, err := BuildScreenshotDocument(nil, nil); !errors.Is(err, ErrNoPages) {
		t.Errorf("no shots: err = %v, want ErrNoPages", err)
	}
	if _, err := BuildScreenshotDocument([]string{filepath.Join(t.TempDir(), "x.png")}, nil); err == nil {
		t.Error("missing screenshot accepted")
	}
}

func TestClearShots(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"page_1.png", "page_9.png", "cover.png", "page_1.jpg"} {
		writePNG(t, filepath.Join(dir, name), 2, 2)
	}
	if err := clearShots(dir); err != nil {
		t.Fatalf("clearShots: %v", err)
	}
	left, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range left {
		names = append(names, filepath.Base(p))
	}
	if len(names) != 2 || names[0] != "cover.png" || names[1] != "page_1.jpg" {
		t.Errorf("left behind %v, want [cover.png page_1.jpg]", names)
	}
	if err := clearShots(filepath.Join(dir, "missing")); err != nil {
		t.Errorf("clearShots on missing dir: %v", err)
	}
}

func TestScreenshotLayoutResolved(t *testing.T) {
	var l *ScreenshotLayout
	r := l.resolved()
	if r.Margin != 0.5 || r.ImageWidth != 7.5 {
		t.Errorf("defaults = %+v, want 0.5 / 7.5", r)
	}
	// 7.5 inch pictures fit exactly between 0.5 inch margins on Letter.
	if docx.Letter.Width-2*docx.Inches(r.Margin) != docx.Inches(r.ImageWidth) {
		t.Error("default picture width does not match the text width")
	}
}
