package pdfdocx

import (
	"fmt"

	"github.com/porticus-lab/go-pdf-docx/docx"
)

// ScreenshotLayout controls how captured sections are placed in Word.
// Zero fields use the defaults: 0.5 inch margins and 7.5 inch wide images.
type ScreenshotLayout struct {
	Margin     float64 // page margin in inches, all sides
	ImageWidth float64 // picture width in inches

	// OnPage, if set, is called after each screenshot has been placed, with
	// its 1-based page number.
	OnPage func(page int, shot string)
}

func (l *ScreenshotLayout) resolved() ScreenshotLayout {
	r := ScreenshotLayout{Margin: 0.5, ImageWidth: 7.5}
	if l == nil {
		return r
	}
	r.OnPage = l.OnPage
	if l.Margin > 0 {
		r.Margin = l.Margin
	}
	if l.ImageWidth > 0 {
		r.ImageWidth = l.ImageWidth
	}
	return r
}

// BuildScreenshotDocument places one picture per screenshot, in order, with
// a page break between consecutive pictures.
func BuildScreenshotDocument(shots []string, layout *ScreenshotLayout) (*Result, error) {
	d, err := screenshotDocument(shots, layout)
	if err != nil {
		return nil, err
	}
	res, err := newResult(d)
	if err != nil {
		return nil, err
	}
	res.shots = append([]string(nil), shots...)
	return res, nil
}

func screenshotDocument(shots []string, layout *ScreenshotLayout) (*docx.Document, error) {
	if len(shots) == 0 {
		return nil, ErrNoPages
	}
	l := layout.resolved()

	d := docx.New(docx.WithMargins(docx.UniformMargins(docx.Inches(l.Margin))))
	for i, shot := range shots {
		if i > 0 {
			d.AddPageBreak()
		}
		if _, err := d.AddPicture(shot, docx.Inches(l.ImageWidth)); err != nil {
			return nil, fmt.Errorf("pdfdocx: adding page %d: %w", i+1, err)
		}
		if l.OnPage != nil {
			l.OnPage(i+1, shot)
		}
	}
	return d, nil
}
