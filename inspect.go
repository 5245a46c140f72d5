package pdfdocx

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageDim is the media box of one page in PDF points.
type PageDim struct {
	Width  float64
	Height float64
}

// SourceInfo describes a source PDF.
type SourceInfo struct {
	Path      string
	PageCount int
	Pages     []PageDim // indexed by page number - 1
}

// Inspect reads and validates the PDF at path and reports its page layout.
func Inspect(path string) (*SourceInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: %w", err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: reading %s: %w", path, err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: page dimensions of %s: %w", path, err)
	}

	info := &SourceInfo{
		Path:      path,
		PageCount: ctx.PageCount,
		Pages:     make([]PageDim, len(dims)),
	}
	for i, d := range dims {
		info.Pages[i] = PageDim{Width: d.Width, Height: d.Height}
	}
	return info, nil
}

// HasPage reports whether the 1-based page exists.
func (s *SourceInfo) HasPage(page int) bool {
	return page >= 1 && page <= s.PageCount
}
