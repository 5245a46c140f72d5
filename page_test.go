package pdfdocx

import (
	"math"
	"testing"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestCmToInches(t *testing.T) {
	tests := []struct {
		cm   float64
		want float64
	}{
		{2.54, 1.0},
		{0, 0},
		{21.0, 8.2677},
		{29.7, 11.6929},
	}
	for _, tt := range tests {
		got := cmToInches(tt.cm)
		if !almostEqual(got, tt.want, 0.001) {
			t.Errorf("cmToInches(%v) = %v, want ~%v", tt.cm, got, tt.want)
		}
	}
}

func TestViewport(t *testing.T) {
	tests := []struct {
		size PageSize
		w, h int64
	}{
		{A4, 794, 1123},
		{Letter, 816, 1056},
	}
	for _, tt := range tests {
		w, h := tt.size.Viewport()
		if w != tt.w || h != tt.h {
			t.Errorf("%v.Viewport() = %dx%d, want %dx%d", tt.size, w, h, tt.w, tt.h)
		}
	}
}

func TestDefaultPageConfig(t *testing.T) {
	d := DefaultPageConfig()
	if d.Size != Letter {
		t.Errorf("default size = %v, want Letter", d.Size)
	}
	if d.Orientation != Portrait {
		t.Errorf("default orientation = %v, want Portrait", d.Orientation)
	}
	if d.Margin != UniformMargin(2.54) {
		t.Errorf("default margin = %v, want uniform 2.54", d.Margin)
	}
}

func TestUniformMargin(t *testing.T) {
	m := UniformMargin(2.5)
	if m.Top != 2.5 || m.Right != 2.5 || m.Bottom != 2.5 || m.Left != 2.5 {
		t.Errorf("UniformMargin(2.5) = %+v, want all 2.5", m)
	}
}

func TestPageConfigResolved_Nil(t *testing.T) {
	var pc *PageConfig
	r := pc.resolved()
	d := DefaultPageConfig()
	if r != d {
		t.Errorf("nil resolved = %+v, want %+v", r, d)
	}
}

func TestPageConfigResolved_PreservesExplicit(t *testing.T) {
	pc := &PageConfig{
		Size:        A4,
		Orientation: Landscape,
		Margin:      Margin{Top: 2, Right: 3, Bottom: 2, Left: 3},
		Font:        "Arial",
		FontSize:    12,
	}
	r := pc.resolved()
	if r.Size != A4 {
		t.Errorf("size = %v, want A4", r.Size)
	}
	if r.Orientation != Landscape {
		t.Errorf("orientation = %v, want Landscape", r.Orientation)
	}
	if r.Margin.Top != 2 || r.Margin.Right != 3 {
		t.Errorf("margin = %+v, want explicit values", r.Margin)
	}
	if r.Font != "Arial" || r.FontSize != 12 {
		t.Errorf("font = %q %v, want Arial 12", r.Font, r.FontSize)
	}
}

func TestPaperDimensions_Landscape(t *testing.T) {
	pc := &PageConfig{Size: A4, Orientation: Landscape}
	w, h := pc.paperDimensions()
	// Landscape swaps width and height.
	if !almostEqual(w, 11.693, 0.01) {
		t.Errorf("landscape width = %v, want ~11.693", w)
	}
	if !almostEqual(h, 8.267, 0.01) {
		t.Errorf("landscape height = %v, want ~8.267", h)
	}
}

func TestTextWidth(t *testing.T) {
	var pc *PageConfig
	// Letter is 8.5 inches wide with 1 inch side margins.
	if got := pc.textWidth(); !almostEqual(got, 6.5, 0.001) {
		t.Errorf("default textWidth = %v, want 6.5", got)
	}
	pc = &PageConfig{Size: Letter, Margin: Margin{Top: 1, Right: 5.08, Bottom: 1, Left: 2.54}}
	if got := pc.textWidth(); !almostEqual(got, 5.5, 0.001) {
		t.Errorf("textWidth = %v, want 5.5", got)
	}
}
