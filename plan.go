package pdfdocx

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed plans/fund_comparison.yaml
var defaultPlanYAML []byte

// Plan describes the inputs and outputs of every pipeline. Relative paths
// resolve against the directory of the plan file.
type Plan struct {
	Extract    ExtractPlan    `yaml:"extract"`
	HTML       HTMLPlan       `yaml:"html"`
	Assemble   AssemblePlan   `yaml:"assemble"`
	Screenshot ScreenshotPlan `yaml:"screenshot"`

	dir string
}

// ExtractPlan lists the PDF pages to rasterize.
type ExtractPlan struct {
	OutputDir string   `yaml:"output_dir"`
	Scale     float64  `yaml:"scale"`
	Sources   []Source `yaml:"sources"`
}

// HTMLPlan configures the direct HTML-to-Word conversion.
type HTMLPlan struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// AssemblePlan configures the report built from text blocks and page images.
type AssemblePlan struct {
	BaseDir     string  `yaml:"base_dir"`
	Output      string  `yaml:"output"`
	Font        string  `yaml:"font"`
	FontSize    float64 `yaml:"font_size"`
	ImageWidth  float64 `yaml:"image_width"`
	Placeholder string  `yaml:"placeholder"`
	Blocks      []Block `yaml:"blocks"`
}

// Block is one report element. Exactly one field is set, except that an
// image may carry a width.
type Block struct {
	Title     string  `yaml:"title,omitempty"`
	Subtitle  string  `yaml:"subtitle,omitempty"`
	Box       *Box    `yaml:"box,omitempty"`
	Image     string  `yaml:"image,omitempty"`
	Width     float64 `yaml:"width,omitempty"`
	Spacer    bool    `yaml:"spacer,omitempty"`
	PageBreak bool    `yaml:"page_break,omitempty"`
}

// Box is a bold label followed by bullet items.
type Box struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

// kinds counts the element fields set on b.
func (b Block) kinds() int {
	n := 0
	for _, set := range []bool{b.Title != "", b.Subtitle != "", b.Box != nil, b.Image != "", b.Spacer, b.PageBreak} {
		if set {
			n++
		}
	}
	return n
}

// ScreenshotPlan configures the capture-and-assemble pipeline.
type ScreenshotPlan struct {
	Input      string         `yaml:"input"`
	Dir        string         `yaml:"dir"`
	Output     string         `yaml:"output"`
	Selector   string         `yaml:"selector"`
	Viewport   Viewport       `yaml:"viewport"`
	Settle     *time.Duration `yaml:"settle"` // nil means DefaultPlanSettle; 0s disables the wait
	Margin     float64        `yaml:"margin"`
	ImageWidth float64        `yaml:"image_width"`
	Engine     Engine         `yaml:"engine"`
	Stealth    bool           `yaml:"stealth"`
}

// DefaultPlanSettle is the settle delay of a plan that does not set one.
const DefaultPlanSettle = 2 * time.Second

// SettleDelay returns the configured settle delay, or [DefaultPlanSettle]
// when the plan leaves it unset.
func (s ScreenshotPlan) SettleDelay() time.Duration {
	if s.Settle == nil {
		return DefaultPlanSettle
	}
	return *s.Settle
}

// Viewport is a browser viewport in CSS pixels.
type Viewport struct {
	Width  int64 `yaml:"width"`
	Height int64 `yaml:"height"`
}

// DefaultPlan returns the built-in fund comparison plan, resolved against
// the working directory.
func DefaultPlan() (*Plan, error) {
	return ParsePlan(bytes.NewReader(defaultPlanYAML), "")
}

// LoadPlan reads a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: %w", err)
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: resolving path: %w", err)
	}
	return ParsePlan(f, filepath.Dir(abs))
}

// ParsePlan decodes a YAML plan. Unknown fields are rejected. dir is the
// directory relative paths resolve against.
func ParsePlan(r io.Reader, dir string) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	p.dir = dir
	p.defaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) defaults() {
	if p.Extract.OutputDir == "" {
		p.Extract.OutputDir = "images"
	}
	if p.Extract.Scale <= 0 {
		p.Extract.Scale = DefaultScale
	}
	if p.Assemble.BaseDir == "" {
		p.Assemble.BaseDir = "."
	}
	if p.Screenshot.Dir == "" {
		p.Screenshot.Dir = "screenshots"
	}
	if p.Screenshot.Selector == "" {
		p.Screenshot.Selector = DefaultSelector
	}
	if p.Screenshot.Viewport == (Viewport{}) {
		p.Screenshot.Viewport.Width, p.Screenshot.Viewport.Height = A4.Viewport()
	}
	if p.Screenshot.Settle == nil {
		settle := DefaultPlanSettle
		p.Screenshot.Settle = &settle
	}
	if p.Screenshot.Engine == "" {
		p.Screenshot.Engine = EngineChromedp
	}
}

// Validate reports every structural problem in the plan. The returned error
// wraps [ErrInvalidPlan].
func (p *Plan) Validate() error {
	var errs error
	for _, src := range p.Extract.Sources {
		if src.Path == "" {
			errs = multierr.Append(errs, errors.New("extract source without path"))
		}
		for _, ref := range src.Pages {
			if ref.Page < 1 {
				errs = multierr.Append(errs, fmt.Errorf("%s: page %d must be 1 or greater", src.Path, ref.Page))
			}
			if ref.Name == "" || strings.ContainsAny(ref.Name, `/\`) {
				errs = multierr.Append(errs, fmt.Errorf("%s: page %d: invalid output name %q", src.Path, ref.Page, ref.Name))
			}
		}
	}
	for i, b := range p.Assemble.Blocks {
		if n := b.kinds(); n != 1 {
			errs = multierr.Append(errs, fmt.Errorf("block %d: exactly one element required, found %d", i+1, n))
		}
		if b.Width != 0 && b.Image == "" {
			errs = multierr.Append(errs, fmt.Errorf("block %d: width applies to images only", i+1))
		}
	}
	if ph := p.Assemble.Placeholder; ph != "" && strings.Count(ph, "%s") != 1 {
		errs = multierr.Append(errs, fmt.Errorf("placeholder %q must contain one %%s", ph))
	}
	switch p.Screenshot.Engine {
	case EngineChromedp, EngineRod:
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown screenshot engine %q", p.Screenshot.Engine))
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, errs)
	}
	return nil
}

// Check verifies that every source PDF exists and holds the planned pages.
// All problems are reported together.
func (p *Plan) Check() error {
	var errs error
	for _, src := range p.Extract.Sources {
		info, err := Inspect(p.Path(src.Path))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, ref := range src.Pages {
			if !info.HasPage(ref.Page) {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s page %d of %d (%s)",
					ErrPageRange, src.Path, ref.Page, info.PageCount, ref.Name))
			}
		}
	}
	return errs
}

// Path resolves rel against the plan directory.
func (p *Plan) Path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) || p.dir == "" {
		return rel
	}
	return filepath.Join(p.dir, rel)
}

// Sources returns the extract sources with paths resolved.
func (p *Plan) Sources() []Source {
	out := make([]Source, len(p.Extract.Sources))
	for i, s := range p.Extract.Sources {
		s.Path = p.Path(s.Path)
		out[i] = s
	}
	return out
}

// Composer returns a Composer configured from the assemble section.
func (p *Plan) Composer() *Composer {
	a := p.Assemble
	return NewComposer(ComposerConfig{
		BaseDir:     p.Path(a.BaseDir),
		Font:        a.Font,
		FontSize:    a.FontSize,
		ImageWidth:  a.ImageWidth,
		Placeholder: a.Placeholder,
	})
}

// BuildReport builds the report described by the assemble section.
func (p *Plan) BuildReport() (*Result, error) {
	c := p.Composer()
	if err := c.Apply(p.Assemble.Blocks); err != nil {
		return nil, err
	}
	return c.Result()
}

// CaptureOptions returns the capture options of the screenshot section.
func (p *Plan) CaptureOptions() []Option {
	s := p.Screenshot
	opts := []Option{
		WithEngine(s.Engine),
		WithSelector(s.Selector),
		WithViewport(s.Viewport.Width, s.Viewport.Height),
		WithSettleDelay(s.SettleDelay()),
	}
	if s.Stealth {
		opts = append(opts, WithStealth())
	}
	return opts
}

// ScreenshotLayout returns the document layout of the screenshot section.
func (p *Plan) ScreenshotLayout() *ScreenshotLayout {
	return &ScreenshotLayout{Margin: p.Screenshot.Margin, ImageWidth: p.Screenshot.ImageWidth}
}
