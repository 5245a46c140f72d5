package docx

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	// Decoders registered for picture sizing.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/gomutex/godocx/common/units"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// pictureFormats are the decoded formats godocx can register a content type for.
var pictureFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"tiff": true,
}

// AddPicture embeds the image at path in a new paragraph, scaled to width
// with its aspect ratio preserved.
func (d *Document) AddPicture(path string, width Inches) (*Paragraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docx: reading picture: %w", err)
	}
	return d.AddPictureData(filepath.Base(path), data, width)
}

// AddPictureData embeds encoded image data in a new paragraph. name is only
// used in error messages.
func (d *Document) AddPictureData(name string, data []byte, width Inches) (*Paragraph, error) {
	if width <= 0 {
		return nil, fmt.Errorf("docx: picture width must be positive, got %v", width)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("docx: decoding picture %q: %w", name, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("docx: picture %q has zero size", name)
	}

	// Word has no reliable WebP support; store it as PNG.
	if format == "webp" {
		data, err = webpToPNG(data)
		if err != nil {
			return nil, fmt.Errorf("docx: converting picture %q: %w", name, err)
		}
		format = "png"
	}
	if !pictureFormats[format] {
		return nil, fmt.Errorf("docx: unsupported picture format %q", format)
	}

	// godocx reads pictures from disk and derives the media extension from
	// the file name.
	dir, err := os.MkdirTemp("", "docx-picture-")
	if err != nil {
		return nil, fmt.Errorf("docx: staging picture %q: %w", name, err)
	}
	defer os.RemoveAll(dir)
	staged := filepath.Join(dir, "picture."+format)
	if err := os.WriteFile(staged, data, 0o600); err != nil {
		return nil, fmt.Errorf("docx: staging picture %q: %w", name, err)
	}

	height := float64(width) * float64(cfg.Height) / float64(cfg.Width)
	meta, err := d.root.AddPicture(staged, units.Inch(width), units.Inch(height))
	if err != nil {
		return nil, fmt.Errorf("docx: embedding picture %q: %w", name, err)
	}
	p := d.track(meta.Para)
	d.stats.Images++
	return p, nil
}

func webpToPNG(data []byte) ([]byte, error) {
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
