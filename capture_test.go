package pdfdocx_test

import (
	"context"
	"errors"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	pdfdocx "github.com/porticus-lab/go-pdf-docx"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func skipIfNoChrome(t *testing.T) {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
}

func newTestCapturer(t *testing.T, opts ...pdfdocx.Option) *pdfdocx.Capturer {
	t.Helper()
	skipIfNoChrome(t)
	opts = append([]pdfdocx.Option{
		pdfdocx.WithNoSandbox(),
		pdfdocx.WithSettleDelay(100 * time.Millisecond),
	}, opts...)
	c, err := pdfdocx.NewCapturer(opts...)
	if err != nil {
		t.Fatalf("NewCapturer: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

const threePages = `<!DOCTYPE html>
<html>
<head><style>
  body { margin: 0; font-family: sans-serif; }
  .page { width: 794px; height: 400px; page-break-after: always; background: #eef; }
  .page h1 { margin: 0; padding: 2rem; }
</style></head>
<body>
  <div class="page"><h1>One</h1></div>
  <div class="page"><h1>Two</h1></div>
  <div class="page"><h1>Three</h1></div>
</body>
</html>`

func writeHTML(t *testing.T, html string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testCaptureDocument(t *testing.T, c *pdfdocx.Capturer) {
	t.Helper()
	shotDir := filepath.Join(t.TempDir(), "screenshots")

	res, err := c.CaptureDocument(context.Background(), writeHTML(t, threePages), shotDir, nil)
	if err != nil {
		t.Fatalf("CaptureDocument: %v", err)
	}

	shots := res.Shots()
	if len(shots) != 3 {
		t.Fatalf("captured %d sections, want 3", len(shots))
	}
	for i, p := range shots {
		if want := filepath.Join(shotDir, "page_"+string(rune('1'+i))+".png"); p != want {
			t.Errorf("shot %d = %s, want %s", i+1, p, want)
		}
		f, err := os.Open(p)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s is not a PNG: %v", p, err)
		}
		if cfg.Width < 700 || cfg.Height < 350 {
			t.Errorf("%s is %dx%d, expected the 794x400 section", p, cfg.Width, cfg.Height)
		}
	}

	st := res.Stats()
	if st.Images != 3 || st.PageBreaks != 2 {
		t.Errorf("images = %d, page breaks = %d, want 3 and 2", st.Images, st.PageBreaks)
	}
}

func TestCaptureDocument_Chromedp(t *testing.T) {
	testCaptureDocument(t, newTestCapturer(t))
}

func TestCaptureDocument_Rod(t *testing.T) {
	testCaptureDocument(t, newTestCapturer(t, pdfdocx.WithEngine(pdfdocx.EngineRod)))
}

func TestCaptureDocument_RodStealth(t *testing.T) {
	testCaptureDocument(t, newTestCapturer(t,
		pdfdocx.WithEngine(pdfdocx.EngineRod),
		pdfdocx.WithStealth(),
	))
}

func TestCapture_CustomSelector(t *testing.T) {
	c := newTestCapturer(t, pdfdocx.WithSelector("h1"))
	shots, err := c.Capture(context.Background(), writeHTML(t, threePages), t.TempDir())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if len(shots) != 3 {
		t.Errorf("captured %d headings, want 3", len(shots))
	}
}

func TestCapture_NoSections(t *testing.T) {
	c := newTestCapturer(t)
	_, err := c.Capture(context.Background(), writeHTML(t, "<p>no sections</p>"), t.TempDir())
	if !errors.Is(err, pdfdocx.ErrNoPages) {
		t.Fatalf("err = %v, want ErrNoPages", err)
	}
}

func TestCapture_NotFound(t *testing.T) {
	c := newTestCapturer(t)
	if _, err := c.Capture(context.Background(), "/nonexistent/file.html", t.TempDir()); err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestCapture_Timeout(t *testing.T) {
	c := newTestCapturer(t, pdfdocx.WithSettleDelay(5*time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := c.Capture(ctx, writeHTML(t, threePages), t.TempDir())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestCapturer_CloseIdempotent(t *testing.T) {
	skipIfNoChrome(t)

	c, err := pdfdocx.NewCapturer(pdfdocx.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestCapturer_UsedAfterClose(t *testing.T) {
	skipIfNoChrome(t)

	c, err := pdfdocx.NewCapturer(pdfdocx.WithNoSandbox())
	if err != nil {
		t.Fatal(err)
	}
	c.Close()

	_, err = c.Capture(context.Background(), "report.html", t.TempDir())
	if err != pdfdocx.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNewCapturer_UnknownEngine(t *testing.T) {
	if _, err := pdfdocx.NewCapturer(pdfdocx.WithEngine("webkit")); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestCapture_RemovesOldScreenshots(t *testing.T) {
	c := newTestCapturer(t)
	shotDir := t.TempDir()
	stale := filepath.Join(shotDir, "page_7.png")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	shots, err := c.Capture(context.Background(), writeHTML(t, threePages), shotDir)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if len(shots) != 3 {
		t.Fatalf("captured %d sections, want 3", len(shots))
	}
	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("screenshot from an earlier run survived: %v", err)
	}
	left, _ := filepath.Glob(filepath.Join(shotDir, "page_*.png"))
	if len(left) != 3 {
		t.Errorf("directory holds %d screenshots, want 3", len(left))
	}
}

func TestCaptureDocument_PackageLevel(t *testing.T) {
	skipIfNoChrome(t)

	res, err := pdfdocx.CaptureDocument(
		context.Background(),
		writeHTML(t, threePages),
		t.TempDir(),
		&pdfdocx.ScreenshotLayout{Margin: 0.5, ImageWidth: 7.5},
		pdfdocx.WithNoSandbox(),
		pdfdocx.WithSettleDelay(0),
	)
	if err != nil {
		t.Fatalf("CaptureDocument: %v", err)
	}
	if res.Len() < 1000 {
		t.Errorf("docx unexpectedly small: %d bytes", res.Len())
	}
}
