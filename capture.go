package pdfdocx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// engine renders a page and screenshots every element matching a selector.
type engine interface {
	shoot(ctx context.Context, targetURL string) ([][]byte, error)
	close() error
}

// Capturer screenshots the page sections of local HTML files.
//
// A Capturer manages a headless browser instance that is reused across
// captures. It is safe for concurrent use.
//
// Call [Capturer.Close] when the Capturer is no longer needed to release
// browser resources.
type Capturer struct {
	cfg captureConfig
	eng engine

	mu     sync.Mutex
	closed bool
}

// NewCapturer starts a headless browser with the given options. The caller
// must call [Capturer.Close] when finished.
func NewCapturer(opts ...Option) (*Capturer, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	bin, err := browserPath(cfg)
	if err != nil {
		return nil, err
	}

	var eng engine
	switch cfg.engine {
	case EngineChromedp:
		eng, err = newChromedpEngine(cfg, bin)
	case EngineRod:
		eng, err = newRodEngine(cfg, bin)
	default:
		return nil, fmt.Errorf("pdfdocx: unknown engine %q", cfg.engine)
	}
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("browser started", zap.String("engine", string(cfg.engine)))

	return &Capturer{cfg: cfg, eng: eng}, nil
}

// Close releases all resources held by the Capturer, including the
// browser process. Close is idempotent.
func (c *Capturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.eng.close()
}

// Capture opens htmlPath, waits for the network to go idle and the settle
// delay to pass, then writes one PNG per page section to
// <shotDir>/page_<i>.png, numbered from 1 in document order. Screenshots
// from an earlier capture into shotDir are removed first. It returns the
// written paths. A page without any matching section yields [ErrNoPages].
func (c *Capturer) Capture(ctx context.Context, htmlPath, shotDir string) ([]string, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: resolving path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("pdfdocx: %w", err)
	}

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	targetURL := "file://" + filepath.ToSlash(abs)
	c.cfg.logger.Info("capturing", zap.String("url", targetURL), zap.String("selector", c.cfg.selector))

	shots, err := c.eng.shoot(ctx, targetURL)
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: capture failed: %w", err)
	}
	if len(shots) == 0 {
		return nil, fmt.Errorf("%w: selector %q in %s", ErrNoPages, c.cfg.selector, htmlPath)
	}

	if err := os.MkdirAll(shotDir, 0o755); err != nil {
		return nil, fmt.Errorf("pdfdocx: creating screenshot directory: %w", err)
	}
	if err := clearShots(shotDir); err != nil {
		return nil, err
	}
	paths := make([]string, len(shots))
	for i, png := range shots {
		p := filepath.Join(shotDir, fmt.Sprintf("page_%d.png", i+1))
		if err := os.WriteFile(p, png, 0o644); err != nil {
			return nil, fmt.Errorf("pdfdocx: writing %s: %w", p, err)
		}
		paths[i] = p
		c.cfg.logger.Debug("section captured", zap.Int("page", i+1), zap.Int("bytes", len(png)))
	}
	return paths, nil
}

// clearShots removes page_*.png files left in dir by an earlier capture, so
// the directory only ever holds the sections of the latest page.
func clearShots(dir string) error {
	stale, err := filepath.Glob(filepath.Join(dir, "page_*.png"))
	if err != nil {
		return fmt.Errorf("pdfdocx: listing old screenshots: %w", err)
	}
	for _, p := range stale {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("pdfdocx: removing old screenshot: %w", err)
		}
	}
	return nil
}

// CaptureDocument captures htmlPath like [Capturer.Capture] and lays the
// screenshots out in a Word document with [BuildScreenshotDocument].
func (c *Capturer) CaptureDocument(ctx context.Context, htmlPath, shotDir string, layout *ScreenshotLayout) (*Result, error) {
	shots, err := c.Capture(ctx, htmlPath, shotDir)
	if err != nil {
		return nil, err
	}
	return BuildScreenshotDocument(shots, layout)
}

func (c *Capturer) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- Package-level convenience functions ---

// Capture screenshots the page sections of htmlPath using a temporary
// [Capturer]. For repeated use, create a [Capturer] with [NewCapturer] to
// reuse the browser instance.
func Capture(ctx context.Context, htmlPath, shotDir string, opts ...Option) ([]string, error) {
	c, err := NewCapturer(opts...)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Capture(ctx, htmlPath, shotDir)
}

// CaptureDocument captures htmlPath and builds the screenshot document using
// a temporary [Capturer].
func CaptureDocument(ctx context.Context, htmlPath, shotDir string, layout *ScreenshotLayout, opts ...Option) (*Result, error) {
	c, err := NewCapturer(opts...)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.CaptureDocument(ctx, htmlPath, shotDir, layout)
}
