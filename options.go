package pdfdocx

import (
	"time"

	"go.uber.org/zap"
)

// Engine selects the browser-automation backend of a [Capturer].
type Engine string

const (
	// EngineChromedp drives Chrome over the DevTools Protocol with chromedp.
	EngineChromedp Engine = "chromedp"
	// EngineRod drives Chrome with go-rod, optionally with stealth pages.
	EngineRod Engine = "rod"
)

// DefaultSelector marks the elements captured as individual pages.
const DefaultSelector = ".page"

// captureConfig holds internal configuration for a Capturer.
type captureConfig struct {
	engine       Engine
	chromePath   string
	autoDownload bool
	timeout      time.Duration
	noSandbox    bool
	headless     string
	stealth      bool
	viewportW    int64
	viewportH    int64
	settle       time.Duration
	selector     string
	logger       *zap.Logger
}

func defaultConfig() captureConfig {
	w, h := A4.Viewport()
	return captureConfig{
		engine:    EngineChromedp,
		timeout:   60 * time.Second,
		headless:  "new",
		viewportW: w,
		viewportH: h,
		settle:    2 * time.Second,
		selector:  DefaultSelector,
		logger:    zap.L(),
	}
}

// Option configures a [Capturer].
type Option func(*captureConfig)

// WithEngine selects the browser-automation backend. Defaults to
// [EngineChromedp].
func WithEngine(e Engine) Option {
	return func(c *captureConfig) {
		if e != "" {
			c.engine = e
		}
	}
}

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *captureConfig) {
		c.chromePath = path
	}
}

// WithAutoDownload downloads a compatible Chromium build when no
// executable path is configured.
func WithAutoDownload() Option {
	return func(c *captureConfig) {
		c.autoDownload = true
	}
}

// WithTimeout sets the maximum duration for a single capture.
// Defaults to 60 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *captureConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *captureConfig) {
		c.noSandbox = true
	}
}

// WithStealth opens pages through go-rod/stealth. Only the rod engine
// honours it.
func WithStealth() Option {
	return func(c *captureConfig) {
		c.stealth = true
	}
}

// WithViewport sets the browser viewport in CSS pixels. Defaults to A4 at
// 96 px per inch (794×1123).
func WithViewport(width, height int64) Option {
	return func(c *captureConfig) {
		if width > 0 && height > 0 {
			c.viewportW, c.viewportH = width, height
		}
	}
}

// WithSettleDelay sets the fixed wait after the network goes idle, giving
// scripts and charts time to finish drawing. Defaults to 2 seconds.
func WithSettleDelay(d time.Duration) Option {
	return func(c *captureConfig) {
		if d >= 0 {
			c.settle = d
		}
	}
}

// WithSelector sets the CSS selector of page sections. Defaults to
// [DefaultSelector].
func WithSelector(sel string) Option {
	return func(c *captureConfig) {
		if sel != "" {
			c.selector = sel
		}
	}
}

// WithLogger sets the logger. Defaults to the zap global logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *captureConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
