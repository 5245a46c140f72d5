package pdfdocx

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// rodEngine drives Chrome with go-rod. With stealth enabled every page is
// opened through go-rod/stealth, which hides the usual headless markers.
type rodEngine struct {
	cfg      captureConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodEngine(cfg captureConfig, bin string) (*rodEngine, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-first-run")
	if bin != "" {
		l = l.Bin(bin)
	}
	if cfg.noSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("pdfdocx: starting browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("pdfdocx: connecting to browser: %w", err)
	}
	return &rodEngine{cfg: cfg, launcher: l, browser: b}, nil
}

func (e *rodEngine) close() error {
	err := e.browser.Close()
	e.launcher.Kill()
	return err
}

func (e *rodEngine) newPage() (*rod.Page, error) {
	if e.cfg.stealth {
		return stealth.Page(e.browser)
	}
	return e.browser.Page(proto.TargetCreateTarget{})
}

func (e *rodEngine) shoot(ctx context.Context, targetURL string) ([][]byte, error) {
	p, err := e.newPage()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	p = p.Context(ctx)

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             int(e.cfg.viewportW),
		Height:            int(e.cfg.viewportH),
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, err
	}

	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := p.Navigate(targetURL); err != nil {
		return nil, err
	}
	wait()
	if err := sleepContext(ctx, e.cfg.settle); err != nil {
		return nil, err
	}

	els, err := p.Elements(e.cfg.selector)
	if err != nil {
		return nil, err
	}
	shots := make([][]byte, 0, len(els))
	for _, el := range els {
		png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
		if err != nil {
			return nil, err
		}
		shots = append(shots, png)
	}
	return shots, nil
}
