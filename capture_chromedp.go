package pdfdocx

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// chromedpEngine drives a single Chrome process over the DevTools Protocol.
// Every capture runs in its own tab.
type chromedpEngine struct {
	cfg           captureConfig
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func newChromedpEngine(cfg captureConfig, bin string) (*chromedpEngine, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", cfg.headless),
		chromedp.WindowSize(int(cfg.viewportW), int(cfg.viewportH)),
	)
	if bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(bin))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("pdfdocx: starting browser: %w", err)
	}

	return &chromedpEngine{
		cfg:           cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

func (e *chromedpEngine) close() error {
	e.browserCancel()
	e.allocCancel()
	return nil
}

func (e *chromedpEngine) shoot(ctx context.Context, targetURL string) ([][]byte, error) {
	tabCtx, tabCancel := chromedp.NewContext(e.browserCtx)
	defer tabCancel()
	// Tab contexts derive from the browser, so the caller's deadline is
	// bridged by cancelling the tab.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	idle := make(chan struct{})
	var (
		once       sync.Once
		navigating bool
	)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		le, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		switch le.Name {
		case "init":
			navigating = true
		case "networkIdle":
			if navigating {
				once.Do(func() { close(idle) })
			}
		}
	})

	var nodes []*cdp.Node
	err := chromedp.Run(tabCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.EmulateViewport(e.cfg.viewportW, e.cfg.viewportH),
		chromedp.Navigate(targetURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-idle:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return sleepContext(ctx, e.cfg.settle)
		}),
		chromedp.Nodes(e.cfg.selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, contextErr(ctx, err)
	}

	shots := make([][]byte, 0, len(nodes))
	for _, n := range nodes {
		var buf []byte
		if err := chromedp.Run(tabCtx,
			chromedp.Screenshot([]cdp.NodeID{n.NodeID}, &buf, chromedp.ByNodeID),
		); err != nil {
			return nil, contextErr(ctx, err)
		}
		shots = append(shots, buf)
	}
	return shots, nil
}

// contextErr prefers the caller's context error over the generic
// cancellation reported by a torn-down tab.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
