package pdfdocx

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
)

// browserPath picks the Chrome executable for a capture engine. An explicit
// path wins; otherwise, with auto-download enabled, a compatible Chromium is
// fetched into ~/.cache/rod/browser (Unix) or %APPDATA%\rod\browser
// (Windows). An empty result lets the engine search standard locations.
func browserPath(cfg captureConfig) (string, error) {
	if cfg.chromePath != "" {
		return cfg.chromePath, nil
	}
	if !cfg.autoDownload {
		return "", nil
	}
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("pdfdocx: downloading browser: %w", err)
	}
	cfg.logger.Debug("using downloaded chromium", zap.String("path", path))
	return path, nil
}
