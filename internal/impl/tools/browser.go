package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// BrowserFetcher renders pages in a headless Chromium so script-built content is
// visible to the extractor. The browser is launched on first use.
type BrowserFetcher struct {
	headless bool
	logger   *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

func NewBrowserFetcher(headless bool, logger *zap.Logger) *BrowserFetcher {
	return &BrowserFetcher{headless: headless, logger: logger}
}

func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	browser, err := b.ensureBrowser()
	if err != nil {
		return "", err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", url, err)
	}
	defer page.Close()

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("failed to load %s: %w", url, err)
	}

	source, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}

	b.logger.Debug("Rendered page", zap.String("url", url), zap.Int("bytes", len(source)))
	return source, nil
}

func (b *BrowserFetcher) ensureBrowser() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().Headless(b.headless)
	controlURL, err := l.Launch()
	if err != nil {
		b.logger.Error("Failed to launch browser", zap.Error(err))
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	b.browser = browser
	return browser, nil
}

// Close shuts the browser down if it was started.
func (b *BrowserFetcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}

var _ PageFetcher = (*BrowserFetcher)(nil)
