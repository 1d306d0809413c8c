package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// BrowserFetcher renders JS-heavy storefronts in headless Chrome and
// returns the settled DOM. The browser launches lazily on first use and
// stays up for the rest of the run.
type BrowserFetcher struct {
	log     *slog.Logger
	browser *rod.Browser
	lnch    *launcher.Launcher
}

func NewBrowserFetcher(log *slog.Logger) *BrowserFetcher {
	return &BrowserFetcher{log: log}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := f.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := stealth.Page(f.browser)
	if err != nil {
		return nil, fmt.Errorf("creating stealth page: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("navigating %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		f.log.Warn("page load wait timed out", "url", pageURL, "error", err)
	}

	// scroll to the bottom so lazy product grids finish rendering
	for i := 0; i < 5; i++ {
		if _, err := page.Context(navCtx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}

	html, err := page.Context(navCtx).HTML()
	if err != nil {
		return nil, fmt.Errorf("reading DOM of %s: %w", pageURL, err)
	}
	return []byte(html), nil
}

func (f *BrowserFetcher) ensureBrowser() error {
	if f.browser != nil {
		return nil
	}

	f.lnch = launcher.New().Headless(true).NoSandbox(true)
	controlURL, err := f.lnch.Launch()
	if err != nil {
		return fmt.Errorf("launching chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		f.lnch.Cleanup()
		return fmt.Errorf("connecting to chrome: %w", err)
	}

	f.browser = browser
	return nil
}

// Close tears down the browser if one was launched.
func (f *BrowserFetcher) Close() {
	if f.browser != nil {
		_ = f.browser.Close()
		f.browser = nil
	}
	if f.lnch != nil {
		f.lnch.Cleanup()
		f.lnch = nil
	}
}
