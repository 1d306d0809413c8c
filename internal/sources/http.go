package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// HTTPFetcher downloads catalog pages over plain HTTP with a browser
// user agent. Cookies persist across calls so session-gated catalogs
// keep working between pages.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	headers   map[string]string
}

func NewHTTPFetcher(userAgent string, headers map[string]string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	jar, _ := cookiejar.New(nil)
	return &HTTPFetcher{
		client:    &http.Client{Timeout: 30 * time.Second, Jar: jar},
		userAgent: userAgent,
		headers:   headers,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-AR,es;q=0.9,en;q=0.5")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
