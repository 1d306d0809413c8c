// Package sources fetches supplier price lists from their various
// homes: plain HTTP catalogs, JS-rendered storefronts and local files.
package sources

import "context"

// Fetcher retrieves the raw bytes of one price list page or file.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}
