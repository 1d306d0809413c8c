package pipeline

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"restocompras/internal"
	"restocompras/internal/config"
)

var spaceRe = regexp.MustCompile(`\s+`)

// lazy-loading themes stash the real URL in data attributes
var imageAttrs = []string{"data-src", "data-lazy-src", "data-srcset", "src"}

// ExtractHTML pulls raw products out of a catalog page using the
// supplier's CSS selectors. Cards flagged out of stock, or without a
// purchase control when one is configured, are dropped here.
func ExtractHTML(html string, pageURL string, sel config.SelectorConfig) ([]internal.RawProduct, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(pageURL)

	out := []internal.RawProduct{}
	doc.Find(sel.ProductList).Each(func(_ int, card *goquery.Selection) {
		title := normalizeSpaces(card.Find(sel.Title).First().Text())
		if title == "" {
			return
		}
		if sel.OutOfStock != "" && card.Find(sel.OutOfStock).Length() > 0 {
			return
		}
		if sel.AddToCart != "" && card.Find(sel.AddToCart).Length() == 0 {
			return
		}

		raw := internal.RawProduct{
			Title:     title,
			PriceText: normalizeSpaces(card.Find(sel.Price).First().Text()),
		}
		if sel.Description != "" {
			raw.Description = normalizeSpaces(card.Find(sel.Description).First().Text())
		}
		if sel.Image != "" {
			raw.Image = resolveImageURL(card.Find(sel.Image).First(), base)
		}
		out = append(out, raw)
	})

	return out, nil
}

func resolveImageURL(img *goquery.Selection, base *url.URL) string {
	for _, attr := range imageAttrs {
		value, ok := img.Attr(attr)
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" || strings.HasPrefix(value, "data:") {
			continue
		}
		// srcset: take the first candidate
		if attr == "data-srcset" {
			value = strings.TrimSpace(strings.Split(strings.Split(value, ",")[0], " ")[0])
		}
		if base != nil {
			if ref, err := url.Parse(value); err == nil {
				return base.ResolveReference(ref).String()
			}
		}
		return value
	}
	return ""
}

func normalizeSpaces(input string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(input, " "))
}
