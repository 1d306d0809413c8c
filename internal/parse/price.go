package parse

import (
	"sort"
	"strconv"
	"strings"
)

// PriceFormat describes how one supplier writes prices: which character
// groups thousands, which marks the decimal, and which currency prefixes
// may appear. Immutable for a run.
type PriceFormat struct {
	Thousands  string
	Decimal    string
	Currencies []string
}

// DefaultPriceFormat is the convention most suppliers use:
// "$1.234,56" means 1234.56.
func DefaultPriceFormat() PriceFormat {
	return PriceFormat{
		Thousands:  ".",
		Decimal:    ",",
		Currencies: []string{"US$", "AR$", "$"},
	}
}

// ParsedPrice carries the numeric value and a display string. Numeric == 0
// is the "could not price this row" sentinel, not a real price; Formatted
// then holds the original trimmed text.
type ParsedPrice struct {
	Numeric   float64
	Formatted string
}

// CleanPrice strips currency markers and locale separators from a raw price
// string and parses it as a float. It never fails: unparseable input yields
// the zero sentinel, which downstream stages treat as a rejection signal.
func CleanPrice(text string, format PriceFormat) ParsedPrice {
	if format.Thousands == "" && format.Decimal == "" && len(format.Currencies) == 0 {
		format = DefaultPriceFormat()
	}

	// Longer symbols first so "US$" is not left as "US" after "$" removal,
	// whatever order the supplier config lists them in.
	symbols := make([]string, len(format.Currencies))
	copy(symbols, format.Currencies)
	sort.Slice(symbols, func(i, j int) bool { return len(symbols[i]) > len(symbols[j]) })

	cleaned := text
	for _, symbol := range symbols {
		cleaned = strings.ReplaceAll(cleaned, symbol, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	if format.Thousands != "" {
		cleaned = strings.ReplaceAll(cleaned, format.Thousands, "")
	}
	if format.Decimal != "" && format.Decimal != "." {
		cleaned = strings.ReplaceAll(cleaned, format.Decimal, ".")
	}
	cleaned = strings.TrimSpace(cleaned)

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return ParsedPrice{Numeric: 0, Formatted: strings.TrimSpace(text)}
	}

	return ParsedPrice{Numeric: value, Formatted: strconv.FormatFloat(value, 'f', 2, 64)}
}
