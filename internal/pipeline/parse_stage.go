package pipeline

import (
	"restocompras/internal"
	"restocompras/internal/config"
	"restocompras/internal/parse"
)

// BuildTitleConfig maps the YAML parser overlay onto the title parser.
func BuildTitleConfig(cfg config.ParserConfig) parse.TitleConfig {
	out := parse.TitleConfig{
		DefaultUnit:         internal.UnitCode(cfg.DefaultUnit),
		SplitBrand:          cfg.BrandSplit,
		DescriptionFallback: cfg.DescriptionFallback,
		ForceKilo:           cfg.ForceKilo,
	}
	if len(cfg.ExtraUnits) > 0 {
		out.ExtraUnits = make(map[string]internal.UnitCode, len(cfg.ExtraUnits))
		for token, unit := range cfg.ExtraUnits {
			out.ExtraUnits[token] = internal.UnitCode(unit)
		}
	}
	return out
}

func buildPriceFormat(cfg config.PriceFormat) parse.PriceFormat {
	return parse.PriceFormat{
		Thousands:  cfg.Thousands,
		Decimal:    cfg.Decimal,
		Currencies: cfg.Currencies,
	}
}

// ParseProducts runs the shared parsing stage over one supplier's raw
// extractions: clean the price, split the title into name, quantity and
// unit, fill defaults and collapse duplicates. Rows whose price cleans
// to zero are dropped before normalization.
func ParseProducts(raws []internal.RawProduct, cfg config.SupplierConfig) []internal.ProductRecord {
	parser := parse.NewTitleParser(BuildTitleConfig(cfg.Parser))
	priceFormat := buildPriceFormat(cfg.PriceFormat)

	records := make([]internal.ProductRecord, 0, len(raws))
	for _, raw := range raws {
		price := parse.CleanPrice(raw.PriceText, priceFormat)
		if price.Numeric <= 0 {
			continue
		}

		title := raw.Title
		brand := ""
		if cfg.Parser.BrandSplit {
			if name, b, ok := parser.SplitBrand(title); ok {
				title, brand = name, b
			}
		}

		var parsed parse.ParsedTitle
		if cfg.Parser.DescriptionFallback {
			parsed = parser.ParseWithDescription(title, raw.Description)
		} else {
			parsed = parser.Parse(title)
		}
		if parsed.Name == "" {
			continue
		}

		records = append(records, parse.Standardize(parse.PartialRecord{
			Name:        parsed.Name,
			Brand:       brand,
			Description: raw.Description,
			Price:       price.Numeric,
			Image:       raw.Image,
			Unit:        parsed.Unit,
			Quantity:    parsed.Quantity,
		}, cfg.SupplierID, cfg.SupplierName))
	}

	return parse.Deduplicate(records)
}
