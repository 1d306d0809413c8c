package parse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"restocompras/internal"
)

// ParsedTitle is the canonical (name, quantity, unit) triple extracted from
// a supplier title. Quantity is numeric text and Unit is always one of the
// closed UnitCode set.
type ParsedTitle struct {
	Name     string
	Quantity string
	Unit     internal.UnitCode
}

// TitleConfig tunes the shared extraction cascade per supplier. The zero
// value is the generic parser used by most suppliers.
type TitleConfig struct {
	// DefaultUnit is assigned when no quantity+unit token is found.
	// Empty means UNIT.
	DefaultUnit internal.UnitCode

	// ExtraUnits extends the unit vocabulary, e.g. {"lts": UnitL} for a
	// supplier that writes "*1.5 LTS".
	ExtraUnits map[string]internal.UnitCode

	// SplitBrand enables the "last word before x<qty><unit> is the brand"
	// pre-step some wholesalers use ("Aderezo Caesar Abedul x 20 g – ...").
	SplitBrand bool

	// DescriptionFallback recovers a unit from secondary text when the title
	// carries none, matching parenthetical weights like "(4kg aprox.)".
	DescriptionFallback bool

	// ForceKilo turns a trailing "por kilo" phrase into unit=KG,
	// quantity="1" when the title carries no other unit. It runs before
	// DescriptionFallback, so a per-kilo title never picks up a weight
	// from its description.
	ForceKilo bool
}

// Token vocabulary shared by all suppliers. "un", "u" and "lb" land on G:
// a quirk of the upstream catalog this feeds, kept as-is.
var baseUnits = map[string]internal.UnitCode{
	"gr": internal.UnitG, "g": internal.UnitG, "gramo": internal.UnitG, "gramos": internal.UnitG,
	"un": internal.UnitG, "u": internal.UnitG, "lb": internal.UnitG,
	"kilos": internal.UnitKG, "kilo": internal.UnitKG, "kg": internal.UnitKG, "k": internal.UnitKG,
	"litros": internal.UnitL, "litro": internal.UnitL, "l": internal.UnitL,
	"cc": internal.UnitML, "ml": internal.UnitML, "mililitro": internal.UnitML, "mililitros": internal.UnitML,
}

var (
	leadingCode = regexp.MustCompile(`^\s*\d{3}\s+`)
	porKilo     = regexp.MustCompile(`(?i)\s*por\s+kilo\s*$`)
	spaces      = regexp.MustCompile(`\s+`)
	brandSplit  = regexp.MustCompile(`(?i)\s+x\s*[\d–—-]`)
	descWeight  = regexp.MustCompile(`(?i)[([]?\s*(\d+(?:[.,]\d+)?)\s*(kilos|kilo|kg|gramos|gramo|gr|g|litros|litro|l|cc|ml)\s*(?:aprox\.?|aproximadamente)?[)\]]?`)
)

// TitleParser extracts quantity and unit tokens from free-text product
// titles. Construct once per supplier via NewTitleParser; safe for
// concurrent use.
type TitleParser struct {
	cfg     TitleConfig
	units   map[string]internal.UnitCode
	atEnd   *regexp.Regexp
	atDash  *regexp.Regexp
	inBody  *regexp.Regexp
}

func NewTitleParser(cfg TitleConfig) *TitleParser {
	if cfg.DefaultUnit == "" {
		cfg.DefaultUnit = internal.UnitUnit
	}

	units := make(map[string]internal.UnitCode, len(baseUnits)+len(cfg.ExtraUnits))
	for token, unit := range baseUnits {
		units[token] = unit
	}
	for token, unit := range cfg.ExtraUnits {
		units[strings.ToLower(token)] = unit
	}

	core := `(?:\bx\s*)?(\d+(?:[.,]\d+)?)\s*(` + unitAlternation(units) + `)\b\.?`
	return &TitleParser{
		cfg:    cfg,
		units:  units,
		atEnd:  regexp.MustCompile(`(?i)` + core + `\s*$`),
		atDash: regexp.MustCompile(`(?i)` + core + `\s*[–—-]\s*`),
		inBody: regexp.MustCompile(`(?i)` + core),
	}
}

// unitAlternation renders the vocabulary as a regex alternation, longest
// tokens first so "gramos" wins over "gr" over "g".
func unitAlternation(units map[string]internal.UnitCode) string {
	tokens := make([]string, 0, len(units))
	for token := range units {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	for i, token := range tokens {
		tokens[i] = regexp.QuoteMeta(token)
	}
	return strings.Join(tokens, "|")
}

// Parse splits a raw title into (name, quantity, unit). Ambiguous input
// degrades to (title, "1", default unit) rather than failing; the result
// unit is always a member of the closed UnitCode set.
func (p *TitleParser) Parse(title string) ParsedTitle {
	name := strings.TrimSpace(title)
	name = leadingCode.ReplaceAllString(name, "")

	quantity := "1"
	unit := p.cfg.DefaultUnit

	if m := p.atEnd.FindStringSubmatchIndex(name); m != nil {
		quantity, unit = p.extract(name, m)
		name = strings.TrimSpace(name[:m[0]])
	} else if m := p.atDash.FindStringSubmatchIndex(name); m != nil {
		quantity, unit = p.extract(name, m)
		name = strings.TrimSpace(name[:m[0]]) + " – " + strings.TrimSpace(name[m[1]:])
	} else if m := p.inBody.FindStringSubmatchIndex(name); m != nil {
		quantity, unit = p.extract(name, m)
		name = name[:m[0]] + " " + name[m[1]:]
	}

	if porKilo.MatchString(name) {
		name = porKilo.ReplaceAllString(name, "")
		if p.cfg.ForceKilo && unit == internal.UnitUnit {
			unit = internal.UnitKG
			quantity = "1"
		}
	}
	name = strings.TrimSpace(spaces.ReplaceAllString(name, " "))

	if unit == internal.UnitUnit {
		quantity = "1"
	}
	return ParsedTitle{Name: name, Quantity: quantity, Unit: unit}
}

// ParseWithDescription runs Parse and, when enabled and the title yielded no
// unit, retries against secondary text such as a product description
// carrying "(4kg aprox.)" weight annotations.
func (p *TitleParser) ParseWithDescription(title, description string) ParsedTitle {
	parsed := p.Parse(title)
	if !p.cfg.DescriptionFallback || parsed.Unit != internal.UnitUnit || strings.TrimSpace(description) == "" {
		return parsed
	}

	m := descWeight.FindStringSubmatch(description)
	if m == nil {
		return parsed
	}
	if unit, ok := p.units[strings.ToLower(m[2])]; ok && unit != internal.UnitUnit {
		parsed.Unit = unit
		parsed.Quantity = canonicalQuantity(m[1])
	}
	return parsed
}

// SplitBrand peels the brand out of "Product Name Brand x 500 g – ...":
// the last word before the x-token is the brand. The returned rest keeps
// the x-token tail so Parse can still read the quantity and unit from it.
// Reports false when the title has no x-token or only one word precedes it.
func (p *TitleParser) SplitBrand(title string) (rest, brand string, ok bool) {
	if !p.cfg.SplitBrand {
		return title, "", false
	}
	loc := brandSplit.FindStringIndex(title)
	if loc == nil {
		return title, "", false
	}
	words := strings.Fields(strings.TrimSpace(title[:loc[0]]))
	if len(words) < 2 {
		return title, "", false
	}
	return strings.Join(words[:len(words)-1], " ") + title[loc[0]:], words[len(words)-1], true
}

func (p *TitleParser) extract(name string, m []int) (string, internal.UnitCode) {
	quantity := canonicalQuantity(name[m[2]:m[3]])
	token := strings.ToLower(strings.TrimSuffix(name[m[4]:m[5]], "."))
	unit, ok := p.units[token]
	if !ok {
		unit = internal.UnitUnit
	}
	return quantity, unit
}

// canonicalQuantity renders a matched number as minimal numeric text:
// "2.0" becomes "2", "1,5" becomes "1.5".
func canonicalQuantity(raw string) string {
	raw = strings.ReplaceAll(raw, ",", ".")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "1"
	}
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
