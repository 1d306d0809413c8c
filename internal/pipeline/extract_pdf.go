package pipeline

import (
	"bytes"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"restocompras/internal"
)

// price list lines look like "10234 QUESO CREMOSO HORMA ....... 5.700,00"
var (
	pdfLeadingCodeRe = regexp.MustCompile(`^\s*\d{4,7}\s+`)
	pdfPriceAtEndRe  = regexp.MustCompile(`[.\s]*(\d{1,3}(?:\.\d{3})*(?:,\d{1,2})?|\d+(?:\.\d{1,2})?)\s*$`)
	pdfFillerRe      = regexp.MustCompile(`\.{2,}`)
	pdfLetterRe      = regexp.MustCompile(`[A-Za-zÁÉÍÓÚÑáéíóúñ]`)
)

var pdfHeaderKeywords = []string{
	"lista de precios",
	"página",
	"pagina",
	"código",
	"codigo",
	"descripción",
	"descripcion",
	"precio",
	"cuit",
	"direc",
	"tel:",
	"teléfono",
	"telefono",
	"e-mail",
	"www.",
	"vigencia",
}

// ExtractPDF reads every page of a PDF price list and collects one raw
// product per item line.
func ExtractPDF(content []byte) ([]internal.RawProduct, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []internal.RawProduct{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range splitLines(text) {
			if raw, ok := ParsePDFLine(line); ok {
				out = append(out, raw)
			}
		}
	}
	return out, nil
}

// ParsePDFLine turns one line of a tabular price list into a raw
// product: strip the leading item code, peel the price off the end and
// keep the middle as the title. Header and footer lines are rejected.
func ParsePDFLine(line string) (internal.RawProduct, bool) {
	compact := normalizeSpaces(line)
	if compact == "" || isPDFHeaderLine(compact) {
		return internal.RawProduct{}, false
	}

	compact = pdfLeadingCodeRe.ReplaceAllString(compact, "")

	match := pdfPriceAtEndRe.FindStringSubmatchIndex(compact)
	if match == nil {
		return internal.RawProduct{}, false
	}
	price := compact[match[2]:match[3]]
	title := compact[:match[0]]

	title = pdfFillerRe.ReplaceAllString(title, " ")
	title = normalizeSpaces(title)
	if title == "" || !pdfLetterRe.MatchString(title) {
		return internal.RawProduct{}, false
	}

	return internal.RawProduct{Title: title, PriceText: price}, true
}

func isPDFHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range pdfHeaderKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
