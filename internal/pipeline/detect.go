package pipeline

import "strings"

type DetectResult struct {
	IsPriceList bool
	Score       float64
	Reason      string
}

var detectKeywords = []string{"lista", "precio", "catálogo", "catalogo", "mayorista", "oferta", "vigencia", "actualiza"}

// DetectPriceList scores an inbound email for looking like a supplier
// price list: subject and body keywords plus a PDF or spreadsheet
// attachment. Everything below the threshold is skipped unprocessed.
func DetectPriceList(subject, text string, attachmentNames []string) DetectResult {
	subject = strings.ToLower(subject)
	text = strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(text, kw) {
			score += 0.1
		}
	}

	for _, name := range attachmentNames {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, ".pdf") || strings.HasSuffix(ln, ".xlsx") || strings.HasSuffix(ln, ".xls") {
			score += 0.4
			break
		}
	}

	if score > 1 {
		score = 1
	}

	isPriceList := score >= 0.45
	reason := "rules_negative"
	if isPriceList {
		reason = "rules_positive"
	}

	return DetectResult{IsPriceList: isPriceList, Score: score, Reason: reason}
}
