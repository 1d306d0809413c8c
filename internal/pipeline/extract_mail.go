package pipeline

import (
	"bytes"
	"strings"

	"github.com/jhillyerd/enmime"

	"restocompras/internal"
)

// ExtractFromEmailRaw opens a raw RFC 5322 message and pulls raw
// products from its PDF and spreadsheet attachments. The subject, plain
// text body and attachment names come back for the processing ledger.
func ExtractFromEmailRaw(raw []byte) ([]internal.RawProduct, string, string, []string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", "", nil, err
	}

	products := make([]internal.RawProduct, 0)
	attachmentNames := make([]string, 0, len(env.Attachments))
	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		attachmentNames = append(attachmentNames, filename)
		lower := strings.ToLower(filename)

		switch {
		case strings.HasSuffix(lower, ".pdf"):
			extra, err := ExtractPDF(att.Content)
			if err == nil {
				products = append(products, extra...)
			}
		case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
			extra, err := ExtractXLSX(att.Content)
			if err == nil {
				products = append(products, extra...)
			}
		}
	}

	return products, env.GetHeader("Subject"), env.Text, attachmentNames, nil
}
