package pipeline

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"restocompras/internal"
)

// ExtractXLSX walks every sheet of a spreadsheet price list. Column
// layout is inferred from a Spanish header row; sheets without one fall
// back to title in the first column and price in the second.
func ExtractXLSX(content []byte) ([]internal.RawProduct, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []internal.RawProduct{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		titleIdx, priceIdx, descIdx := -1, -1, -1
		headerRow := -1
		for i, row := range rows {
			if i >= 5 {
				break
			}
			cells := normalizeCells(row)
			t, p, d := inferSheetColumns(cells)
			if t >= 0 && p >= 0 {
				titleIdx, priceIdx, descIdx = t, p, d
				headerRow = i
				break
			}
		}
		if titleIdx < 0 {
			titleIdx, priceIdx = 0, 1
		}

		for i, row := range rows {
			if i <= headerRow {
				continue
			}
			cells := normalizeCells(row)
			title := pickCell(cells, titleIdx)
			price := pickCell(cells, priceIdx)
			if title == "" || price == "" {
				continue
			}
			raw := internal.RawProduct{Title: title, PriceText: price}
			if descIdx >= 0 {
				raw.Description = pickCell(cells, descIdx)
			}
			out = append(out, raw)
		}
	}
	return out, nil
}

func inferSheetColumns(headers []string) (titleIdx, priceIdx, descIdx int) {
	norm := make([]string, 0, len(headers))
	for _, h := range headers {
		norm = append(norm, strings.ToLower(h))
	}
	titleIdx = findHeaderIndex(norm, []string{"nombre", "producto", "artículo", "articulo", "descripción", "descripcion", "detalle"})
	priceIdx = findHeaderIndex(norm, []string{"precio", "importe", "valor", "$"})
	descIdx = findHeaderIndex(norm, []string{"presentación", "presentacion", "observa"})
	if descIdx == titleIdx {
		descIdx = -1
	}
	return
}

func findHeaderIndex(headers []string, probes []string) int {
	for i, h := range headers {
		for _, probe := range probes {
			if strings.Contains(h, probe) {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, normalizeSpaces(c))
	}
	return out
}
