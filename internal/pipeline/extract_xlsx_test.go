package pipeline

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestExtractXLSX(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Nombre", "Precio", "Presentación"},
		{"Queso Cremoso 500 gr", "5.700,00", "horma"},
		{"Dulce de Leche 1 kg", "3.200,00", ""},
		{"", "100", ""},
	})
	raws, err := ExtractXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 2 {
		t.Fatalf("len=%d, want 2", len(raws))
	}
	if raws[0].Title != "Queso Cremoso 500 gr" || raws[0].PriceText != "5.700,00" {
		t.Fatalf("raws[0] = %+v", raws[0])
	}
	if raws[0].Description != "horma" {
		t.Errorf("description = %q", raws[0].Description)
	}
}

func TestExtractXLSXNoHeader(t *testing.T) {
	blob := mkXLSX([][]any{
		{"Miel Pura 500 gr", "3.000,00"},
		{"Miel Pura 1 kg", "5.500,00"},
	})
	raws, err := ExtractXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 2 {
		t.Fatalf("len=%d, want 2 with first-column fallback", len(raws))
	}
}
