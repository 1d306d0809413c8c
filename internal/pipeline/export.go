package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"restocompras/internal"
)

// export headers stay in Spanish to match the sheets the buyers already use
var exportHeaders = []string{
	"Nombre", "Marca", "Descripción", "Precio", "Imagen",
	"Producto ID", "Unidad", "Cantidad", "supplierId",
}

// ExportRecordsToXLSX writes one spreadsheet per run into outputDir and
// returns the path. The filename carries the supplier and a timestamp
// so successive runs never clobber each other.
func ExportRecordsToXLSX(records []internal.ProductRecord, supplier, outputDir string) (string, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, record := range records {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, record.Name)
		set(2, record.Brand)
		set(3, record.Description)
		set(4, record.Price)
		set(5, record.Image)
		if record.ProductID != nil {
			set(6, *record.ProductID)
		} else {
			set(6, "")
		}
		set(7, string(record.Unit))
		set(8, record.Quantity)
		set(9, record.SupplierID)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.xlsx", sanitizeFilename(supplier), time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(outputDir, name)
	if err := f.SaveAs(outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

func sanitizeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}
