package pipeline

import "testing"

func TestParsePDFLine(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		title string
		price string
	}{
		{"dotted filler", "10234 QUESO CREMOSO HORMA ................ 5.700,00", "QUESO CREMOSO HORMA", "5.700,00"},
		{"space separated", "10501 DULCE DE LECHE REPOSTERO 3.250,50", "DULCE DE LECHE REPOSTERO", "3.250,50"},
		{"no item code", "MANTECA PILOTO 200 ........ 1.890,00", "MANTECA PILOTO 200", "1.890,00"},
		{"dot decimal", "10777 RICOTA MAGRA 1520.00", "RICOTA MAGRA", "1520.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, ok := ParsePDFLine(tc.line)
			if !ok {
				t.Fatalf("line rejected: %q", tc.line)
			}
			if raw.Title != tc.title {
				t.Errorf("title = %q, want %q", raw.Title, tc.title)
			}
			if raw.PriceText != tc.price {
				t.Errorf("price = %q, want %q", raw.PriceText, tc.price)
			}
		})
	}
}

func TestParsePDFLineRejectsNoise(t *testing.T) {
	lines := []string{
		"",
		"LISTA DE PRECIOS VIGENCIA 01/08",
		"Página 2 de 14",
		"CÓDIGO DESCRIPCIÓN PRECIO",
		"CUIT 30-12345678-9",
		"Tel: 011 4444-5555",
		"...............",
	}
	for _, line := range lines {
		if _, ok := ParsePDFLine(line); ok {
			t.Errorf("line accepted, want rejected: %q", line)
		}
	}
}
