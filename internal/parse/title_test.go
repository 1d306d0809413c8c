package parse

import (
	"testing"

	"restocompras/internal"
)

func TestParseTitle(t *testing.T) {
	p := NewTitleParser(TitleConfig{})

	cases := []struct {
		name     string
		input    string
		wantName string
		wantQty  string
		wantUnit internal.UnitCode
	}{
		{name: "no unit", input: "Palta", wantName: "Palta", wantQty: "1", wantUnit: internal.UnitUnit},
		{name: "gram suffix", input: "Manzana Roja 500 gr", wantName: "Manzana Roja", wantQty: "500", wantUnit: internal.UnitG},
		{name: "kilo words", input: "Papa Negra 2 kilos", wantName: "Papa Negra", wantQty: "2", wantUnit: internal.UnitKG},
		{name: "unit with period", input: "Huevo 1 un.", wantName: "Huevo", wantQty: "1", wantUnit: internal.UnitG},
		{name: "liter", input: "Leche Entera 1 l", wantName: "Leche Entera", wantQty: "1", wantUnit: internal.UnitL},
		{name: "cc maps to ml", input: "FERNET BRANCA 1500CC", wantName: "FERNET BRANCA", wantQty: "1500", wantUnit: internal.UnitML},
		{name: "x prefix", input: "Miel x 500 gr", wantName: "Miel", wantQty: "500", wantUnit: internal.UnitG},
		{name: "leading code", input: "001 Queso Cremoso 500 gr", wantName: "Queso Cremoso", wantQty: "500", wantUnit: internal.UnitG},
		{name: "por kilo suffix", input: "Queso por kilo", wantName: "Queso", wantQty: "1", wantUnit: internal.UnitUnit},
		{name: "decimal comma quantity", input: "Dulce de Leche 1,5 kg", wantName: "Dulce de Leche", wantQty: "1.5", wantUnit: internal.UnitKG},
		{name: "integral float quantity", input: "Yerba 2.0 kg", wantName: "Yerba", wantQty: "2", wantUnit: internal.UnitKG},
		{name: "dash preserved", input: "Chipa x 5 kg – Formato mayorista", wantName: "Chipa – Formato mayorista", wantQty: "5", wantUnit: internal.UnitKG},
		{name: "mid string", input: "Aceituna 250 gr frasco", wantName: "Aceituna frasco", wantQty: "250", wantUnit: internal.UnitG},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Parse(tc.input)
			if got.Name != tc.wantName || got.Quantity != tc.wantQty || got.Unit != tc.wantUnit {
				t.Fatalf("got (%q, %q, %s) want (%q, %q, %s)",
					got.Name, got.Quantity, got.Unit, tc.wantName, tc.wantQty, tc.wantUnit)
			}
		})
	}
}

func TestParseTitleUnitClosure(t *testing.T) {
	p := NewTitleParser(TitleConfig{})
	inputs := []string{
		"", "Palta", "x x x", "500", "Queso por kilo", "Vino 750 ml",
		"Algo 3 zzz", "Manzana Roja 500 gr", "001 13 kg", "–",
	}
	valid := map[internal.UnitCode]bool{
		internal.UnitG: true, internal.UnitKG: true, internal.UnitL: true,
		internal.UnitML: true, internal.UnitUnit: true,
	}
	for _, input := range inputs {
		got := p.Parse(input)
		if !valid[got.Unit] {
			t.Fatalf("%q: unit %q outside closed set", input, got.Unit)
		}
	}
}

func TestParseTitleDefaultUnitOverride(t *testing.T) {
	p := NewTitleParser(TitleConfig{DefaultUnit: internal.UnitKG})
	got := p.Parse("Asado de tira")
	if got.Unit != internal.UnitKG || got.Quantity != "1" {
		t.Fatalf("got (%q, %s)", got.Quantity, got.Unit)
	}
}

func TestParseTitleExtraUnits(t *testing.T) {
	p := NewTitleParser(TitleConfig{ExtraUnits: map[string]internal.UnitCode{"lts": internal.UnitL}})
	got := p.Parse("CAÑUELAS ACEITE 1.5 LTS")
	if got.Unit != internal.UnitL || got.Quantity != "1.5" {
		t.Fatalf("got (%q, %s)", got.Quantity, got.Unit)
	}
}

func TestParseWithDescriptionFallback(t *testing.T) {
	p := NewTitleParser(TitleConfig{DescriptionFallback: true})

	desc := "El precio por kilo es $804 y el monto final depende del peso de cada horma (4kg aprox.)."
	got := p.ParseWithDescription("Queso Sardo por horma", desc)
	if got.Unit != internal.UnitKG || got.Quantity != "4" {
		t.Fatalf("got (%q, %s)", got.Quantity, got.Unit)
	}

	// A title that already carries a unit ignores the description.
	got = p.ParseWithDescription("Queso Sardo 500 gr", desc)
	if got.Unit != internal.UnitG || got.Quantity != "500" {
		t.Fatalf("got (%q, %s)", got.Quantity, got.Unit)
	}
}

func TestParseTitleForceKilo(t *testing.T) {
	p := NewTitleParser(TitleConfig{ForceKilo: true})

	cases := []struct {
		name     string
		input    string
		wantName string
		wantQty  string
		wantUnit internal.UnitCode
	}{
		{name: "por kilo forces kg", input: "Queso por kilo", wantName: "Queso", wantQty: "1", wantUnit: internal.UnitKG},
		{name: "no phrase stays unit", input: "Ricota Fresca", wantName: "Ricota Fresca", wantQty: "1", wantUnit: internal.UnitUnit},
		{name: "explicit unit wins", input: "Queso Cremoso 500 gr por kilo", wantName: "Queso Cremoso", wantQty: "500", wantUnit: internal.UnitG},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Parse(tc.input)
			if got.Name != tc.wantName || got.Quantity != tc.wantQty || got.Unit != tc.wantUnit {
				t.Fatalf("got (%q, %q, %s) want (%q, %q, %s)",
					got.Name, got.Quantity, got.Unit, tc.wantName, tc.wantQty, tc.wantUnit)
			}
		})
	}
}

func TestForceKiloOutranksDescriptionFallback(t *testing.T) {
	p := NewTitleParser(TitleConfig{ForceKilo: true, DescriptionFallback: true})

	desc := "El precio por kilo es $804 y el monto final depende del peso de cada horma (4kg aprox.)."
	got := p.ParseWithDescription("Queso Sardo por kilo", desc)
	if got.Name != "Queso Sardo" || got.Unit != internal.UnitKG || got.Quantity != "1" {
		t.Fatalf("got (%q, %q, %s) want (\"Queso Sardo\", \"1\", KG)", got.Name, got.Quantity, got.Unit)
	}

	// Without the phrase the description weight still applies.
	got = p.ParseWithDescription("Queso Sardo por horma", desc)
	if got.Unit != internal.UnitKG || got.Quantity != "4" {
		t.Fatalf("got (%q, %s) want (\"4\", KG)", got.Quantity, got.Unit)
	}
}

func TestSplitBrand(t *testing.T) {
	p := NewTitleParser(TitleConfig{SplitBrand: true})

	rest, brand, ok := p.SplitBrand("Aderezo Caesar Abedul x 20 g – Pack x108 unidades")
	if !ok || brand != "Abedul" {
		t.Fatalf("got (%q, %q, %v)", rest, brand, ok)
	}
	if rest != "Aderezo Caesar x 20 g – Pack x108 unidades" {
		t.Fatalf("rest = %q, want x-token tail preserved", rest)
	}

	parsed := p.Parse(rest)
	if parsed.Name != "Aderezo Caesar – Pack x108 unidades" || parsed.Quantity != "20" || parsed.Unit != internal.UnitG {
		t.Fatalf("parsed = %+v", parsed)
	}

	rest, brand, ok = p.SplitBrand("Chipa x 5 kg – Formato mayorista")
	if ok {
		t.Fatalf("single word before x should not split, got (%q, %q)", rest, brand)
	}

	if _, _, ok := p.SplitBrand("Sin token de cantidad"); ok {
		t.Fatal("no x token should not split")
	}
}
