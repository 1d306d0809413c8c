package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"restocompras/internal/config"
	"restocompras/internal/storage"
)

func mkPriceListEmail(sender string, attachment []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(attachment)
	return []byte(fmt.Sprintf(`From: Distribuidora <%s>
To: compras@example.com
Subject: Lista de precios agosto
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="frontier"

--frontier
Content-Type: text/plain; charset=utf-8

Hola, va la lista actualizada.
--frontier
Content-Type: application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
Content-Disposition: attachment; filename="precios.xlsx"
Content-Transfer-Encoding: base64

%s
--frontier--
`, sender, encoded))
}

func TestSmokeEmailToPublishedItems(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	supplierDir := filepath.Join(tmp, "suppliers")
	if err := os.MkdirAll(supplierDir, 0o755); err != nil {
		t.Fatal(err)
	}
	supplierYAML := `supplier_id: 9
supplier_name: irlanda
strategy: mail
mail_sender: listas@irlanda.example.com
price_format:
  thousands: "."
  decimal: ","
  currencies: ["$"]
`
	if err := os.WriteFile(filepath.Join(supplierDir, "irlanda.yml"), []byte(supplierYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	blob := mkXLSX([][]any{
		{"Nombre", "Precio"},
		{"Queso Cremoso 500 gr", "5.700,00"},
		{"Dulce de Leche 1 kg", "3.200,00"},
	})
	raw := mkPriceListEmail("listas@irlanda.example.com", blob)
	rawPath := filepath.Join(tmp, "fixture.eml")
	if err := os.WriteFile(rawPath, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	email, err := db.UpsertEmail("imap", "<fixture-1@example.com>", "Lista de precios agosto",
		"Distribuidora <listas@irlanda.example.com>", "2026-08-01T00:00:00Z", "hash", rawPath, "fetched")
	if err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	cfg.SupplierDir = supplierDir
	cfg.OutputDir = filepath.Join(tmp, "output")

	search := &stubSearcher{answers: map[string]int{
		"Queso Cremoso": 7,
		"Dulce de":      8,
	}}
	publish := &stubPublisher{}
	resolver := NewResolver(search, publish, slog.New(slog.DiscardHandler))

	proc := NewProcessingService(cfg, db, resolver, slog.New(slog.DiscardHandler))
	res, err := proc.ProcessEmail(context.Background(), email)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped {
		t.Fatal("email should have been processed")
	}
	if res.Published != 2 {
		t.Fatalf("published=%d, want 2", res.Published)
	}

	records, err := db.ListLatestPublished("irlanda")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("ledger records=%d, want 2", len(records))
	}
	if records[0].Name != "Queso Cremoso" || records[0].SupplierID != 9 {
		t.Fatalf("records[0] = %+v", records[0])
	}

	out, err := ExportRecordsToXLSX(records, "irlanda", cfg.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}

	row, err := db.GetEmailByProviderMessageID("imap", "<fixture-1@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if row == nil || row.Status != "processed" {
		t.Fatalf("email status = %+v", row)
	}
}

func TestSmokeSkipsNonPriceList(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	raw := []byte("From: alguien@example.com\nSubject: Re: entrega\n\nEl camion pasa el martes.\n")
	rawPath := filepath.Join(tmp, "plain.eml")
	if err := os.WriteFile(rawPath, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	email, err := db.UpsertEmail("imap", "<plain-1@example.com>", "Re: entrega",
		"alguien@example.com", "2026-08-01T00:00:00Z", "hash", rawPath, "fetched")
	if err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	resolver := NewResolver(&stubSearcher{answers: map[string]int{}}, &stubPublisher{}, slog.New(slog.DiscardHandler))
	proc := NewProcessingService(cfg, db, resolver, slog.New(slog.DiscardHandler))

	res, err := proc.ProcessEmail(context.Background(), email)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Skipped {
		t.Fatal("expected skip for non price list email")
	}

	row, _ := db.GetEmailByProviderMessageID("imap", "<plain-1@example.com>")
	if row.Status != "skipped" {
		t.Fatalf("status = %q", row.Status)
	}

}
