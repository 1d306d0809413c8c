package listener

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"restocompras/internal/config"
)

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

func newTestService(t *testing.T, cfg config.Config) *Service {
	t.Helper()
	return NewService(cfg, nil, nil, slog.New(slog.DiscardHandler))
}

func TestMailSuppliersSkipsScrapedOnes(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "irlanda.yml", `
supplier_id: 9
supplier_name: irlanda
strategy: mail
mail_sender: listas@irlanda.example.com
`)
	writeConfig(t, dir, "tyna.yml", `
supplier_id: 11
supplier_name: tyna
strategy: mail
mail_sender: ventas@tyna.example.com
`)
	writeConfig(t, dir, "greenshop.yml", `
supplier_id: 3
supplier_name: greenshop
strategy: http
urls:
  - https://example.com/productos
selectors:
  product_list: li.product
  title: h2
  price: span.price
`)

	svc := newTestService(t, config.Config{SupplierDir: dir})

	senders, err := svc.supplierSenders()
	if err != nil {
		t.Fatalf("supplierSenders: %v", err)
	}
	if len(senders) != 2 {
		t.Fatalf("senders = %v, want irlanda and tyna", senders)
	}
}

func TestMailSuppliersRestrictedToOne(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "irlanda.yml", `
supplier_id: 9
supplier_name: irlanda
strategy: mail
mail_sender: listas@irlanda.example.com
`)
	writeConfig(t, dir, "tyna.yml", `
supplier_id: 11
supplier_name: tyna
strategy: mail
mail_sender: ventas@tyna.example.com
`)

	svc := newTestService(t, config.Config{SupplierDir: dir, MailListenerSupplier: "Irlanda"})

	suppliers, err := svc.mailSuppliers()
	if err != nil {
		t.Fatalf("mailSuppliers: %v", err)
	}
	if len(suppliers) != 1 || suppliers[0].SupplierName != "irlanda" {
		t.Fatalf("suppliers = %+v, want just irlanda", suppliers)
	}

	senders, err := svc.supplierSenders()
	if err != nil {
		t.Fatalf("supplierSenders: %v", err)
	}
	if len(senders) != 1 || senders[0] != "listas@irlanda.example.com" {
		t.Fatalf("senders = %v", senders)
	}
}
