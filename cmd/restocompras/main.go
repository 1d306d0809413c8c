package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"restocompras/internal/backend"
	"restocompras/internal/config"
	"restocompras/internal/connectors"
	gmailconnector "restocompras/internal/connectors/gmail"
	imapconnector "restocompras/internal/connectors/imap"
	"restocompras/internal/listener"
	"restocompras/internal/pipeline"
	"restocompras/internal/sources"
	"restocompras/internal/storage"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "scrape":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		supplierName := fs.String("supplier", "", "supplier name from configs/suppliers")
		all := fs.Bool("all", false, "run every non-mail supplier")
		export := fs.Bool("export", true, "write an xlsx of published items")
		_ = fs.Parse(os.Args[2:])
		if !*all && strings.TrimSpace(*supplierName) == "" {
			must(fmt.Errorf("--supplier or --all is required"))
		}

		client := newBackendClient(cfg, log)
		browserFetch := sources.NewBrowserFetcher(log)
		defer browserFetch.Close()

		resolver := pipeline.NewResolver(client, client, log)
		runner := pipeline.NewRunner(cfg, db, resolver, browserFetch, log)

		suppliers := suppliersToRun(cfg, *supplierName, *all)
		for _, supplier := range suppliers {
			result, err := runner.RunSupplier(context.Background(), supplier)
			must(err)
			fmt.Printf("scrape done supplier=%s extracted=%d parsed=%d published=%d skipped=%d\n",
				supplier.SupplierName, result.Extracted, result.Parsed, result.Published, result.Skipped)
			if *export && len(result.Records) > 0 {
				path, err := pipeline.ExportRecordsToXLSX(result.Records, supplier.SupplierName, cfg.OutputDir)
				must(err)
				fmt.Printf("exported %d records to %s\n", len(result.Records), path)
			}
		}

	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		supplierName := fs.String("supplier", "", "supplier name")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*supplierName) == "" {
			must(fmt.Errorf("--supplier is required"))
		}
		records, err := db.ListLatestPublished(*supplierName)
		must(err)
		if len(records) == 0 {
			must(fmt.Errorf("no published items for supplier %q", *supplierName))
		}
		path, err := pipeline.ExportRecordsToXLSX(records, *supplierName, cfg.OutputDir)
		must(err)
		fmt.Printf("exported %d records to %s\n", len(records), path)

	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "imap", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		suppliers, err := config.ListSuppliers(cfg.SupplierDir)
		must(err)
		var senders []string
		for _, supplier := range suppliers {
			if supplier.Strategy == "mail" && supplier.MailSender != "" {
				senders = append(senders, supplier.MailSender)
			}
		}
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn, senders)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d ignored=%d\n",
			*provider, result.Fetched, result.Stored, result.Ignored)

	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])

		client := newBackendClient(cfg, log)
		resolver := pipeline.NewResolver(client, client, log)
		processor := pipeline.NewProcessingService(cfg, db, resolver, log)
		processedEmails, publishedItems, err := processor.ProcessPending(context.Background(), *batch)
		must(err)
		fmt.Printf("processed pending emails=%d published=%d\n", processedEmails, publishedItems)

	case "mail:listen":
		client := newBackendClient(cfg, log)
		resolver := pipeline.NewResolver(client, client, log)
		processor := pipeline.NewProcessingService(cfg, db, resolver, log)
		svc := listener.NewService(cfg, db, processor, log)
		must(svc.Run(context.Background()))

	default:
		usage()
		os.Exit(1)
	}
}

func newBackendClient(cfg config.Config, log *slog.Logger) *backend.Client {
	client := backend.NewClient(cfg, log)
	must(client.Login(context.Background()))
	return client
}

func suppliersToRun(cfg config.Config, name string, all bool) []config.SupplierConfig {
	if !all {
		supplier, err := config.FindSupplier(cfg.SupplierDir, name)
		must(err)
		return []config.SupplierConfig{supplier}
	}

	configs, err := config.ListSuppliers(cfg.SupplierDir)
	must(err)
	out := configs[:0]
	for _, supplier := range configs {
		if supplier.Strategy != "mail" {
			out = append(out, supplier)
		}
	}
	return out
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: restocompras <command>")
	fmt.Println("commands:")
	fmt.Println("  scrape --supplier=<name> | --all [--export=true]")
	fmt.Println("  export:xlsx --supplier=<name>")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:process [--batch=20]")
	fmt.Println("  mail:listen")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
