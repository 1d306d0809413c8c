package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"restocompras/internal"
	"restocompras/internal/config"
	"restocompras/internal/sources"
	"restocompras/internal/storage"
)

// Runner drives one supplier end to end: fetch the price list, extract
// raw products, parse and dedupe, resolve against the catalog and
// record every item outcome in the ledger.
type Runner struct {
	cfg      config.Config
	db       *storage.DB
	resolver *Resolver
	log      *slog.Logger

	browserFetch sources.Fetcher
}

func NewRunner(cfg config.Config, db *storage.DB, resolver *Resolver, browserFetch sources.Fetcher, log *slog.Logger) *Runner {
	return &Runner{
		cfg:          cfg,
		db:           db,
		resolver:     resolver,
		log:          log,
		browserFetch: browserFetch,
	}
}

type RunResult struct {
	RunID     int64
	TraceID   string
	Extracted int
	Parsed    int
	Published int
	Skipped   int
	Records   []internal.ProductRecord
}

func (r *Runner) RunSupplier(ctx context.Context, supplier config.SupplierConfig) (RunResult, error) {
	start := time.Now()
	trace := traceID()
	log := r.log.With("supplier", supplier.SupplierName, "traceId", trace)

	raws, err := r.extract(ctx, supplier, log)
	if err != nil {
		return RunResult{}, err
	}
	log.Info("extraction finished", "rawProducts", len(raws))

	records := ParseProducts(raws, supplier)
	log.Info("parsing finished", "records", len(records))

	published, outcomes, err := r.resolver.ResolveAndPublish(ctx, records)
	if err != nil {
		return RunResult{}, err
	}

	counts := map[string]int{
		"extracted": len(raws),
		"parsed":    len(records),
		"published": len(published),
		"skipped":   len(records) - len(published),
	}
	timings := map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}

	runID, err := r.db.InsertRun(trace, supplier.SupplierName, supplier.SupplierID, counts, timings)
	if err != nil {
		return RunResult{}, err
	}
	for _, outcome := range outcomes {
		if err := r.db.InsertItem(runID, outcome.Status, outcome.Record); err != nil {
			return RunResult{}, err
		}
	}

	log.Info("run finished",
		"published", len(published), "skipped", counts["skipped"],
		"elapsed", time.Since(start).Round(time.Millisecond))

	return RunResult{
		RunID:     runID,
		TraceID:   trace,
		Extracted: len(raws),
		Parsed:    len(records),
		Published: len(published),
		Skipped:   counts["skipped"],
		Records:   published,
	}, nil
}

func (r *Runner) extract(ctx context.Context, supplier config.SupplierConfig, log *slog.Logger) ([]internal.RawProduct, error) {
	switch supplier.Strategy {
	case "http", "browser":
		fetcher := r.pageFetcher(supplier)
		raws := []internal.RawProduct{}
		for _, pageURL := range supplier.URLs {
			body, err := fetcher.Fetch(ctx, pageURL)
			if err != nil {
				log.Error("page fetch failed", "url", pageURL, "error", err)
				continue
			}
			extra, err := ExtractHTML(string(body), pageURL, supplier.Selectors)
			if err != nil {
				log.Error("page extraction failed", "url", pageURL, "error", err)
				continue
			}
			raws = append(raws, extra...)
		}
		return raws, nil

	case "pdf":
		content, err := os.ReadFile(r.inputPath(supplier.InputFile))
		if err != nil {
			return nil, err
		}
		return ExtractPDF(content)

	case "xlsx":
		content, err := os.ReadFile(r.inputPath(supplier.InputFile))
		if err != nil {
			return nil, err
		}
		return ExtractXLSX(content)

	case "mail":
		return nil, fmt.Errorf("supplier %s is mail-driven, use the mail commands", supplier.SupplierName)

	default:
		return nil, fmt.Errorf("unknown strategy %q", supplier.Strategy)
	}
}

// pageFetcher picks the transport per supplier. HTTP fetchers are built
// fresh each run since the user agent and headers are per-supplier.
func (r *Runner) pageFetcher(supplier config.SupplierConfig) sources.Fetcher {
	if supplier.Strategy == "browser" && r.browserFetch != nil {
		return r.browserFetch
	}
	return sources.NewHTTPFetcher(supplier.UserAgent, supplier.Headers)
}

func (r *Runner) inputPath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(r.cfg.InputDir, file)
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
