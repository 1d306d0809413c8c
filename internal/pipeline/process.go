package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"restocompras/internal"
	"restocompras/internal/config"
	"restocompras/internal/storage"
)

// ProcessingService turns stored supplier emails into published items.
// Each email is matched to its supplier by sender address, its PDF and
// spreadsheet attachments extracted, and the resulting records run
// through the shared parse and resolve stages.
type ProcessingService struct {
	cfg      config.Config
	db       *storage.DB
	resolver *Resolver
	log      *slog.Logger
}

func NewProcessingService(cfg config.Config, db *storage.DB, resolver *Resolver, log *slog.Logger) *ProcessingService {
	return &ProcessingService{cfg: cfg, db: db, resolver: resolver, log: log}
}

type ProcessResult struct {
	EmailID   int
	Published int
	Skipped   bool
}

// ProcessPending works through emails still in the fetched state, up to
// limit. It returns how many emails were handled and how many items got
// published across all of them.
func (s *ProcessingService) ProcessPending(ctx context.Context, limit int) (int, int, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}

	processedEmails := 0
	publishedItems := 0
	for _, email := range pending {
		res, err := s.ProcessEmail(ctx, email)
		if err != nil {
			return processedEmails, publishedItems, err
		}
		processedEmails++
		publishedItems += res.Published
	}
	return processedEmails, publishedItems, nil
}

func (s *ProcessingService) ProcessEmail(ctx context.Context, email internal.EmailRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	products, subject, text, attachmentNames, err := ExtractFromEmailRaw(raw)
	if err != nil {
		return ProcessResult{}, err
	}

	detect := DetectPriceList(firstNonEmpty(subject, email.Subject), text, attachmentNames)
	if !detect.IsPriceList {
		s.log.Info("email skipped, not a price list", "emailId", email.ID, "score", detect.Score)
		_ = s.db.UpdateEmailStatus(email.ID, "skipped")
		return ProcessResult{EmailID: email.ID, Skipped: true}, nil
	}

	supplier, err := s.supplierForSender(email.Sender)
	if err != nil {
		s.log.Warn("no supplier config for sender, skipping email", "emailId", email.ID, "sender", email.Sender)
		_ = s.db.UpdateEmailStatus(email.ID, "skipped")
		return ProcessResult{EmailID: email.ID, Skipped: true}, nil
	}

	records := ParseProducts(products, supplier)
	published, outcomes, err := s.resolver.ResolveAndPublish(ctx, records)
	if err != nil {
		return ProcessResult{}, err
	}

	counts := map[string]int{
		"extracted": len(products),
		"parsed":    len(records),
		"published": len(published),
		"skipped":   len(records) - len(published),
	}
	timings := map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}

	runID, err := s.db.InsertRun(traceID(), supplier.SupplierName, supplier.SupplierID, counts, timings)
	if err != nil {
		return ProcessResult{}, err
	}
	for _, outcome := range outcomes {
		if err := s.db.InsertItem(runID, outcome.Status, outcome.Record); err != nil {
			return ProcessResult{}, err
		}
	}

	if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}

	s.log.Info("email processed",
		"emailId", email.ID, "supplier", supplier.SupplierName,
		"published", len(published), "skipped", counts["skipped"])

	return ProcessResult{EmailID: email.ID, Published: len(published)}, nil
}

// supplierForSender finds the mail-driven supplier whose configured
// sender matches the address of the stored email.
func (s *ProcessingService) supplierForSender(sender string) (config.SupplierConfig, error) {
	configs, err := config.ListSuppliers(s.cfg.SupplierDir)
	if err != nil {
		return config.SupplierConfig{}, err
	}

	sender = strings.ToLower(sender)
	for _, cfg := range configs {
		if cfg.Strategy != "mail" {
			continue
		}
		if strings.Contains(sender, strings.ToLower(cfg.MailSender)) {
			return cfg, nil
		}
	}
	return config.SupplierConfig{}, fmt.Errorf("no mail supplier matches sender %q", sender)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
