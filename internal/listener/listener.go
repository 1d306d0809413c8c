// Package listener polls a mailbox on an interval, stores new supplier
// price lists and pushes them through the processing pipeline.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"restocompras/internal/config"
	"restocompras/internal/connectors"
	gmailconnector "restocompras/internal/connectors/gmail"
	imapconnector "restocompras/internal/connectors/imap"
	"restocompras/internal/pipeline"
	"restocompras/internal/storage"
)

type Service struct {
	cfg       config.Config
	db        *storage.DB
	processor *pipeline.ProcessingService
	log       *slog.Logger
}

func NewService(cfg config.Config, db *storage.DB, processor *pipeline.ProcessingService, log *slog.Logger) *Service {
	return &Service{cfg: cfg, db: db, processor: processor, log: log}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			s.log.Error("listener cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	senders, err := s.supplierSenders()
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector, senders)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return err
	}

	processedEmails, publishedItems, err := s.processor.ProcessPending(ctx, s.cfg.MailListenerProcessBatch)
	if err != nil {
		return err
	}

	if s.cfg.MailListenerAutoExport && publishedItems > 0 {
		if err := s.exportLatest(); err != nil {
			return err
		}
	}

	s.log.Info("listener cycle done",
		"provider", provider,
		"fetched", fetchResult.Fetched, "stored", fetchResult.Stored, "ignored", fetchResult.Ignored,
		"processedEmails", processedEmails, "publishedItems", publishedItems)
	return nil
}

// exportLatest writes a spreadsheet per mail-driven supplier from its
// most recent run, mirroring what the scrape command exports.
func (s *Service) exportLatest() error {
	suppliers, err := s.mailSuppliers()
	if err != nil {
		return err
	}

	outputDir := filepath.Join(s.cfg.OutputDir, "listener")
	for _, supplier := range suppliers {
		records, err := s.db.ListLatestPublished(supplier.SupplierName)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			continue
		}
		path, err := pipeline.ExportRecordsToXLSX(records, supplier.SupplierName, outputDir)
		if err != nil {
			return err
		}
		s.log.Info("exported price list", "supplier", supplier.SupplierName, "path", path, "records", len(records))
	}
	return nil
}

func (s *Service) supplierSenders() ([]string, error) {
	suppliers, err := s.mailSuppliers()
	if err != nil {
		return nil, err
	}
	senders := make([]string, 0, len(suppliers))
	for _, supplier := range suppliers {
		if supplier.MailSender != "" {
			senders = append(senders, supplier.MailSender)
		}
	}
	return senders, nil
}

// mailSuppliers returns the mail-strategy configs the listener serves.
// MAIL_LISTENER_SUPPLIER narrows the loop to a single supplier; empty
// means all of them.
func (s *Service) mailSuppliers() ([]config.SupplierConfig, error) {
	configs, err := config.ListSuppliers(s.cfg.SupplierDir)
	if err != nil {
		return nil, err
	}
	only := strings.TrimSpace(s.cfg.MailListenerSupplier)
	suppliers := make([]config.SupplierConfig, 0, len(configs))
	for _, supplier := range configs {
		if supplier.Strategy != "mail" {
			continue
		}
		if only != "" && !strings.EqualFold(supplier.SupplierName, only) {
			continue
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, nil
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}
