package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"restocompras/internal"
)

// Searcher resolves a free-text product name to a catalog product ID.
type Searcher interface {
	SearchProductID(ctx context.Context, query string) (int, bool)
}

// Publisher posts one resolved record to the catalog backend.
type Publisher interface {
	PublishItem(ctx context.Context, record internal.ProductRecord) bool
}

// Outcome records what happened to a single record during resolution.
type Outcome struct {
	Record internal.ProductRecord
	Status internal.ItemStatus
}

type Resolver struct {
	search  Searcher
	publish Publisher
	log     *slog.Logger
}

func NewResolver(search Searcher, publish Publisher, log *slog.Logger) *Resolver {
	return &Resolver{search: search, publish: publish, log: log}
}

// ResolveAndPublish matches every record against the catalog and posts
// the ones that matched. A record that finds no ID, or whose publish is
// rejected, is skipped; the rest of the batch continues. The published
// records come back in input order, each carrying its product ID.
func (r *Resolver) ResolveAndPublish(ctx context.Context, records []internal.ProductRecord) ([]internal.ProductRecord, []Outcome, error) {
	published := make([]internal.ProductRecord, 0, len(records))
	outcomes := make([]Outcome, 0, len(records))

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return published, outcomes, err
		}

		id, ok := r.lookup(ctx, record.Name)
		if !ok {
			r.log.Warn("no catalog match, skipping item", "name", record.Name, "supplierId", record.SupplierID)
			outcomes = append(outcomes, Outcome{Record: record, Status: internal.StatusNoMatch})
			continue
		}

		record.ProductID = &id
		if !r.publish.PublishItem(ctx, record) {
			r.log.Error("publish rejected, skipping item", "name", record.Name, "productId", id)
			outcomes = append(outcomes, Outcome{Record: record, Status: internal.StatusPublishFailed})
			continue
		}

		r.log.Info("item published", "name", record.Name, "productId", id, "price", record.Price)
		published = append(published, record)
		outcomes = append(outcomes, Outcome{Record: record, Status: internal.StatusPublished})
	}

	return published, outcomes, nil
}

// lookup tries the full name first, then falls back to the first two
// words. Single-word names get only one attempt.
func (r *Resolver) lookup(ctx context.Context, name string) (int, bool) {
	if id, ok := r.search.SearchProductID(ctx, name); ok {
		return id, true
	}

	words := strings.Fields(name)
	if len(words) < 2 {
		return 0, false
	}
	return r.search.SearchProductID(ctx, strings.Join(words[:2], " "))
}
