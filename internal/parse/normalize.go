package parse

import (
	"strings"

	"restocompras/internal"
)

// PartialRecord holds whatever fields a source extractor managed to fill.
// Standardize turns it into a canonical ProductRecord; callers filter
// zero-price and empty-name rows before this stage.
type PartialRecord struct {
	Name        string
	Brand       string
	Description string
	Price       float64
	Image       string
	Unit        internal.UnitCode
	Quantity    string
}

// Standardize assembles a canonical record, filling defaults for optional
// fields: brand falls back to the supplier name, description to the product
// name, unit to UNIT and quantity to "1". ProductID stays unset until the
// resolver runs.
func Standardize(raw PartialRecord, supplierID int, supplierName string) internal.ProductRecord {
	record := internal.ProductRecord{
		Name:        strings.TrimSpace(raw.Name),
		Brand:       raw.Brand,
		Description: raw.Description,
		Price:       raw.Price,
		Image:       raw.Image,
		Unit:        raw.Unit,
		Quantity:    raw.Quantity,
		SupplierID:  supplierID,
	}
	if record.Brand == "" {
		record.Brand = supplierName
	}
	if record.Description == "" {
		record.Description = record.Name
	}
	if record.Unit == "" {
		record.Unit = internal.UnitUnit
	}
	if record.Quantity == "" {
		record.Quantity = "1"
	}
	return record
}

// Deduplicate collapses the list to one record per (name, unit, quantity)
// identity, keeping the first observation and preserving input order.
// Price or image differences between duplicate observations are ignored.
func Deduplicate(records []internal.ProductRecord) []internal.ProductRecord {
	seen := make(map[internal.IdentityKey]struct{}, len(records))
	out := make([]internal.ProductRecord, 0, len(records))
	for _, record := range records {
		key := record.Identity()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, record)
	}
	return out
}
