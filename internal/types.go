package internal

// UnitCode is the closed set of measurement units a parsed title can carry.
// Anything the parser cannot recognize collapses to UnitUnit.
type UnitCode string

const (
	UnitG    UnitCode = "G"
	UnitKG   UnitCode = "KG"
	UnitL    UnitCode = "L"
	UnitML   UnitCode = "ML"
	UnitUnit UnitCode = "UNIT"
)

// RawProduct is what a source extractor hands to the parsing stage: the
// untouched text fragments of one product listing. No invariants hold yet.
type RawProduct struct {
	Title       string
	Description string
	PriceText   string
	Image       string
}

// ProductRecord is the canonical unit of work flowing through the pipeline.
// Name is non-empty and Price is positive by the time a record exists;
// ProductID stays nil until the resolver finds a catalog match.
type ProductRecord struct {
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Unit        UnitCode `json:"unit"`
	Quantity    string   `json:"quantity"`
	SupplierID  int      `json:"supplierId"`
	ProductID   *int     `json:"productId"`
}

// IdentityKey is the dedup key: two observations of the same catalog item
// may differ in price or image between scrape passes but share this tuple.
type IdentityKey struct {
	Name     string
	Unit     UnitCode
	Quantity string
}

func (p ProductRecord) Identity() IdentityKey {
	return IdentityKey{Name: p.Name, Unit: p.Unit, Quantity: p.Quantity}
}

type ItemStatus string

const (
	StatusExtracted     ItemStatus = "extracted"
	StatusPublished     ItemStatus = "published"
	StatusNoMatch       ItemStatus = "skipped_no_id"
	StatusPublishFailed ItemStatus = "skipped_publish_failed"
)

type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
