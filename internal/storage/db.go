package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"restocompras/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  supplier TEXT NOT NULL,
  supplierId INTEGER NOT NULL,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  status TEXT NOT NULL,
  name TEXT NOT NULL,
  brand TEXT,
  description TEXT,
  price REAL NOT NULL,
  image TEXT,
  unit TEXT NOT NULL,
  quantity TEXT NOT NULL,
  supplierId INTEGER NOT NULL,
  productId INTEGER,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_items_runId ON items(runId);
CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);

CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(traceID, supplier string, supplierID int, counts map[string]int, timings map[string]float64) (int64, error) {
	countsJSON, _ := json.Marshal(counts)
	timingsJSON, _ := json.Marshal(timings)
	result, err := d.conn.Exec(`
INSERT INTO runs (traceId, supplier, supplierId, countsJson, timingsJson) VALUES (?, ?, ?, ?, ?)
`, traceID, supplier, supplierID, string(countsJSON), string(timingsJSON))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) InsertItem(runID int64, status internal.ItemStatus, record internal.ProductRecord) error {
	_, err := d.conn.Exec(`
INSERT INTO items (runId, status, name, brand, description, price, image, unit, quantity, supplierId, productId)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, runID, string(status), record.Name, record.Brand, record.Description, record.Price,
		record.Image, string(record.Unit), record.Quantity, record.SupplierID, record.ProductID)
	return err
}

// ListRunItems returns the items of one run in insertion order, each
// paired with its outcome status.
func (d *DB) ListRunItems(runID int64) ([]internal.ItemStatus, []internal.ProductRecord, error) {
	rows, err := d.conn.Query(`
SELECT status, name, brand, description, price, image, unit, quantity, supplierId, productId
FROM items WHERE runId = ? ORDER BY id ASC
`, runID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var statuses []internal.ItemStatus
	var records []internal.ProductRecord
	for rows.Next() {
		var status string
		var record internal.ProductRecord
		var brand, description, image sql.NullString
		var unit string
		var productID sql.NullInt64
		if err := rows.Scan(&status, &record.Name, &brand, &description, &record.Price,
			&image, &unit, &record.Quantity, &record.SupplierID, &productID); err != nil {
			return nil, nil, err
		}
		record.Brand = brand.String
		record.Description = description.String
		record.Image = image.String
		record.Unit = internal.UnitCode(unit)
		if productID.Valid {
			id := int(productID.Int64)
			record.ProductID = &id
		}
		statuses = append(statuses, internal.ItemStatus(status))
		records = append(records, record)
	}
	return statuses, records, rows.Err()
}

// ListLatestPublished returns the published items of the most recent
// run for the given supplier, or nil when the supplier has no runs.
func (d *DB) ListLatestPublished(supplier string) ([]internal.ProductRecord, error) {
	var runID int64
	err := d.conn.QueryRow(`
SELECT id FROM runs WHERE supplier = ? ORDER BY id DESC LIMIT 1
`, supplier).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	statuses, records, err := d.ListRunItems(runID)
	if err != nil {
		return nil, err
	}
	out := make([]internal.ProductRecord, 0, len(records))
	for i, record := range records {
		if statuses[i] == internal.StatusPublished {
			out = append(out, record)
		}
	}
	return out, nil
}

func (d *DB) UpsertEmail(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO emails (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

func (d *DB) GetEmailByProviderMessageID(provider, messageID string) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListEmailsByStatus(status string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		var row internal.EmailRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateEmailStatus(emailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE emails SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, emailID)
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
