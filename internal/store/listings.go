package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"roomscout-engine/internal/domain"
)

// Migrate brings the catalog schema up to the current version.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS listings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  room_type TEXT NOT NULL DEFAULT '',
  amenities TEXT NOT NULL DEFAULT '[]',
  description TEXT NOT NULL DEFAULT '',
  tags TEXT NOT NULL DEFAULT '[]',
  price REAL,
  price_unit TEXT NOT NULL DEFAULT '',
  near_campus INTEGER NOT NULL DEFAULT 0,
  verified INTEGER NOT NULL DEFAULT 0,
  images TEXT NOT NULL DEFAULT '[]',
  source TEXT NOT NULL DEFAULT '',
  source_id TEXT NOT NULL DEFAULT '',
  first_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_source_id
ON listings(source_id) WHERE source_id != '';
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// InsertListingIgnore inserts a listing unless its source_id is already
// present. Reports whether a row was actually added.
func InsertListingIgnore(ctx context.Context, db *sql.DB, l domain.RawListing) (added bool, err error) {
	amenities, _ := json.Marshal(emptyIfNil(l.Amenities))
	tags, _ := json.Marshal(emptyIfNil(l.Tags))
	images, _ := json.Marshal(emptyIfNil(l.Images))

	var price any
	if l.Price != nil {
		price = *l.Price
	}

	_, err = db.ExecContext(ctx, `
INSERT OR IGNORE INTO listings
  (name, location, address, room_type, amenities, description, tags,
   price, price_unit, near_campus, verified, images, source, source_id, first_seen)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		l.Name, l.Location, l.Address, l.RoomType, string(amenities),
		l.Description, string(tags), price, string(l.PriceUnit),
		boolInt(l.NearCampus), boolInt(l.Verified), string(images),
		l.Source, l.SourceID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert listing: %w", err)
	}

	var changes int
	if e := db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); e == nil {
		return changes > 0, nil
	}
	return true, nil
}

// Snapshot loads every stored listing as a raw listing slice for indexing.
func Snapshot(ctx context.Context, db *sql.DB) ([]domain.RawListing, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, name, location, address, room_type, amenities, description, tags,
       price, price_unit, near_campus, verified, images, source, source_id
FROM listings
ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawListing
	for rows.Next() {
		var (
			l          domain.RawListing
			id         int64
			amenities  string
			tags       string
			images     string
			price      sql.NullFloat64
			unit       string
			nearCampus int
			verified   int
		)
		if err := rows.Scan(&id, &l.Name, &l.Location, &l.Address, &l.RoomType,
			&amenities, &l.Description, &tags, &price, &unit,
			&nearCampus, &verified, &images, &l.Source, &l.SourceID); err != nil {
			return nil, err
		}
		l.ID = fmt.Sprint(id)
		_ = json.Unmarshal([]byte(amenities), &l.Amenities)
		_ = json.Unmarshal([]byte(tags), &l.Tags)
		_ = json.Unmarshal([]byte(images), &l.Images)
		if price.Valid {
			p := price.Float64
			l.Price = &p
		}
		l.PriceUnit = domain.PriceUnit(unit)
		l.NearCampus = nearCampus != 0
		l.Verified = verified != 0
		out = append(out, l)
	}
	return out, rows.Err()
}

// DeleteListing removes one listing by row id.
func DeleteListing(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?;`, id)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func emptyIfNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
