package ingest

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"roomscout-engine/internal/domain"
	"roomscout-engine/internal/store"
)

// ProcessListings inserts fetched listings into the catalog, skipping ones
// already known by source id. onNewListing fires once per actually-added
// row so callers can publish events.
func ProcessListings(ctx context.Context, db *sql.DB, log *logrus.Logger, listings []domain.RawListing, onNewListing func()) (added int) {
	for _, l := range listings {
		if l.Name == "" {
			continue
		}

		ok, err := store.InsertListingIgnore(ctx, db, l)
		if err != nil {
			log.WithField("source", l.Source).WithField("name", l.Name).
				WithError(err).Warn("insert failed")
			continue
		}
		if !ok {
			continue
		}

		added++
		if onNewListing != nil {
			onNewListing()
		}
	}
	return added
}
