package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"roomscout-engine/internal/config"
	"roomscout-engine/internal/events"
	"roomscout-engine/internal/search"
)

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub
	Log *logrus.Logger

	// Search engine state
	Catalog   *search.Catalog
	Thesaurus search.Thesaurus
	Templates []string
	Session   *search.Session

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	IngestStatus *atomic.Value // stores httpapi.IngestStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	DeleteListing func(ctx context.Context, db *sql.DB, id int64) error
	ReloadCatalog func(ctx context.Context) error

	// Ingest entrypoint (injected for testability)
	RunPollOnce func(cfg config.Config, onNewListing func()) (added int, err error)
}
