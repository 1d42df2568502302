package poll

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"roomscout-engine/internal/config"
	"roomscout-engine/internal/ingest"
	"roomscout-engine/internal/ingest/board"
	"roomscout-engine/internal/ingest/email"
	"roomscout-engine/internal/ingest/feed"
	"roomscout-engine/internal/ingest/types"
	"roomscout-engine/internal/ingest/util"
)

// Deps are the injected pieces a poll run needs. IMAPPassword is looked up
// lazily so a keychain miss only breaks email ingest.
type Deps struct {
	DB           *sql.DB
	Log          *logrus.Logger
	IMAPPassword func() (string, error)
	OnNewListing func()
}

// PollOnce fans out over the enabled fetchers, processes their listings and
// reports how many were added. Individual fetcher failures never fail the
// run.
func PollOnce(cfg config.Config, d Deps) (added int, err error) {
	parent := context.Background()

	limiter := util.NewHostLimiter(1.0, 2)

	var fetchers []types.Fetcher
	if cfg.Sources.Boards.Enabled {
		fetchers = append(fetchers, board.New(cfg.Sources.Boards.Boards, limiter, d.Log))
	}
	if cfg.Sources.Feeds.Enabled {
		fetchers = append(fetchers, feed.New(cfg.Sources.Feeds.Feeds, limiter, d.Log))
	}
	if cfg.Email.Enabled {
		pw := ""
		if d.IMAPPassword != nil {
			if p, perr := d.IMAPPassword(); perr == nil {
				pw = p
			} else {
				d.Log.WithError(perr).Warn("imap password unavailable; skipping email ingest")
			}
		}
		if pw != "" {
			fetchers = append(fetchers, &email.Fetcher{Cfg: cfg, Password: pw, Log: d.Log})
		}
	}

	var g errgroup.Group
	results := make(chan types.Result, len(fetchers))

	for _, f := range fetchers {
		f := f
		g.Go(func() error {
			timeout := 2 * time.Minute
			if f.Name() == "board" || f.Name() == "feed" {
				timeout = 5 * time.Minute
			}

			fctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			d.Log.WithField("fetcher", f.Name()).Info("running")
			res, ferr := f.Fetch(fctx)
			if ferr != nil {
				d.Log.WithField("fetcher", f.Name()).WithError(ferr).Error("fetch failed")
				return nil
			}
			results <- res
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	insertCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	total := 0
	for res := range results {
		d.Log.WithField("source", res.Source).
			WithField("listings", len(res.Listings)).Info("processing")
		if len(res.Listings) > 0 {
			total += ingest.ProcessListings(insertCtx, d.DB, d.Log, res.Listings, d.OnNewListing)
		}
		if res.Finalize != nil {
			if ferr := res.Finalize(insertCtx); ferr != nil {
				d.Log.WithField("source", res.Source).WithError(ferr).Warn("finalize failed")
			}
		}
	}

	return total, nil
}
