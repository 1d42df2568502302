package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"roomscout-engine/internal/config"
	"roomscout-engine/internal/domain"
	"roomscout-engine/internal/ingest/types"
	"roomscout-engine/internal/ingest/util"
)

// Fetcher pulls JSON catalog feeds. Feeds return either a bare array of
// records or an object wrapping one under a well-known key; records are
// loose maps that FromRecord adapts.
type Fetcher struct {
	feeds   []config.Feed
	hc      *http.Client
	limiter *util.HostLimiter
	log     *logrus.Logger
}

func New(feeds []config.Feed, limiter *util.HostLimiter, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		feeds:   feeds,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		log:     log,
	}
}

func (f *Fetcher) Name() string { return "feed" }

func (f *Fetcher) Fetch(ctx context.Context) (types.Result, error) {
	const workers = 4

	res := types.Result{Source: f.Name()}

	workCh := make(chan config.Feed)
	outCh := make(chan []domain.RawListing, len(f.feeds))

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for fd := range workCh {
				fctx, cancel := context.WithTimeout(ctx, 10*time.Second)
				listings, err := f.fetchFeed(fctx, fd)
				cancel()
				if err != nil {
					f.log.WithField("feed", fd.Name).WithError(err).Warn("feed fetch failed")
					continue
				}
				if len(listings) > 0 {
					outCh <- listings
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, fd := range f.feeds {
			select {
			case <-ctx.Done():
				return
			case workCh <- fd:
			}
		}
	}()

	wg.Wait()
	close(outCh)

	for listings := range outCh {
		res.Listings = append(res.Listings, listings...)
	}
	return res, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, fd config.Feed) ([]domain.RawListing, error) {
	if f.limiter != nil {
		if err := f.limiter.WaitURL(ctx, fd.URL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fd.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "RoomScout/1.0 (+local)")

	resp, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed get: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("feed status %d", resp.StatusCode)
	}

	records, err := decodeRecords(resp.Body)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RawListing, 0, len(records))
	for _, rec := range records {
		l := domain.FromRecord(rec)
		if l.Name == "" {
			continue
		}
		l.Source = "feed"
		if l.SourceID = l.ID; l.SourceID != "" {
			l.SourceID = "feed:" + fd.Name + ":" + l.SourceID
		} else {
			l.SourceID = "feed:" + fd.Name + ":" + l.Name
		}
		out = append(out, l)
	}
	return out, nil
}

func decodeRecords(r io.Reader) ([]map[string]any, error) {
	body, err := io.ReadAll(io.LimitReader(r, 16<<20))
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	// object wrapper form: {"listings": [...]} / {"data": [...]} / {"results": [...]}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("feed decode: %w", err)
	}
	for _, key := range []string{"listings", "data", "results", "items"} {
		if raw, ok := wrapper[key]; ok {
			if err := json.Unmarshal(raw, &records); err == nil {
				return records, nil
			}
		}
	}
	return nil, nil
}
