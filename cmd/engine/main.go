package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"roomscout-engine/internal/config"
	"roomscout-engine/internal/events"
	"roomscout-engine/internal/httpapi"
	"roomscout-engine/internal/poll"
	"roomscout-engine/internal/scheduler"
	"roomscout-engine/internal/search"
	"roomscout-engine/internal/secrets"
	"roomscout-engine/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Engine data dir: use env if provided (desktop shell can pass one),
	// else local folder.
	dataDir := os.Getenv("ROOMSCOUT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return config.Config{}, err
		}
		if err := config.OverlaySources(&cfg, filepath.Join(dataDir, "sources.yml")); err != nil {
			return config.Config{}, err
		}
		return cfg, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "roomscout.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	// Search state: thesaurus and suggestion templates come from config,
	// with built-in fallbacks so an empty config still searches.
	thesaurus := search.DefaultThesaurus()
	if len(cfg.Search.Amenities) > 0 {
		thesaurus = search.NewThesaurus(cfg.Search.Amenities)
	}
	templates := search.DefaultTemplates
	if len(cfg.Search.SuggestionTemplates) > 0 {
		templates = cfg.Search.SuggestionTemplates
	}

	catalog := search.NewCatalog()
	session := search.NewSession(catalog, thesaurus, templates,
		time.Duration(cfg.Search.DebounceMS)*time.Millisecond,
		func(res search.Results) {
			hub.Publish(events.MakeEvent("", events.TypeResultsUpdated, 1, res))
		})
	defer session.Close()

	reloadCatalog := func(ctx context.Context) error {
		listings, err := store.Snapshot(ctx, db.Pool)
		if err != nil {
			return err
		}
		catalog.Replace(listings)
		session.Refresh()
		return nil
	}
	if err := reloadCatalog(context.Background()); err != nil {
		log.Fatalf("initial catalog load failed: %v", err)
	}

	var ingestStatus atomic.Value
	ingestStatus.Store(httpapi.IngestStatus{})

	imapPassword := func() (string, error) {
		cur := cfgVal.Load().(config.Config)
		return secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(cur))
	}
	runPollOnce := func(cfg config.Config, onNewListing func()) (int, error) {
		return poll.PollOnce(cfg, poll.Deps{
			DB:           db.Pool,
			Log:          log,
			IMAPPassword: imapPassword,
			OnNewListing: onNewListing,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background ingest: the full source set on the slow cadence, email
	// alone on the faster one (alerts are the freshest source).
	go scheduler.Every(ctx, time.Duration(cfg.Polling.IngestSeconds)*time.Second, "ingest", log, func(ctx context.Context) error {
		cur := cfgVal.Load().(config.Config)
		added, err := runPollOnce(cur, nil)
		if added > 0 {
			if rerr := reloadCatalog(ctx); rerr != nil && err == nil {
				err = rerr
			}
			hub.Publish(events.MakeEvent("", events.TypeCatalogUpdated, 1, map[string]any{"added": added}))
		}
		return err
	})
	go scheduler.Every(ctx, time.Duration(cfg.Polling.EmailSeconds)*time.Second, "email", log, func(ctx context.Context) error {
		cur := cfgVal.Load().(config.Config)
		if !cur.Email.Enabled {
			return nil
		}
		cur.Sources.Boards.Enabled = false
		cur.Sources.Feeds.Enabled = false
		added, err := runPollOnce(cur, nil)
		if added > 0 {
			if rerr := reloadCatalog(ctx); rerr != nil && err == nil {
				err = rerr
			}
			hub.Publish(events.MakeEvent("", events.TypeCatalogUpdated, 1, map[string]any{"added": added}))
		}
		return err
	})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:            db.Pool,
		Hub:           hub,
		Log:           log,
		Catalog:       catalog,
		Thesaurus:     thesaurus,
		Templates:     templates,
		Session:       session,
		CfgVal:        &cfgVal,
		IngestStatus:  &ingestStatus,
		UserCfgPath:   userCfgPath,
		LoadCfg:       loadCfg,
		DeleteListing: store.DeleteListing,
		ReloadCatalog: reloadCatalog,
		RunPollOnce:   runPollOnce,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(logrus.Fields{"addr": addr, "db": dbPath}).Info("engine listening")

	srv := &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
	}

	// The desktop shell stops the engine via /shutdown with a one-shot token
	// printed on stdout at startup.
	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("SHUTDOWN_TOKEN=%s\n", token)
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	srv.Handler = httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover(log),
		httpapi.AccessLog(log),
		httpapi.Cors,
	)

	log.Fatal(srv.Serve(ln))
}
