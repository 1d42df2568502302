package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Health
	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Search
	srch := SearchHandler{
		Catalog:   d.Catalog,
		Thesaurus: d.Thesaurus,
		Templates: d.Templates,
		Session:   d.Session,
	}
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: srch.Search,
	}))
	mux.HandleFunc("/suggest", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: srch.Suggest,
	}))
	mux.HandleFunc("/search/live", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: srch.Live,
	}))
	mux.HandleFunc("/search/filters", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: srch.LiveFilters,
	}))

	// Listings
	lh := ListingsHandler{
		DB:            d.DB,
		Hub:           d.Hub,
		DeleteListing: d.DeleteListing,
		ReloadCatalog: d.ReloadCatalog,
	}
	mux.HandleFunc("/listings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	}))
	mux.HandleFunc("/listings/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: lh.DeleteByPath, // expects /listings/{id}
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetIMAPPassword,
	}))

	// Ingest
	ih := IngestHandler{
		CfgVal:        d.CfgVal,
		IngestStatus:  d.IngestStatus,
		Hub:           d.Hub,
		RunPollOnce:   d.RunPollOnce,
		ReloadCatalog: d.ReloadCatalog,
	}
	mux.HandleFunc("/ingest/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.Status,
	}))
	mux.HandleFunc("/ingest/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ih.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
