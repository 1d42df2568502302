package types

import (
	"context"

	"roomscout-engine/internal/domain"
)

// Result is what one fetcher run hands back to the poll loop.
type Result struct {
	Source   string
	Listings []domain.RawListing
	// Finalize runs after the listings were processed (e.g. mark alert
	// emails seen). May be nil.
	Finalize func(context.Context) error
}

// Status is the last-known ingest state, served over the API.
type Status struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	LastAdded int    `json:"last_added"`
	Running   bool   `json:"running"`
}

// Fetcher pulls raw listings from one catalog source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (Result, error)
}
