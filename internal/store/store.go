// Package store provides persistence for applicant profiles, listings, and
// audit snapshots of scoring output. The scoring engine itself never touches
// the store; commands and the HTTP layer load inputs here and pass plain
// structs in.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/shanewin/falkor-rentalintel/internal/config"
	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// ListingFilter specifies criteria for listing candidate sets.
type ListingFilter struct {
	Status          model.ListingStatus `json:"status,omitempty"`
	NeighborhoodIDs []string            `json:"neighborhood_ids,omitempty"`
	MaxRent         float64             `json:"max_rent,omitempty"`
	Limit           int                 `json:"limit,omitempty"`
}

// Store defines the persistence interface.
type Store interface {
	// Applicants
	PutApplicant(ctx context.Context, a *model.ApplicantProfile) error
	GetApplicant(ctx context.Context, id string) (*model.ApplicantProfile, error)
	ListApplicants(ctx context.Context, limit int) ([]model.ApplicantProfile, error)

	// Listings
	PutListing(ctx context.Context, l *model.Listing) error
	GetListing(ctx context.Context, id string) (*model.Listing, error)
	ListListings(ctx context.Context, filter ListingFilter) ([]model.Listing, error)

	// Scoring snapshots (audit copies; results are recomputed on demand
	// and the snapshots are never a system of record).
	SaveMatchResults(ctx context.Context, applicantID string, results []model.MatchResult) error
	SaveRiskReport(ctx context.Context, report *model.RiskReport) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store from configuration, dispatching on the driver name.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.SQLitePath)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
