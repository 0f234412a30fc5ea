package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS applicants (
	id         TEXT PRIMARY KEY,
	profile    TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS listings (
	id              TEXT PRIMARY KEY,
	data            TEXT NOT NULL,
	status          TEXT NOT NULL DEFAULT 'available',
	rent_price      REAL NOT NULL,
	neighborhood_id TEXT NOT NULL,
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS match_snapshots (
	id           TEXT PRIMARY KEY,
	applicant_id TEXT NOT NULL,
	results      TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS risk_snapshots (
	id           TEXT PRIMARY KEY,
	applicant_id TEXT NOT NULL,
	report       TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
CREATE INDEX IF NOT EXISTS idx_listings_neighborhood ON listings(neighborhood_id);
CREATE INDEX IF NOT EXISTS idx_match_snapshots_applicant ON match_snapshots(applicant_id);
CREATE INDEX IF NOT EXISTS idx_risk_snapshots_applicant ON risk_snapshots(applicant_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) PutApplicant(ctx context.Context, a *model.ApplicantProfile) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.UpdatedAt = time.Now().UTC()

	profileJSON, err := json.Marshal(a)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal applicant")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO applicants (id, profile, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET profile = excluded.profile, updated_at = excluded.updated_at`,
		a.ID, string(profileJSON), a.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: upsert applicant %s", a.ID)
}

func (s *SQLiteStore) GetApplicant(ctx context.Context, id string) (*model.ApplicantProfile, error) {
	var profileJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile FROM applicants WHERE id = ?`, id,
	).Scan(&profileJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "applicant %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get applicant %s", id)
	}

	var a model.ApplicantProfile
	if err := json.Unmarshal([]byte(profileJSON), &a); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal applicant %s", id)
	}
	return &a, nil
}

func (s *SQLiteStore) ListApplicants(ctx context.Context, limit int) ([]model.ApplicantProfile, error) {
	query := `SELECT profile FROM applicants ORDER BY id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list applicants")
	}
	defer rows.Close()

	var out []model.ApplicantProfile
	for rows.Next() {
		var profileJSON string
		if err := rows.Scan(&profileJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan applicant")
		}
		var a model.ApplicantProfile
		if err := json.Unmarshal([]byte(profileJSON), &a); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal applicant")
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate applicants")
}

func (s *SQLiteStore) PutListing(ctx context.Context, l *model.Listing) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = model.ListingAvailable
	}
	l.UpdatedAt = time.Now().UTC()

	dataJSON, err := json.Marshal(l)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal listing")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO listings (id, data, status, rent_price, neighborhood_id, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, status = excluded.status,
		   rent_price = excluded.rent_price, neighborhood_id = excluded.neighborhood_id,
		   updated_at = excluded.updated_at`,
		l.ID, string(dataJSON), string(l.Status), l.RentPrice, l.NeighborhoodID, l.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: upsert listing %s", l.ID)
}

func (s *SQLiteStore) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	var dataJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM listings WHERE id = ?`, id,
	).Scan(&dataJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "listing %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get listing %s", id)
	}

	var l model.Listing
	if err := json.Unmarshal([]byte(dataJSON), &l); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal listing %s", id)
	}
	return &l, nil
}

func (s *SQLiteStore) ListListings(ctx context.Context, filter ListingFilter) ([]model.Listing, error) {
	query := `SELECT data FROM listings WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.MaxRent > 0 {
		query += ` AND rent_price <= ?`
		args = append(args, filter.MaxRent)
	}
	if len(filter.NeighborhoodIDs) > 0 {
		query += ` AND neighborhood_id IN (`
		for i, id := range filter.NeighborhoodIDs {
			if i > 0 {
				query += `, `
			}
			query += `?`
			args = append(args, id)
		}
		query += `)`
	}
	query += ` ORDER BY id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list listings")
	}
	defer rows.Close()

	var out []model.Listing
	for rows.Next() {
		var dataJSON string
		if err := rows.Scan(&dataJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan listing")
		}
		var l model.Listing
		if err := json.Unmarshal([]byte(dataJSON), &l); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal listing")
		}
		out = append(out, l)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate listings")
}

func (s *SQLiteStore) SaveMatchResults(ctx context.Context, applicantID string, results []model.MatchResult) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal match results")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO match_snapshots (id, applicant_id, results, created_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), applicantID, string(resultsJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save match snapshot for %s", applicantID)
}

func (s *SQLiteStore) SaveRiskReport(ctx context.Context, report *model.RiskReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal risk report")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO risk_snapshots (id, applicant_id, report, created_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), report.ApplicantID, string(reportJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save risk snapshot for %s", report.ApplicantID)
}
