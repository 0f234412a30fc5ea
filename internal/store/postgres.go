package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// preparedStatements lists queries to prepare on each new connection for the
// most frequently used store operations.
var preparedStatements = map[string]string{
	"get_applicant": `SELECT profile FROM applicants WHERE id = $1`,
	"get_listing":   `SELECT data FROM listings WHERE id = $1`,
	"upsert_applicant": `INSERT INTO applicants (id, profile, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = EXCLUDED.updated_at`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, query := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, query); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests use this with pgxmock.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS applicants (
	id         TEXT PRIMARY KEY,
	profile    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS listings (
	id              TEXT PRIMARY KEY,
	data            JSONB NOT NULL,
	status          TEXT NOT NULL DEFAULT 'available',
	rent_price      NUMERIC NOT NULL,
	neighborhood_id TEXT NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS match_snapshots (
	id           TEXT PRIMARY KEY,
	applicant_id TEXT NOT NULL,
	results      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS risk_snapshots (
	id           TEXT PRIMARY KEY,
	applicant_id TEXT NOT NULL,
	report       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
CREATE INDEX IF NOT EXISTS idx_listings_neighborhood ON listings(neighborhood_id);
CREATE INDEX IF NOT EXISTS idx_match_snapshots_applicant ON match_snapshots(applicant_id);
CREATE INDEX IF NOT EXISTS idx_risk_snapshots_applicant ON risk_snapshots(applicant_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) PutApplicant(ctx context.Context, a *model.ApplicantProfile) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.UpdatedAt = time.Now().UTC()

	profileJSON, err := json.Marshal(a)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal applicant")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO applicants (id, profile, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = EXCLUDED.updated_at`,
		a.ID, profileJSON, a.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: upsert applicant %s", a.ID)
}

func (s *PostgresStore) GetApplicant(ctx context.Context, id string) (*model.ApplicantProfile, error) {
	var profileJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT profile FROM applicants WHERE id = $1`, id,
	).Scan(&profileJSON)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "applicant %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get applicant %s", id)
	}

	var a model.ApplicantProfile
	if err := json.Unmarshal(profileJSON, &a); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal applicant %s", id)
	}
	return &a, nil
}

func (s *PostgresStore) ListApplicants(ctx context.Context, limit int) ([]model.ApplicantProfile, error) {
	query := `SELECT profile FROM applicants ORDER BY id`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list applicants")
	}
	defer rows.Close()

	var out []model.ApplicantProfile
	for rows.Next() {
		var profileJSON []byte
		if err := rows.Scan(&profileJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan applicant")
		}
		var a model.ApplicantProfile
		if err := json.Unmarshal(profileJSON, &a); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal applicant")
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate applicants")
}

func (s *PostgresStore) PutListing(ctx context.Context, l *model.Listing) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = model.ListingAvailable
	}
	l.UpdatedAt = time.Now().UTC()

	dataJSON, err := json.Marshal(l)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal listing")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO listings (id, data, status, rent_price, neighborhood_id, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, status = EXCLUDED.status,
		   rent_price = EXCLUDED.rent_price, neighborhood_id = EXCLUDED.neighborhood_id,
		   updated_at = EXCLUDED.updated_at`,
		l.ID, dataJSON, string(l.Status), l.RentPrice, l.NeighborhoodID, l.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: upsert listing %s", l.ID)
}

func (s *PostgresStore) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	var dataJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM listings WHERE id = $1`, id,
	).Scan(&dataJSON)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "listing %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get listing %s", id)
	}

	var l model.Listing
	if err := json.Unmarshal(dataJSON, &l); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal listing %s", id)
	}
	return &l, nil
}

func (s *PostgresStore) ListListings(ctx context.Context, filter ListingFilter) ([]model.Listing, error) {
	query := `SELECT data FROM listings WHERE 1=1`
	var args []any
	argNum := 1

	if filter.Status != "" {
		query += ` AND status = $` + strconv.Itoa(argNum)
		args = append(args, string(filter.Status))
		argNum++
	}
	if filter.MaxRent > 0 {
		query += ` AND rent_price <= $` + strconv.Itoa(argNum)
		args = append(args, filter.MaxRent)
		argNum++
	}
	if len(filter.NeighborhoodIDs) > 0 {
		query += ` AND neighborhood_id = ANY($` + strconv.Itoa(argNum) + `)`
		args = append(args, filter.NeighborhoodIDs)
		argNum++
	}
	query += ` ORDER BY id`
	if filter.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(argNum)
		args = append(args, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list listings")
	}
	defer rows.Close()

	var out []model.Listing
	for rows.Next() {
		var dataJSON []byte
		if err := rows.Scan(&dataJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan listing")
		}
		var l model.Listing
		if err := json.Unmarshal(dataJSON, &l); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal listing")
		}
		out = append(out, l)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate listings")
}

func (s *PostgresStore) SaveMatchResults(ctx context.Context, applicantID string, results []model.MatchResult) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal match results")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO match_snapshots (id, applicant_id, results, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), applicantID, resultsJSON, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: save match snapshot for %s", applicantID)
}

func (s *PostgresStore) SaveRiskReport(ctx context.Context, report *model.RiskReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal risk report")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO risk_snapshots (id, applicant_id, report, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), report.ApplicantID, reportJSON, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: save risk snapshot for %s", report.ApplicantID)
}
