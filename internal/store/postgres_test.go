package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgres_GetApplicant(t *testing.T) {
	s, mock := newMockStore(t)

	profile := model.ApplicantProfile{ID: "a1", FirstName: "Dana"}
	profileJSON, err := json.Marshal(profile)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT profile FROM applicants").
		WithArgs("a1").
		WillReturnRows(pgxmock.NewRows([]string{"profile"}).AddRow(profileJSON))

	got, err := s.GetApplicant(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Dana", got.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetApplicant_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT profile FROM applicants").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"profile"}))

	_, err := s.GetApplicant(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgres_PutApplicant(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO applicants").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	a := &model.ApplicantProfile{FirstName: "Dana"}
	require.NoError(t, s.PutApplicant(context.Background(), a))
	assert.NotEmpty(t, a.ID, "PutApplicant assigns an ID")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_PutListing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO listings").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "available",
			2500.0, "soho", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	l := &model.Listing{RentPrice: 2500, Bedrooms: 1, Bathrooms: 1, NeighborhoodID: "soho"}
	require.NoError(t, s.PutListing(context.Background(), l))
	assert.Equal(t, model.ListingAvailable, l.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListListings_Filters(t *testing.T) {
	s, mock := newMockStore(t)

	l1 := model.Listing{ID: "l1", RentPrice: 2500, Bedrooms: 1, Bathrooms: 1, NeighborhoodID: "soho"}
	data, err := json.Marshal(l1)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT data FROM listings").
		WithArgs("available", 2600.0).
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))

	got, err := s.ListListings(context.Background(), ListingFilter{
		Status:  model.ListingAvailable,
		MaxRent: 2600,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "l1", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveRiskReport(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO risk_snapshots").
		WithArgs(pgxmock.AnyArg(), "a1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	report := &model.RiskReport{ApplicantID: "a1", OverallScore: 87}
	require.NoError(t, s.SaveRiskReport(context.Background(), report))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Migrate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS applicants").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, s.Migrate(context.Background()))
}
