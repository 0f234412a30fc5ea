package importer

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

func loadListingsCSV(path string) ([]model.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "importer: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ParseListingsCSV(f)
}

// ParseListingsCSV parses listings from CSV. The first row must be a header
// containing at least id, rent_price, bedrooms, bathrooms, and
// neighborhood_id.
func ParseListingsCSV(r io.Reader) ([]model.Listing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "importer: read csv")
	}
	if len(records) == 0 {
		return nil, eris.New("importer: csv is empty")
	}

	return parseListingRows(records[0], records[1:])
}

func loadListingsXLSX(path string) ([]model.Listing, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "importer: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("importer: xlsx %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("importer: xlsx %s is empty", path)
	}

	return parseListingRows(rows[0], rows[1:])
}

func loadListingsJSON(path string) ([]model.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "importer: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	var listings []model.Listing
	if err := json.NewDecoder(f).Decode(&listings); err != nil {
		return nil, eris.Wrapf(err, "importer: decode %s", path)
	}
	for i := range listings {
		if err := validateListing(&listings[i]); err != nil {
			return nil, eris.Wrapf(err, "importer: listing %d", i+1)
		}
	}
	return listings, nil
}

func parseListingRows(headers []string, rows [][]string) ([]model.Listing, error) {
	idx := newHeaderIndex(headers)
	for _, required := range []string{"id", "rent_price", "bedrooms", "bathrooms", "neighborhood_id"} {
		if _, ok := idx[required]; !ok {
			return nil, eris.Errorf("importer: missing required column %q", required)
		}
	}

	listings := make([]model.Listing, 0, len(rows))
	for i, row := range rows {
		// Row numbers are 1-based and count the header, matching what a
		// spreadsheet shows.
		rowNum := i + 2

		if isBlankRow(row) {
			continue
		}

		l, err := parseListingRow(idx, row)
		if err != nil {
			return nil, eris.Wrapf(err, "importer: row %d", rowNum)
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func parseListingRow(idx headerIndex, row []string) (model.Listing, error) {
	var l model.Listing

	l.ID = idx.get(row, "id")
	l.BuildingName = idx.get(row, "building_name")
	l.Address = idx.get(row, "address")
	l.NeighborhoodID = idx.get(row, "neighborhood_id")

	rent, err := strconv.ParseFloat(idx.get(row, "rent_price"), 64)
	if err != nil {
		return l, eris.Wrap(err, "parse rent_price")
	}
	l.RentPrice = rent

	bedrooms, err := strconv.Atoi(idx.get(row, "bedrooms"))
	if err != nil {
		return l, eris.Wrap(err, "parse bedrooms")
	}
	l.Bedrooms = bedrooms

	bathrooms, err := strconv.ParseFloat(idx.get(row, "bathrooms"), 64)
	if err != nil {
		return l, eris.Wrap(err, "parse bathrooms")
	}
	l.Bathrooms = bathrooms

	if s := idx.get(row, "pet_policy"); s != "" {
		l.PetPolicy = model.PetPolicy(strings.ToLower(s))
	}
	if s := idx.get(row, "pet_weight_limit_lbs"); s != "" {
		limit, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return l, eris.Wrap(err, "parse pet_weight_limit_lbs")
		}
		l.PetWeightLimitLbs = &limit
	}

	l.BuildingAmenities = splitList(idx.get(row, "building_amenities"))
	l.UnitAmenities = splitList(idx.get(row, "unit_amenities"))

	if s := idx.get(row, "available_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return l, eris.Wrap(err, "parse available_date")
		}
		l.AvailableDate = t
	}

	if s := idx.get(row, "status"); s != "" {
		l.Status = model.ListingStatus(strings.ToLower(s))
	} else {
		l.Status = model.ListingAvailable
	}

	if err := validateListing(&l); err != nil {
		return l, err
	}
	return l, nil
}

func validateListing(l *model.Listing) error {
	var errs []string
	if l.ID == "" {
		errs = append(errs, "id is required")
	}
	if l.RentPrice <= 0 {
		errs = append(errs, "rent_price must be > 0")
	}
	if l.Bedrooms < 0 {
		errs = append(errs, "bedrooms must be >= 0")
	}
	if l.Bathrooms <= 0 {
		errs = append(errs, "bathrooms must be > 0")
	}
	if l.NeighborhoodID == "" {
		errs = append(errs, "neighborhood_id is required")
	}
	switch l.PetPolicy {
	case "", model.PetPolicyNoPets, model.PetPolicyAllPets, model.PetPolicyCatsOnly,
		model.PetPolicyPetFee, model.PetPolicyCaseByCase, model.PetPolicySmallPets:
	default:
		errs = append(errs, "unknown pet_policy "+strconv.Quote(string(l.PetPolicy)))
	}
	if len(errs) > 0 {
		return eris.New(strings.Join(errs, "; "))
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
