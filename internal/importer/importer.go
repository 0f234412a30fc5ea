// Package importer parses applicant and listing data from CSV, XLSX, and
// JSON files into model types. Parse errors carry the 1-based row number so
// operators can fix the offending line.
package importer

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// Format identifies a supported input file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// DetectFormat infers the file format from the path extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", eris.Errorf("importer: unsupported file extension %q", filepath.Ext(path))
	}
}

// LoadListings reads listings from a file, dispatching on extension.
func LoadListings(path string) ([]model.Listing, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return loadListingsCSV(path)
	case FormatXLSX:
		return loadListingsXLSX(path)
	default:
		return loadListingsJSON(path)
	}
}

// LoadApplicants reads applicant profiles from a JSON file. Applicant
// profiles are nested (jobs, pets, income sources) and only round-trip
// through JSON.
func LoadApplicants(path string) ([]model.ApplicantProfile, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format != FormatJSON {
		return nil, eris.Errorf("importer: applicants require JSON input, got %s", format)
	}
	return loadApplicantsJSON(path)
}

// headerIndex maps lowercased, trimmed header names to their column index.
// Rows with fewer columns than headers read missing cells as empty strings.
type headerIndex map[string]int

func newHeaderIndex(headers []string) headerIndex {
	idx := make(headerIndex, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func (h headerIndex) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
