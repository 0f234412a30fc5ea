package matcher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

// Fingerprint returns a deterministic hash of normalized preferences. Any
// preference mutation changes the fingerprint, which is what makes
// content-addressed cache keys self-invalidating.
func Fingerprint(p *Preferences) string {
	h := sha256.New()

	fmt.Fprintf(h, "a=%s|b=%.2f|minbed=%d|maxbed=%d|hasbed=%t|bath=%.2f|studio=%t|strict=%t|move=%d|",
		p.ApplicantID, p.MaxRentBudget, p.MinBedrooms, p.MaxBedrooms, p.HasBedroomRange,
		p.MinBathrooms, p.StudioAcceptable, p.StrictMode, p.DesiredMoveInDate.Unix())

	for _, pet := range p.Pets {
		w := -1.0
		if pet.WeightLbs != nil {
			w = *pet.WeightLbs
		}
		fmt.Fprintf(h, "pet=%s:%.1f|", pet.Species, w)
	}
	for _, n := range p.Neighborhoods {
		fmt.Fprintf(h, "nb=%s:%d|", n.NeighborhoodID, n.Rank)
	}
	writeAmenityPrefs(h, "ba", p.BuildingAmenities)
	writeAmenityPrefs(h, "ua", p.UnitAmenities)

	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintListings hashes the candidate set. Listings are hashed in ID
// order so caller-side ordering does not affect the key, but any change to a
// listing's scoring-relevant fields does.
func FingerprintListings(listings []model.Listing) string {
	ids := make([]int, len(listings))
	for i := range ids {
		ids[i] = i
	}
	sort.Slice(ids, func(a, b int) bool { return listings[ids[a]].ID < listings[ids[b]].ID })

	h := sha256.New()
	for _, i := range ids {
		l := &listings[i]
		limit := -1.0
		if l.PetWeightLimitLbs != nil {
			limit = *l.PetWeightLimitLbs
		}
		fmt.Fprintf(h, "l=%s|r=%.2f|bed=%d|bath=%.2f|nb=%s|pp=%s|pl=%.1f|av=%d|",
			l.ID, l.RentPrice, l.Bedrooms, l.Bathrooms, l.NeighborhoodID, l.PetPolicy,
			limit, l.AvailableDate.Unix())
		writeSortedIDs(h, "bam", l.BuildingAmenities)
		writeSortedIDs(h, "uam", l.UnitAmenities)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CacheKey combines the two fingerprints into the composite cache key.
func CacheKey(p *Preferences, listings []model.Listing) string {
	return Fingerprint(p) + ":" + FingerprintListings(listings)
}

func writeAmenityPrefs(w io.Writer, tag string, prefs map[string]model.PriorityLevel) {
	ids := make([]string, 0, len(prefs))
	for id := range prefs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "%s=%s:%d|", tag, id, prefs[id])
	}
}

func writeSortedIDs(w io.Writer, tag string, ids []string) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for _, id := range sorted {
		fmt.Fprintf(w, "%s=%s|", tag, id)
	}
}
