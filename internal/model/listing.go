package model

import "time"

// PetPolicy is the building-level pet rule attached to a listing.
type PetPolicy string

const (
	PetPolicyNoPets     PetPolicy = "no_pets"
	PetPolicyAllPets    PetPolicy = "all_pets"
	PetPolicyCatsOnly   PetPolicy = "cats_only"
	PetPolicyPetFee     PetPolicy = "pet_fee"
	PetPolicyCaseByCase PetPolicy = "case_by_case"
	PetPolicySmallPets  PetPolicy = "small_pets"
)

// ListingStatus marks whether a listing is on the market.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingPending   ListingStatus = "pending"
	ListingRented    ListingStatus = "rented"
)

// Listing is a candidate apartment as supplied by the calling layer. The
// matching engine treats it as immutable for the duration of a call.
type Listing struct {
	ID                string        `json:"id"`
	BuildingName      string        `json:"building_name,omitempty"`
	Address           string        `json:"address,omitempty"`
	RentPrice         float64       `json:"rent_price"`
	Bedrooms          int           `json:"bedrooms"`
	Bathrooms         float64       `json:"bathrooms"`
	NeighborhoodID    string        `json:"neighborhood_id"`
	PetPolicy         PetPolicy     `json:"pet_policy"`
	PetWeightLimitLbs *float64      `json:"pet_weight_limit_lbs,omitempty"`
	BuildingAmenities []string      `json:"building_amenities,omitempty"`
	UnitAmenities     []string      `json:"unit_amenities,omitempty"`
	AvailableDate     time.Time     `json:"available_date"`
	Status            ListingStatus `json:"status"`
	UpdatedAt         time.Time     `json:"updated_at"`
}
