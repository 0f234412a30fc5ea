package model

import "time"

// EmploymentStatus describes an applicant's primary employment situation.
type EmploymentStatus string

const (
	EmploymentEmployed     EmploymentStatus = "employed"
	EmploymentSelfEmployed EmploymentStatus = "self_employed"
	EmploymentStudent      EmploymentStatus = "student"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
)

// HousingStatus describes an applicant's current living arrangement.
type HousingStatus string

const (
	HousingRenter    HousingStatus = "rent"
	HousingHomeowner HousingStatus = "own"
	HousingFamily    HousingStatus = "family"
)

// PriorityLevel rates how much an applicant cares about an amenity.
// Absence of an explicit rating always means DontCare, never an error.
type PriorityLevel int

const (
	PriorityDontCare   PriorityLevel = 0
	PriorityNiceToHave PriorityLevel = 1
	PriorityImportant  PriorityLevel = 2
	PriorityMustHave   PriorityLevel = 3
)

func (p PriorityLevel) String() string {
	switch p {
	case PriorityNiceToHave:
		return "nice_to_have"
	case PriorityImportant:
		return "important"
	case PriorityMustHave:
		return "must_have"
	default:
		return "dont_care"
	}
}

// PetSpecies identifies the kind of animal in a pet record.
type PetSpecies string

const (
	SpeciesCat   PetSpecies = "cat"
	SpeciesDog   PetSpecies = "dog"
	SpeciesOther PetSpecies = "other"
)

// Pet is a single animal in an applicant's household.
type Pet struct {
	Species   PetSpecies `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	WeightLbs *float64   `json:"weight_lbs,omitempty"`
}

// NeighborhoodPreference is one entry in an applicant's ranked neighborhood
// list. Rank 1 is the most preferred.
type NeighborhoodPreference struct {
	NeighborhoodID string `json:"neighborhood_id"`
	Rank           int    `json:"rank"`
}

// Job is an additional employment record beyond the primary one.
type Job struct {
	CompanyName  string   `json:"company_name"`
	Position     string   `json:"position,omitempty"`
	AnnualIncome *float64 `json:"annual_income,omitempty"`
}

// IncomeSource is a non-employment income record (investments, benefits,
// family support).
type IncomeSource struct {
	Description         string   `json:"description"`
	AverageAnnualIncome *float64 `json:"average_annual_income,omitempty"`
	Verified            bool     `json:"verified"`
}

// PreviousAddress is a prior residence used for housing-history scoring.
type PreviousAddress struct {
	Address        string  `json:"address"`
	DurationYears  float64 `json:"duration_years"`
	LandlordName   string  `json:"landlord_name,omitempty"`
	ReasonForLeave string  `json:"reason_for_leave,omitempty"`
}

// ApplicantProfile is the raw stored applicant record. Optional fields are
// pointers; nil means the applicant never provided the value. Both the
// matching normalizer and the risk scorer accept partially filled profiles
// and degrade to documented defaults.
type ApplicantProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`

	// Search preferences.
	MaxRentBudget        *float64                 `json:"max_rent_budget,omitempty"`
	MinBedrooms          *int                     `json:"min_bedrooms,omitempty"`
	MaxBedrooms          *int                     `json:"max_bedrooms,omitempty"`
	MinBathrooms         *float64                 `json:"min_bathrooms,omitempty"`
	StudioAcceptable     bool                     `json:"studio_acceptable"`
	DesiredMoveInDate    *time.Time               `json:"desired_move_in_date,omitempty"`
	Pets                 []Pet                    `json:"pets,omitempty"`
	Neighborhoods        []NeighborhoodPreference `json:"neighborhoods,omitempty"`
	BuildingAmenityPrefs map[string]PriorityLevel `json:"building_amenity_prefs,omitempty"`
	UnitAmenityPrefs     map[string]PriorityLevel `json:"unit_amenity_prefs,omitempty"`

	// Employment and income.
	EmploymentStatus    EmploymentStatus `json:"employment_status,omitempty"`
	CompanyName         string           `json:"company_name,omitempty"`
	Position            string           `json:"position,omitempty"`
	AnnualIncome        *float64         `json:"annual_income,omitempty"`
	EmploymentStartDate *time.Time       `json:"employment_start_date,omitempty"`
	Jobs                []Job            `json:"jobs,omitempty"`
	IncomeSources       []IncomeSource   `json:"income_sources,omitempty"`

	// Housing history.
	HousingStatus        HousingStatus     `json:"housing_status,omitempty"`
	CurrentAddressYears  *int              `json:"current_address_years,omitempty"`
	CurrentAddressMonths *int              `json:"current_address_months,omitempty"`
	PreviousAddresses    []PreviousAddress `json:"previous_addresses,omitempty"`
	CurrentLandlordName  string            `json:"current_landlord_name,omitempty"`
	EvictedBefore        bool              `json:"evicted_before"`
	EvictionExplanation  string            `json:"eviction_explanation,omitempty"`

	EmergencyContactName  string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// HasPets reports whether the household includes at least one pet.
func (a *ApplicantProfile) HasPets() bool {
	return len(a.Pets) > 0
}

// TotalMonthlyIncome sums primary, additional-job, and other income sources
// into a monthly figure. Missing components contribute zero.
func (a *ApplicantProfile) TotalMonthlyIncome() float64 {
	var annual float64
	if a.AnnualIncome != nil {
		annual += *a.AnnualIncome
	}
	for _, j := range a.Jobs {
		if j.AnnualIncome != nil {
			annual += *j.AnnualIncome
		}
	}
	for _, s := range a.IncomeSources {
		if s.AverageAnnualIncome != nil {
			annual += *s.AverageAnnualIncome
		}
	}
	return annual / 12
}

// HasVerifiedIncome reports whether any income source has been verified or a
// primary income with an employer is on file.
func (a *ApplicantProfile) HasVerifiedIncome() bool {
	for _, s := range a.IncomeSources {
		if s.Verified {
			return true
		}
	}
	return a.AnnualIncome != nil && a.CompanyName != ""
}
