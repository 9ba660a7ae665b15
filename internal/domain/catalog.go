package domain

// Package is one tour offering. All fields are populated by the mapping
// layer; numeric fields arrive coerced and defaulted, so consumers never
// null-check or re-parse them.
type Package struct {
	ID          string `json:"id"`
	Destination string `json:"destination"` // destination slug
	Title       string `json:"title"`
	Image       string `json:"image"`
	Days        int    `json:"days"`
	Nights      int    `json:"nights"`
	Rating      int    `json:"rating"`
	Price       int    `json:"price"` // whole currency units
	Overview    string `json:"overview"`
}

// ItineraryItem is one day entry of a package itinerary. Several rows may
// share the same (PackageID, Day); each carries its own bullet text.
type ItineraryItem struct {
	PackageID string `json:"packageId"`
	Day       int    `json:"day"`
	Title     string `json:"title"`
	Bullets   string `json:"bullets"`
}

type InclusionItem struct {
	PackageID string `json:"packageId"`
	Item      string `json:"item"`
}

type ExclusionItem struct {
	PackageID string `json:"packageId"`
	Item      string `json:"item"`
}

type PolicyType string

const (
	PolicyPayment      PolicyType = "payment"
	PolicyCancellation PolicyType = "cancellation"
	PolicyTerms        PolicyType = "terms"
)

type PolicyItem struct {
	PackageID string     `json:"packageId"`
	Type      PolicyType `json:"type"`
	Text      string     `json:"text"`
}

type Destination struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Subtitle    string  `json:"subtitle"`
	HeroImage   string  `json:"heroImage"`
	Description string  `json:"description"`
	Country     *string `json:"country,omitempty"`
}

// LeadForm is the enquiry a visitor submits. PackageID is empty for a
// general enquiry.
type LeadForm struct {
	PackageID string `json:"packageId"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Message   string `json:"message"`
}

// LeadResult is the value every Submit call resolves to; the write path
// never propagates an error past its own boundary.
type LeadResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Read models assembled for the two detail pages.

type PackageDetail struct {
	Package    Package         `json:"package"`
	Itinerary  []ItineraryItem `json:"itinerary"`
	Inclusions []InclusionItem `json:"inclusions"`
	Exclusions []ExclusionItem `json:"exclusions"`
	Policies   []PolicyItem    `json:"policies"`
}

type DestinationPage struct {
	Destination Destination `json:"destination"`
	Packages    []Package   `json:"packages"`
}
