package entities

import (
	"time"

	"caravan/internal/shared/events"
)

type ListingStatus string

const (
	StatusDraft               ListingStatus = "Draft"
	StatusPublished           ListingStatus = "Published"
	StatusPendingConfirmation ListingStatus = "PendingConfirmation"
	StatusOngoing             ListingStatus = "Ongoing"
	StatusConfirmed           ListingStatus = "Confirmed"
	StatusTerminated          ListingStatus = "Terminated"
	StatusCancelled           ListingStatus = "Cancelled"
)

// Category identifiers are fixed well-known UUIDs, not a foreign-keyed
// taxonomy. The category selects the listing sub-type and which role owns
// it. The values are contract-level and shared with event consumers.
const (
	CategoryAddress      = events.CategoryAddress
	CategoryAnnouncement = events.CategoryAnnouncement
	CategoryPlanning     = events.CategoryPlanning
	CategoryVehicle      = events.CategoryVehicle
	CategoryExperience   = events.CategoryExperience
)

type OwnerRole string

const (
	OwnerRoleClient OwnerRole = "client"
	OwnerRoleDriver OwnerRole = "driver"
)

// CategoryOwner reports which role authors listings of the category. Clients
// own announcements, addresses and experiences; drivers own plannings and
// vehicles. Unknown categories report ok=false.
func CategoryOwner(categoryID string) (OwnerRole, bool) {
	switch categoryID {
	case CategoryAnnouncement, CategoryAddress, CategoryExperience:
		return OwnerRoleClient, true
	case CategoryPlanning, CategoryVehicle:
		return OwnerRoleDriver, true
	default:
		return "", false
	}
}

// Listing is the generic reservable unit, keyed by (organisationID,
// listingID). ReservedByID holds the counterpart that claimed it: a driver on
// announcements, the accepting client on plannings. Version is the optimistic
// concurrency token; every transition is a conditional write on it.
type Listing struct {
	OrganisationID string
	ListingID      string
	CategoryID     string
	Status         ListingStatus
	ClientID       string

	Title       string
	Description string

	ReservedByID   string
	ReservedByName string

	PriceAmount float64
	Currency    string

	DepartureAddress string
	ArrivalAddress   string
	DepartureAt      *time.Time

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l Listing) Reserved() bool {
	return l.ReservedByID != ""
}

// OwnedBy reports whether userID authored the listing. ClientID names the
// owning author for every category regardless of role.
func (l Listing) OwnedBy(userID string) bool {
	return l.ClientID == userID
}
