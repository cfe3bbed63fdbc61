package domain

import (
	"fmt"
	"time"
)

// BookStatus is a listed book's availability, not to be confused with an
// account's standing.
type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookRequested BookStatus = "requested"
	BookCompleted BookStatus = "completed"
)

// ParseBookStatus validates a wire-level book status string.
func ParseBookStatus(s string) (BookStatus, error) {
	switch BookStatus(s) {
	case BookAvailable, BookRequested, BookCompleted:
		return BookStatus(s), nil
	default:
		return "", fmt.Errorf("unknown book status %q", s)
	}
}

// Book is a donatable listing. OwnerEmail is set from the verified caller
// at creation and never changes. RequestedBy and DonationAmount are set
// only by the conditional available→requested transition.
type Book struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	Title          string     `bson:"title" json:"title"`
	Author         string     `bson:"author,omitempty" json:"author,omitempty"`
	Genre          string     `bson:"genre,omitempty" json:"genre,omitempty"`
	CoverURL       string     `bson:"coverURL,omitempty" json:"coverURL,omitempty"`
	PickupLocation string     `bson:"pickupLocation,omitempty" json:"pickupLocation,omitempty"`
	AvailableUntil *time.Time `bson:"availableUntil,omitempty" json:"availableUntil,omitempty"`
	OwnerEmail     string     `bson:"ownerEmail" json:"ownerEmail"`
	Status         BookStatus `bson:"status" json:"status"`
	RequestedBy    string     `bson:"requestedBy,omitempty" json:"requestedBy,omitempty"`
	// DonationAmount is in minor currency units (cents).
	DonationAmount *int64    `bson:"donationAmount,omitempty" json:"donationAmount,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
