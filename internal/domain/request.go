package domain

import (
	"fmt"
	"time"
)

// RequestStatus is the review state of a donation request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// ParseRequestStatus validates a wire-level request status string.
func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(s) {
	case RequestPending, RequestApproved, RequestRejected:
		return RequestStatus(s), nil
	default:
		return "", fmt.Errorf("unknown request status %q", s)
	}
}

// DonationRequest is a caller's request against a listed book.
// RequesterEmail is always taken from the verified identity; any
// client-supplied value for it is discarded before persistence.
type DonationRequest struct {
	ID             string        `bson:"_id,omitempty" json:"id"`
	BookID         string        `bson:"bookId" json:"bookId"`
	RequesterEmail string        `bson:"requesterEmail" json:"requesterEmail"`
	Note           string        `bson:"note,omitempty" json:"note,omitempty"`
	Status         RequestStatus `bson:"status" json:"status"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updatedAt"`
}
