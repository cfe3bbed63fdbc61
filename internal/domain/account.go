// Package domain holds the core entities and enums for BookBridge.
//
// Account standing, book availability, and donation-request state are
// deliberately distinct types: they share the word "status" on the wire
// but never share constants or parsing.
package domain

import (
	"fmt"
	"time"
)

// Role is a platform role attached to an Account.
type Role string

const (
	RoleDonor Role = "donor"
	RoleAdmin Role = "admin"
)

// ParseRole validates a wire-level role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDonor, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// AccountStatus is an account's standing on the platform.
type AccountStatus string

const (
	AccountActive  AccountStatus = "active"
	AccountBlocked AccountStatus = "blocked"
)

// ParseAccountStatus validates a wire-level account status string.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case AccountActive, AccountBlocked:
		return AccountStatus(s), nil
	default:
		return "", fmt.Errorf("unknown account status %q", s)
	}
}

// Account identifies a caller. Email is the unique join key to the
// externally verified identity; no internal surrogate ID is trusted for
// authorization decisions.
type Account struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	Email       string        `bson:"email" json:"email"`
	DisplayName string        `bson:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL    string        `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role        Role          `bson:"role" json:"role"`
	Status      AccountStatus `bson:"status" json:"status"`
	LoginCount  int64         `bson:"loginCount" json:"loginCount"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the account carries the admin role.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// IsActive reports whether the account is in good standing.
func (a *Account) IsActive() bool {
	return a != nil && a.Status == AccountActive
}
