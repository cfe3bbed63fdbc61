// Package identity maps verified claims to internal accounts.
//
// This is the single source of truth for new-account defaults: every
// account enters the system as an active donor, and nothing a token
// carries can ever change an existing account's role or status.
package identity

import (
	"context"
	"errors"

	"bookbridge.io/bookbridge/internal/domain"
	"bookbridge.io/bookbridge/internal/store"
)

// Resolver resolves verified claims to an Account.
type Resolver struct {
	accounts store.AccountStore
}

// NewResolver creates a Resolver backed by the given account store.
func NewResolver(accounts store.AccountStore) *Resolver {
	return &Resolver{accounts: accounts}
}

// seed builds the account document a login would create. Role and status
// are the centralized defaults; display fields come from the claims and
// are refresh-only for existing accounts.
func seed(claims *domain.Claims) *domain.Account {
	return &domain.Account{
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		PhotoURL:    claims.PhotoURL,
		Role:        domain.RoleDonor,
		Status:      domain.AccountActive,
	}
}

// Login records a login for the identity: creates the account on first
// sight, otherwise increments loginCount and refreshes display fields.
// Atomic under concurrent duplicate logins for the same email; the store
// guarantees a single account per email.
func (r *Resolver) Login(ctx context.Context, claims *domain.Claims) (*domain.Account, error) {
	return r.accounts.UpsertLogin(ctx, seed(claims))
}

// Resolve returns the account for the identity without counting a login.
// An identity the store has never seen resolves to an unsaved account
// carrying the defaults; only a login persists it.
func (r *Resolver) Resolve(ctx context.Context, claims *domain.Claims) (*domain.Account, error) {
	acct, err := r.accounts.FindByEmail(ctx, claims.Email)
	if errors.Is(err, store.ErrNotFound) {
		return seed(claims), nil
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}
