// Package store defines the document-store boundary.
//
// Implementations live in the mongodb and memory subpackages and must
// agree on semantics: list results are ordered by creation time descending
// with the record id as tiebreak, totals are computed from the same filter
// as the items, and every mutation is a single atomic document update.
package store

import (
	"context"
	"errors"

	"bookbridge.io/bookbridge/internal/domain"
	"bookbridge.io/bookbridge/internal/scope"
)

// Sentinel errors shared by all implementations.
var (
	// ErrNotFound means no record matched a well-formed identifier.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a conditional update found the record in a
	// different state than the precondition required.
	ErrConflict = errors.New("conditional update conflict")

	// ErrInvalidID means the identifier is not a 24-hex-character record id.
	ErrInvalidID = errors.New("invalid record id")
)

// AccountStore persists caller accounts keyed by email.
type AccountStore interface {
	// UpsertLogin atomically records a login for the given identity:
	// if no account exists for acct.Email one is created from acct
	// (role/status/createdAt taken as given), otherwise loginCount is
	// incremented and only the display fields are refreshed. Role and
	// status of an existing account are never touched. Safe under
	// concurrent calls for the same email.
	UpsertLogin(ctx context.Context, acct *domain.Account) (*domain.Account, error)

	FindByEmail(ctx context.Context, email string) (*domain.Account, error)

	List(ctx context.Context, q scope.AccountQuery) ([]domain.Account, int64, error)

	UpdateRole(ctx context.Context, email string, role domain.Role) error

	UpdateStatus(ctx context.Context, email string, status domain.AccountStatus) error

	Count(ctx context.Context) (int64, error)
}

// BookStore persists listed books.
type BookStore interface {
	Insert(ctx context.Context, book *domain.Book) (*domain.Book, error)

	FindByID(ctx context.Context, id string) (*domain.Book, error)

	List(ctx context.Context, q scope.BookQuery) ([]domain.Book, int64, error)

	// MarkRequested performs the conditional available→requested
	// transition: the write applies only while the book is still
	// available, otherwise ErrConflict is returned and requestedBy is
	// left untouched.
	MarkRequested(ctx context.Context, id, requesterEmail string, donationAmount *int64) (*domain.Book, error)

	Count(ctx context.Context, filter scope.BookFilter) (int64, error)
}

// RequestStore persists donation requests.
type RequestStore interface {
	Insert(ctx context.Context, req *domain.DonationRequest) (*domain.DonationRequest, error)

	FindByID(ctx context.Context, id string) (*domain.DonationRequest, error)

	List(ctx context.Context, q scope.RequestQuery) ([]domain.DonationRequest, int64, error)

	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) (*domain.DonationRequest, error)

	Delete(ctx context.Context, id string) error

	Count(ctx context.Context, filter scope.RequestFilter) (int64, error)
}

// Stores bundles the three collections for injection.
type Stores struct {
	Accounts AccountStore
	Books    BookStore
	Requests RequestStore
}
