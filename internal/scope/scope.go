// Package scope turns caller identity, raw filters and raw pagination into
// scoped store queries.
//
// Every list endpoint goes through a builder here so the scoping rules live
// in one place: identity fields are forced from the verified caller (a
// client-supplied ownerEmail or requesterEmail never reaches the store),
// filter fields are merged only from a per-endpoint allow-list, and
// pagination is normalized and bounded. The items filter and the count
// filter are the same value by construction, so totals always match what
// pagination is paging over.
package scope

import (
	"strconv"

	"bookbridge.io/bookbridge/internal/domain"
	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
)

// MaxLimit bounds every page size; the raw limit is clamped here so no
// endpoint can be coaxed into returning an unbounded result set.
const MaxLimit = 100

// Default page sizes. Distinct defaults per resource are intentional.
const (
	LimitPublicBooks = 6
	LimitMyBooks     = 3
	LimitMyRequests  = 5
	LimitAdminUsers  = 10
)

// FilterAll is the wire value meaning "no restriction on that field".
const FilterAll = "all"

// Page is normalized pagination.
type Page struct {
	Number int
	Size   int
}

// Skip is the number of records to skip for this page.
func (p Page) Skip() int {
	return (p.Number - 1) * p.Size
}

// NormalizePage validates raw pagination parameters. Page defaults to 1
// and clamps to >= 1; limit defaults per endpoint, rejects zero and
// negatives, and clamps to MaxLimit.
func NormalizePage(rawPage, rawLimit string, defaultLimit int) (Page, error) {
	page := 1
	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil {
			return Page{}, apperrors.BadRequest(apperrors.CodeInvalidRequest, "page must be an integer")
		}
		if n > 1 {
			page = n
		}
	}

	limit := defaultLimit
	if rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil {
			return Page{}, apperrors.BadRequest(apperrors.CodeInvalidRequest, "limit must be an integer")
		}
		if n <= 0 {
			return Page{}, apperrors.BadRequest(apperrors.CodeInvalidRequest, "limit must be positive")
		}
		limit = n
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Page{Number: page, Size: limit}, nil
}

// BookFilter is the scoped predicate for book queries. Zero-valued fields
// mean "no restriction".
type BookFilter struct {
	OwnerEmail string
	Status     domain.BookStatus
}

// BookQuery pairs a book filter with pagination. The same filter drives
// both the items query and the total count.
type BookQuery struct {
	Filter BookFilter
	Page   Page
}

// PublicBooks scopes the public listing. Allow-listed filters: status.
func PublicBooks(rawStatus, rawPage, rawLimit string) (BookQuery, error) {
	page, err := NormalizePage(rawPage, rawLimit, LimitPublicBooks)
	if err != nil {
		return BookQuery{}, err
	}
	filter := BookFilter{}
	if err := mergeBookStatus(&filter, rawStatus); err != nil {
		return BookQuery{}, err
	}
	return BookQuery{Filter: filter, Page: page}, nil
}

// MyBooks scopes the caller's own listings. OwnerEmail is forced to the
// caller regardless of anything the client supplied.
func MyBooks(caller *domain.Account, rawStatus, rawPage, rawLimit string) (BookQuery, error) {
	page, err := NormalizePage(rawPage, rawLimit, LimitMyBooks)
	if err != nil {
		return BookQuery{}, err
	}
	filter := BookFilter{OwnerEmail: caller.Email}
	if err := mergeBookStatus(&filter, rawStatus); err != nil {
		return BookQuery{}, err
	}
	return BookQuery{Filter: filter, Page: page}, nil
}

func mergeBookStatus(filter *BookFilter, raw string) error {
	if raw == "" || raw == FilterAll {
		return nil
	}
	status, err := domain.ParseBookStatus(raw)
	if err != nil {
		return apperrors.BadRequest(apperrors.CodeInvalidRequest, "unknown status filter")
	}
	filter.Status = status
	return nil
}

// RequestFilter is the scoped predicate for donation-request queries.
type RequestFilter struct {
	RequesterEmail string
	Status         domain.RequestStatus
}

// RequestQuery pairs a request filter with pagination.
type RequestQuery struct {
	Filter RequestFilter
	Page   Page
}

// MyRequests scopes the caller's donation requests. RequesterEmail is
// forced to the caller. Allow-listed filters: status.
func MyRequests(caller *domain.Account, rawStatus, rawPage, rawLimit string) (RequestQuery, error) {
	page, err := NormalizePage(rawPage, rawLimit, LimitMyRequests)
	if err != nil {
		return RequestQuery{}, err
	}
	filter := RequestFilter{RequesterEmail: caller.Email}
	if raw := rawStatus; raw != "" && raw != FilterAll {
		status, err := domain.ParseRequestStatus(raw)
		if err != nil {
			return RequestQuery{}, apperrors.BadRequest(apperrors.CodeInvalidRequest, "unknown status filter")
		}
		filter.Status = status
	}
	return RequestQuery{Filter: filter, Page: page}, nil
}

// AccountFilter is the scoped predicate for account listings.
type AccountFilter struct {
	// ExcludeEmail drops one account from the listing; the admin user
	// list never shows the admin their own row.
	ExcludeEmail string
}

// AccountQuery pairs an account filter with pagination.
type AccountQuery struct {
	Filter AccountFilter
	Page   Page
}

// AdminUsers scopes the admin user listing, excluding the caller.
func AdminUsers(caller *domain.Account, rawPage, rawLimit string) (AccountQuery, error) {
	page, err := NormalizePage(rawPage, rawLimit, LimitAdminUsers)
	if err != nil {
		return AccountQuery{}, err
	}
	return AccountQuery{
		Filter: AccountFilter{ExcludeEmail: caller.Email},
		Page:   page,
	}, nil
}
