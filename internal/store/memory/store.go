// Package memory implements the store interfaces in process memory.
//
// It backs tests and the `database.driver: memory` development mode, and
// mirrors the mongodb package's semantics exactly: newest-first ordering
// with id tiebreak, totals from the same predicate as the items, and
// mutations that are atomic under the store mutex.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bookbridge.io/bookbridge/internal/domain"
	"bookbridge.io/bookbridge/internal/scope"
	"bookbridge.io/bookbridge/internal/store"
)

// NewStores builds an empty in-memory store bundle.
func NewStores() store.Stores {
	seq := &sequence{}
	return store.Stores{
		Accounts: &AccountStore{accounts: make(map[string]domain.Account), seq: seq},
		Books:    &BookStore{books: make(map[string]domain.Book), seq: seq},
		Requests: &RequestStore{requests: make(map[string]domain.DonationRequest), seq: seq},
	}
}

// sequence mints 24-hex identifiers with a strictly increasing order, so
// the id tiebreak matches insertion recency like ObjectIDs do.
type sequence struct {
	mu sync.Mutex
	n  uint64
}

func (s *sequence) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%024x", s.n)
}

func newerFirst(aCreated time.Time, aID string, bCreated time.Time, bID string) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return aID > bID
}

func paginate[T any](items []T, page scope.Page) []T {
	skip := page.Skip()
	if skip >= len(items) {
		return []T{}
	}
	end := skip + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// AccountStore implements store.AccountStore.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account // keyed by email
	seq      *sequence
}

func (s *AccountStore) UpsertLogin(_ context.Context, acct *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := s.accounts[acct.Email]
	if ok {
		existing.LoginCount++
		if acct.DisplayName != "" {
			existing.DisplayName = acct.DisplayName
		}
		if acct.PhotoURL != "" {
			existing.PhotoURL = acct.PhotoURL
		}
		existing.UpdatedAt = now
		s.accounts[acct.Email] = existing
		return &existing, nil
	}

	created := domain.Account{
		ID:          s.seq.next(),
		Email:       acct.Email,
		DisplayName: acct.DisplayName,
		PhotoURL:    acct.PhotoURL,
		Role:        acct.Role,
		Status:      acct.Status,
		LoginCount:  1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.accounts[acct.Email] = created
	return &created, nil
}

func (s *AccountStore) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &acct, nil
}

func (s *AccountStore) List(_ context.Context, q scope.AccountQuery) ([]domain.Account, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		if q.Filter.ExcludeEmail != "" && acct.Email == q.Filter.ExcludeEmail {
			continue
		}
		matched = append(matched, acct)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[i].ID, matched[j].CreatedAt, matched[j].ID)
	})
	return paginate(matched, q.Page), int64(len(matched)), nil
}

func (s *AccountStore) UpdateRole(_ context.Context, email string, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[email]
	if !ok {
		return store.ErrNotFound
	}
	acct.Role = role
	acct.UpdatedAt = time.Now().UTC()
	s.accounts[email] = acct
	return nil
}

func (s *AccountStore) UpdateStatus(_ context.Context, email string, status domain.AccountStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[email]
	if !ok {
		return store.ErrNotFound
	}
	acct.Status = status
	acct.UpdatedAt = time.Now().UTC()
	s.accounts[email] = acct
	return nil
}

func (s *AccountStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.accounts)), nil
}

// BookStore implements store.BookStore.
type BookStore struct {
	mu    sync.RWMutex
	books map[string]domain.Book
	seq   *sequence
}

func (s *BookStore) Insert(_ context.Context, book *domain.Book) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	book.ID = s.seq.next()
	book.CreatedAt = now
	book.UpdatedAt = now
	s.books[book.ID] = *book
	return book, nil
}

func (s *BookStore) FindByID(_ context.Context, id string) (*domain.Book, error) {
	if !store.ValidID(id) {
		return nil, store.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &book, nil
}

func (s *BookStore) List(_ context.Context, q scope.BookQuery) ([]domain.Book, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Book, 0, len(s.books))
	for _, book := range s.books {
		if !matchBook(book, q.Filter) {
			continue
		}
		matched = append(matched, book)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[i].ID, matched[j].CreatedAt, matched[j].ID)
	})
	return paginate(matched, q.Page), int64(len(matched)), nil
}

func (s *BookStore) MarkRequested(_ context.Context, id, requesterEmail string, donationAmount *int64) (*domain.Book, error) {
	if !store.ValidID(id) {
		return nil, store.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if book.Status != domain.BookAvailable {
		return nil, store.ErrConflict
	}
	book.Status = domain.BookRequested
	book.RequestedBy = requesterEmail
	if donationAmount != nil {
		amount := *donationAmount
		book.DonationAmount = &amount
	}
	book.UpdatedAt = time.Now().UTC()
	s.books[id] = book
	return &book, nil
}

func (s *BookStore) Count(_ context.Context, filter scope.BookFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, book := range s.books {
		if matchBook(book, filter) {
			n++
		}
	}
	return n, nil
}

func matchBook(book domain.Book, f scope.BookFilter) bool {
	if f.OwnerEmail != "" && book.OwnerEmail != f.OwnerEmail {
		return false
	}
	if f.Status != "" && book.Status != f.Status {
		return false
	}
	return true
}

// RequestStore implements store.RequestStore.
type RequestStore struct {
	mu       sync.RWMutex
	requests map[string]domain.DonationRequest
	seq      *sequence
}

func (s *RequestStore) Insert(_ context.Context, req *domain.DonationRequest) (*domain.DonationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	req.ID = s.seq.next()
	req.CreatedAt = now
	req.UpdatedAt = now
	s.requests[req.ID] = *req
	return req, nil
}

func (s *RequestStore) FindByID(_ context.Context, id string) (*domain.DonationRequest, error) {
	if !store.ValidID(id) {
		return nil, store.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &req, nil
}

func (s *RequestStore) List(_ context.Context, q scope.RequestQuery) ([]domain.DonationRequest, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.DonationRequest, 0, len(s.requests))
	for _, req := range s.requests {
		if !matchRequest(req, q.Filter) {
			continue
		}
		matched = append(matched, req)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[i].ID, matched[j].CreatedAt, matched[j].ID)
	})
	return paginate(matched, q.Page), int64(len(matched)), nil
}

func (s *RequestStore) UpdateStatus(_ context.Context, id string, status domain.RequestStatus) (*domain.DonationRequest, error) {
	if !store.ValidID(id) {
		return nil, store.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = time.Now().UTC()
	s.requests[id] = req
	return &req, nil
}

func (s *RequestStore) Delete(_ context.Context, id string) error {
	if !store.ValidID(id) {
		return store.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *RequestStore) Count(_ context.Context, filter scope.RequestFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, req := range s.requests {
		if matchRequest(req, filter) {
			n++
		}
	}
	return n, nil
}

func matchRequest(req domain.DonationRequest, f scope.RequestFilter) bool {
	if f.RequesterEmail != "" && req.RequesterEmail != f.RequesterEmail {
		return false
	}
	if f.Status != "" && req.Status != f.Status {
		return false
	}
	return true
}
