package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbridge.io/bookbridge/internal/domain"
	"bookbridge.io/bookbridge/internal/scope"
	"bookbridge.io/bookbridge/internal/store"
)

func seedBooks(t *testing.T, books store.BookStore, n int, owner string) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		book, err := books.Insert(context.Background(), &domain.Book{
			Title:      fmt.Sprintf("Book %d", i+1),
			OwnerEmail: owner,
			Status:     domain.BookAvailable,
		})
		require.NoError(t, err)
		ids = append(ids, book.ID)
	}
	return ids
}

func TestAccountStore_UpsertLogin_Idempotent(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	seed := &domain.Account{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Role:        domain.RoleDonor,
		Status:      domain.AccountActive,
	}

	first, err := stores.Accounts.UpsertLogin(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.LoginCount)
	assert.Equal(t, domain.RoleDonor, first.Role)
	require.True(t, store.ValidID(first.ID))

	second, err := stores.Accounts.UpsertLogin(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.LoginCount)
	assert.Equal(t, first.ID, second.ID, "repeat login must not duplicate the account")

	total, err := stores.Accounts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestAccountStore_UpsertLogin_PreservesRoleAndStatus(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	_, err := stores.Accounts.UpsertLogin(ctx, &domain.Account{
		Email:  "admin@example.com",
		Role:   domain.RoleDonor,
		Status: domain.AccountActive,
	})
	require.NoError(t, err)
	require.NoError(t, stores.Accounts.UpdateRole(ctx, "admin@example.com", domain.RoleAdmin))
	require.NoError(t, stores.Accounts.UpdateStatus(ctx, "admin@example.com", domain.AccountBlocked))

	// A later login carries defaults and fresh display data; neither may
	// overwrite what the admin set.
	got, err := stores.Accounts.UpsertLogin(ctx, &domain.Account{
		Email:       "admin@example.com",
		DisplayName: "New Name",
		Role:        domain.RoleDonor,
		Status:      domain.AccountActive,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Equal(t, domain.AccountBlocked, got.Status)
	assert.Equal(t, "New Name", got.DisplayName)
}

func TestAccountStore_UpdateRole_NotFound(t *testing.T) {
	stores := NewStores()
	err := stores.Accounts.UpdateRole(context.Background(), "ghost@example.com", domain.RoleAdmin)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBookStore_List_SecondPageOfSeven(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()
	seedBooks(t, stores.Books, 7, "owner@example.com")

	items, total, err := stores.Books.List(ctx, scope.BookQuery{
		Filter: scope.BookFilter{},
		Page:   scope.Page{Number: 2, Size: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, items, 3)

	// Newest-first: page 2 holds ranks 4-6, i.e. Book 4..Book 2.
	assert.Equal(t, "Book 4", items[0].Title)
	assert.Equal(t, "Book 3", items[1].Title)
	assert.Equal(t, "Book 2", items[2].Title)
}

func TestBookStore_List_PaginationStability(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()
	seedBooks(t, stores.Books, 10, "owner@example.com")

	full, _, err := stores.Books.List(ctx, scope.BookQuery{
		Page: scope.Page{Number: 1, Size: scope.MaxLimit},
	})
	require.NoError(t, err)
	require.Len(t, full, 10)

	const limit = 3
	var walked []string
	for page := 1; page <= 4; page++ {
		items, total, err := stores.Books.List(ctx, scope.BookQuery{
			Page: scope.Page{Number: page, Size: limit},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), total)
		for _, b := range items {
			walked = append(walked, b.ID)
		}
	}

	// The union of consecutive pages equals the full ordered set: no
	// duplicates, no gaps.
	require.Len(t, walked, 10)
	for i, b := range full {
		assert.Equal(t, b.ID, walked[i])
	}
}

func TestBookStore_List_PageBeyondEnd(t *testing.T) {
	stores := NewStores()
	seedBooks(t, stores.Books, 4, "owner@example.com")

	items, total, err := stores.Books.List(context.Background(), scope.BookQuery{
		Page: scope.Page{Number: 9, Size: 3},
	})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(4), total)
}

func TestBookStore_List_OwnerScopeAndStatusFilter(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()
	mine := seedBooks(t, stores.Books, 3, "me@example.com")
	seedBooks(t, stores.Books, 2, "other@example.com")

	_, err := stores.Books.MarkRequested(ctx, mine[0], "donor@example.com", nil)
	require.NoError(t, err)

	items, total, err := stores.Books.List(ctx, scope.BookQuery{
		Filter: scope.BookFilter{OwnerEmail: "me@example.com", Status: domain.BookAvailable},
		Page:   scope.Page{Number: 1, Size: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, b := range items {
		assert.Equal(t, "me@example.com", b.OwnerEmail)
		assert.Equal(t, domain.BookAvailable, b.Status)
	}
}

func TestBookStore_MarkRequested_ConditionalWrite(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()
	ids := seedBooks(t, stores.Books, 1, "owner@example.com")
	amount := int64(500)

	got, err := stores.Books.MarkRequested(ctx, ids[0], "first@example.com", &amount)
	require.NoError(t, err)
	assert.Equal(t, domain.BookRequested, got.Status)
	assert.Equal(t, "first@example.com", got.RequestedBy)
	require.NotNil(t, got.DonationAmount)
	assert.Equal(t, int64(500), *got.DonationAmount)

	// The second requester loses the race and must not overwrite.
	_, err = stores.Books.MarkRequested(ctx, ids[0], "second@example.com", nil)
	assert.ErrorIs(t, err, store.ErrConflict)

	after, err := stores.Books.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", after.RequestedBy)
}

func TestBookStore_MarkRequested_Missing(t *testing.T) {
	stores := NewStores()

	_, err := stores.Books.MarkRequested(context.Background(), "000000000000000000000bad", "x@y.z", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = stores.Books.MarkRequested(context.Background(), "not-an-id", "x@y.z", nil)
	assert.ErrorIs(t, err, store.ErrInvalidID)
}

func TestRequestStore_CRUD(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	req, err := stores.Requests.Insert(ctx, &domain.DonationRequest{
		BookID:         "000000000000000000000001",
		RequesterEmail: "donor@example.com",
		Status:         domain.RequestPending,
	})
	require.NoError(t, err)
	require.True(t, store.ValidID(req.ID))

	found, err := stores.Requests.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, found.Status)

	updated, err := stores.Requests.UpdateStatus(ctx, req.ID, domain.RequestApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestApproved, updated.Status)

	require.NoError(t, stores.Requests.Delete(ctx, req.ID))
	_, err = stores.Requests.FindByID(ctx, req.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, stores.Requests.Delete(ctx, req.ID), store.ErrNotFound)
}

func TestRequestStore_List_ScopedToRequester(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := stores.Requests.Insert(ctx, &domain.DonationRequest{
			BookID:         fmt.Sprintf("%024d", i),
			RequesterEmail: "mine@example.com",
			Status:         domain.RequestPending,
		})
		require.NoError(t, err)
	}
	_, err := stores.Requests.Insert(ctx, &domain.DonationRequest{
		BookID:         "000000000000000000000009",
		RequesterEmail: "other@example.com",
		Status:         domain.RequestPending,
	})
	require.NoError(t, err)

	items, total, err := stores.Requests.List(ctx, scope.RequestQuery{
		Filter: scope.RequestFilter{RequesterEmail: "mine@example.com"},
		Page:   scope.Page{Number: 1, Size: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, r := range items {
		assert.Equal(t, "mine@example.com", r.RequesterEmail)
	}
}

func TestAccountStore_List_ExcludesEmail(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "admin@x.com"} {
		_, err := stores.Accounts.UpsertLogin(ctx, &domain.Account{
			Email: email, Role: domain.RoleDonor, Status: domain.AccountActive,
		})
		require.NoError(t, err)
	}

	items, total, err := stores.Accounts.List(ctx, scope.AccountQuery{
		Filter: scope.AccountFilter{ExcludeEmail: "admin@x.com"},
		Page:   scope.Page{Number: 1, Size: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, a := range items {
		assert.NotEqual(t, "admin@x.com", a.Email)
	}
}
