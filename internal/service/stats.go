// Package service holds business logic that composes stores.
package service

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"bookbridge.io/bookbridge/internal/domain"
	apperrors "bookbridge.io/bookbridge/internal/pkg/errors"
	"bookbridge.io/bookbridge/internal/pkg/logger"
	"bookbridge.io/bookbridge/internal/pkg/worker"
	"bookbridge.io/bookbridge/internal/scope"
	"bookbridge.io/bookbridge/internal/store"
)

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalBooks     int64 `json:"totalBooks"`
	RequestedBooks int64 `json:"requestedBooks"`
	TotalRequests  int64 `json:"totalRequests"`
}

// StatsService aggregates collection counts for the admin dashboard. The
// counts are independent, so they fan out over the worker pool instead of
// running sequentially.
type StatsService struct {
	stores store.Stores
	pool   *worker.Pool
}

// NewStatsService creates a StatsService using the given pool for fan-out.
func NewStatsService(stores store.Stores, pool *worker.Pool) *StatsService {
	return &StatsService{stores: stores, pool: pool}
}

type countResult struct {
	idx int
	n   int64
	err error
}

// Dashboard returns current totals across users, books and requests.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	counts := []struct {
		name string
		fn   func(context.Context) (int64, error)
	}{
		{"users", func(ctx context.Context) (int64, error) {
			return s.stores.Accounts.Count(ctx)
		}},
		{"books", func(ctx context.Context) (int64, error) {
			return s.stores.Books.Count(ctx, scope.BookFilter{})
		}},
		{"requested books", func(ctx context.Context) (int64, error) {
			return s.stores.Books.Count(ctx, scope.BookFilter{Status: domain.BookRequested})
		}},
		{"requests", func(ctx context.Context) (int64, error) {
			return s.stores.Requests.Count(ctx, scope.RequestFilter{})
		}},
	}

	results := make(chan countResult, len(counts))
	for i, c := range counts {
		i, c := i, c
		err := s.pool.Submit(ctx, func(ctx context.Context) {
			n, err := c.fn(ctx)
			if err != nil {
				err = fmt.Errorf("count %s: %w", c.name, err)
			}
			results <- countResult{idx: i, n: n, err: err}
		})
		if err != nil {
			results <- countResult{idx: i, err: err}
		}
	}

	totals := make([]int64, len(counts))
	for range counts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r := <-results:
			if r.err != nil {
				logger.Error("dashboard count failed", zap.Error(r.err))
				return nil, apperrors.Wrap(r.err, apperrors.CodeInternal, "failed to load dashboard stats", http.StatusInternalServerError)
			}
			totals[r.idx] = r.n
		}
	}

	return &DashboardStats{
		TotalUsers:     totals[0],
		TotalBooks:     totals[1],
		RequestedBooks: totals[2],
		TotalRequests:  totals[3],
	}, nil
}
