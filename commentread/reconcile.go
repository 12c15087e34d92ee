package commentread

import (
	"context"
	"fmt"
	"log/slog"
)

// ActiveCommentCounter reports the number of currently active root
// comments plus replies for a feed from the authoritative write store.
type ActiveCommentCounter interface {
	CountActiveByFeed(ctx context.Context, feedCode string) (total int64, err error)
}

// Reconciler repairs projected counters. At-least-once delivery without
// dedup keys can drift a feed's counter (duplicate increments, skipped
// decrements); reconciliation recomputes it from write-store truth and
// overwrites the aggregate. Scheduling is the caller's concern.
type Reconciler struct {
	counter ActiveCommentCounter
	repo    Repository
}

func NewReconciler(counter ActiveCommentCounter, repo Repository) *Reconciler {
	return &Reconciler{
		counter: counter,
		repo:    repo,
	}
}

func (r *Reconciler) ReconcileFeed(ctx context.Context, feedCode string) (int64, error) {
	total, err := r.counter.CountActiveByFeed(ctx, feedCode)
	if err != nil {
		return 0, fmt.Errorf("failed to count active comments: %w", err)
	}

	err = r.repo.SetFeedCount(ctx, feedCode, total)
	if err != nil {
		return 0, fmt.Errorf("failed to overwrite feed count: %w", err)
	}

	slog.InfoContext(ctx, "reconciled feed comment count", "feedCode", feedCode, "totalCommentCount", total)

	return total, nil
}
