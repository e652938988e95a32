package milsims

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/metrics"
)

const (
	DefaultBatchLimit  = 10
	DefaultMinInterval = 60 * time.Second

	// DirectoryLockKey guards the directory wide refresh
	DirectoryLockKey = "milsims_directory_refresh"
)

type BatchOptions struct {
	Limit  int
	MinAge time.Duration
}

type BatchResult struct {
	Refreshed int `json:"refreshed"`
	Attempted int `json:"attempted"`
}

// RefreshBatch refreshes up to Limit listings not checked within MinAge,
// failures of single listings are logged and skipped
func (r *Refresher) RefreshBatch(ctx context.Context, opts BatchOptions) (BatchResult, error) {
	var result BatchResult

	if opts.Limit <= 0 {
		opts.Limit = DefaultBatchLimit
	}
	if opts.MinAge < 0 {
		opts.MinAge = 0
	}

	cutoff := r.now().Add(-opts.MinAge)

	entries, err := r.store.RefreshCandidates(ctx, cutoff, opts.Limit)
	if err != nil {
		return result, errors.Wrap(err, "cannot query refresh candidates")
	}

	r.logger.Info("refreshing milsims",
		zap.Int("amount", len(entries)),
	)

	metrics.BatchRuns.Add(1)

	for _, entry := range entries {
		result.Attempted++
		metrics.Attempted.Add(1)

		err = r.Refresh(ctx, entry.ID)
		if err != nil {
			metrics.Failed.Add(1)
			r.logger.Warn("failure refreshing milsim",
				zap.String("milsim_id", entry.ID.String()),
				zap.String("invite_url", entry.InviteURL),
				zap.Error(err),
			)
			continue
		}

		result.Refreshed++
	}

	return result, nil
}

type VisitOptions struct {
	LockKey     string
	MinInterval time.Duration
	Batch       BatchOptions
}

type VisitResult struct {
	Ran bool `json:"ran"`
	BatchResult
}

// RefreshDirectory runs a batch if the global lock can be acquired.
// A zero Batch.MinAge refreshes listings regardless of their age.
func (r *Refresher) RefreshDirectory(ctx context.Context, opts VisitOptions) (VisitResult, error) {
	if r.locker == nil {
		return VisitResult{}, nil
	}
	if opts.LockKey == "" {
		opts.LockKey = DirectoryLockKey
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultMinInterval
	}

	acquired, err := r.locker.TryAcquire(ctx, opts.LockKey, opts.MinInterval)
	if err != nil {
		return VisitResult{}, errors.Wrapf(err, "cannot acquire refresh lock %s", opts.LockKey)
	}
	if !acquired {
		r.logger.Debug("skipped refresh, previous run recently enough",
			zap.Duration("min_interval", opts.MinInterval),
		)
		return VisitResult{}, nil
	}

	res, err := r.RefreshBatch(ctx, opts.Batch)
	if err != nil {
		return VisitResult{}, err
	}

	return VisitResult{Ran: true, BatchResult: res}, nil
}

// MaybeRefreshDirectory is RefreshDirectory for callers rendering pages,
// failures are logged and never returned
func (r *Refresher) MaybeRefreshDirectory(ctx context.Context, opts VisitOptions) VisitResult {
	result, err := r.RefreshDirectory(ctx, opts)
	if err != nil {
		r.logger.Warn("directory refresh failed", zap.Error(err))
		return VisitResult{}
	}

	return result
}

// LastRun returns when the directory was last refreshed, nil if never
func (r *Refresher) LastRun(ctx context.Context, key string) (*time.Time, error) {
	if r.locker == nil {
		return nil, nil
	}
	if key == "" {
		key = DirectoryLockKey
	}

	return r.locker.LastRun(ctx, key)
}
