package milsims

import (
	"context"
	"database/sql"
	"time"
)

// Locker rate limits globally shared jobs across instances
type Locker interface {
	// TryAcquire reports whether the caller may run the job guarded by key,
	// marking it as run when it may
	TryAcquire(ctx context.Context, key string, minInterval time.Duration) (bool, error)
	LastRun(ctx context.Context, key string) (*time.Time, error)
}

// DBLocker acquires locks through the try_acquire_refresh_lock database function
type DBLocker struct {
	db *sql.DB
}

func NewDBLocker(db *sql.DB) *DBLocker {
	return &DBLocker{
		db: db,
	}
}

func (l *DBLocker) TryAcquire(ctx context.Context, key string, minInterval time.Duration) (bool, error) {
	var acquired bool

	err := l.db.QueryRowContext(ctx,
		`SELECT try_acquire_refresh_lock($1, $2)`,
		key, int(minInterval/time.Second),
	).Scan(&acquired)

	return acquired, err
}

func (l *DBLocker) LastRun(ctx context.Context, key string) (*time.Time, error) {
	var lastRun time.Time

	err := l.db.QueryRowContext(ctx,
		`SELECT last_run_at FROM refresh_locks WHERE key = $1`,
		key,
	).Scan(&lastRun)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &lastRun, nil
}
