package booking

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	appdb "github.com/codr1/padelbook/internal/db"
	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

// Store is the transactional data store the engine runs against.
type Store interface {
	// Queries reads outside any transaction.
	Queries() dbgen.Querier
	// InTx runs fn in a single write transaction. A transaction that fails
	// on lock contention may be rerun from the start.
	InTx(ctx context.Context, fn func(q dbgen.Querier) error) error
}

type sqlStore struct {
	db         *appdb.DB
	maxRetries uint64
}

// NewStore adapts the SQLite database. Busy and locked failures are retried
// up to maxRetries times with exponential backoff.
func NewStore(database *appdb.DB, maxRetries int) Store {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &sqlStore{db: database, maxRetries: uint64(maxRetries)}
}

func (s *sqlStore) Queries() dbgen.Querier {
	return s.db.Queries
}

func (s *sqlStore) InTx(ctx context.Context, fn func(q dbgen.Querier) error) error {
	backoff := retry.NewExponential(25 * time.Millisecond)
	backoff = retry.WithJitterPercent(20, backoff)
	backoff = retry.WithCappedDuration(500*time.Millisecond, backoff)
	backoff = retry.WithMaxRetries(s.maxRetries, backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.db.RunInTx(ctx, func(txdb *appdb.DB) error {
			return fn(txdb.Queries)
		})
		if err != nil && appdb.IsTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
