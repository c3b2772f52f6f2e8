// Package numerator provides the PostgreSQL implementation of document
// auto-numbering backed by the sys_sequences table.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "essenceflow/internal/core/numerator"
	"essenceflow/internal/infrastructure/storage/postgres"
)

// Querier is the part of postgres.Querier the numerator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service hands out sequence values per key.
//
// Strict numbers are reserved on the querier of the caller's transaction,
// so a rolled-back sale or purchase gives its number back. Cached ranges
// are reserved on the pool directly: they must survive a rollback because
// the in-memory range outlives the transaction.
type Service struct {
	txQuerier   func(ctx context.Context) Querier
	poolQuerier Querier

	// guard wraps strict reservations; the tx-manager variant uses a savepoint.
	guard func(ctx context.Context, fn func(ctx context.Context) error) error

	// defaults apply when a caller passes nil options.
	defaults *corenumerator.Options

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// WithDefaults sets the options used when GetNextNumber gets nil.
func (s *Service) WithDefaults(opts *corenumerator.Options) *Service {
	s.defaults = opts
	return s
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator over a fixed querier (tests, scripts).
func New(querier Querier) *Service {
	return &Service{
		txQuerier:   func(context.Context) Querier { return querier },
		poolQuerier: querier,
		guard:       func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) },
		ranges:      make(map[string]*cachedRange),
	}
}

// NewWithTxManager creates a numerator that joins the transaction in ctx.
func NewWithTxManager(txm *postgres.TxManager) *Service {
	return &Service{
		txQuerier:   func(ctx context.Context) Querier { return txm.GetQuerier(ctx) },
		poolQuerier: txm.GetQuerier(context.Background()),
		guard:       txm.Savepoint,
		ranges:      make(map[string]*cachedRange),
	}
}

// GetNextNumber generates the next document number, e.g. RCP-2026-00001.
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, opts *corenumerator.Options, period time.Time) (string, error) {
	if opts == nil {
		opts = s.defaults
	}
	if opts == nil {
		opts = corenumerator.DefaultOptions()
	}

	key := cfg.Key(period)
	var (
		num int64
		err error
	)
	switch opts.Strategy {
	case corenumerator.StrategyCached:
		num, err = s.nextCached(ctx, key, opts.RangeSize)
	default:
		num, err = s.nextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return cfg.Format(period, num), nil
}

func (s *Service) nextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.guard(ctx, func(ctx context.Context) error {
		return s.txQuerier(ctx).QueryRow(ctx, `
			INSERT INTO sys_sequences (key, current_val)
			VALUES ($1, 1)
			ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
			RETURNING current_val
		`, key).Scan(&num)
	})
	if err != nil {
		return 0, fmt.Errorf("strict next %s: %w", key, err)
	}
	return num, nil
}

func (s *Service) nextCached(ctx context.Context, key string, size int64) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, ok := s.ranges[key]
	if !ok {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		if size <= 0 {
			size = 50
		}

		// The row ends at newMax; this instance owns (newMax-size, newMax].
		var newMax int64
		err := s.poolQuerier.QueryRow(ctx, `
			INSERT INTO sys_sequences (key, current_val)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
			RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range %s: %w", key, err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber overwrites the current value; the next number issued is value+1.
// Any cached range for the key is dropped.
func (s *Service) SetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	key := cfg.Key(period)

	var result int64
	err := s.txQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	if err != nil {
		return fmt.Errorf("set next number %s: %w", key, err)
	}
	return nil
}
