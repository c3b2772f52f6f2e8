package numerator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "essenceflow/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = m.val
	}
	return nil
}

// mockQuerier simulates sys_sequences: one counter per key.
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
	calls  int
	err    error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{values: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key := args[0].(string)
	switch {
	case strings.Contains(sql, "SET current_val = $2"):
		m.values[key] = args[1].(int64)
	case len(args) == 2:
		m.values[key] += args[1].(int64)
	default:
		m.values[key]++
	}
	return &mockRow{val: m.values[key]}
}

var period = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig(corenumerator.PrefixSale)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "RCP-2026-00001", num)

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "RCP-2026-00002", num)

	assert.Equal(t, int64(2), q.values["RCP_2026"])
	assert.Equal(t, 2, q.calls)
}

func TestGetNextNumber_StrictResetsYearly(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig(corenumerator.PrefixPurchase)

	_, err := svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "PO-2027-00001", num)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("ORD")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 10}

	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00001", num)
	assert.Equal(t, int64(10), q.values["ORD_2026"])

	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00002", num)
	assert.Equal(t, 1, q.calls, "second number comes from the cached range")

	for i := 0; i < 8; i++ {
		_, err = svc.GetNextNumber(ctx, cfg, opts, period)
		require.NoError(t, err)
	}

	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00011", num)
	assert.Equal(t, int64(20), q.values["ORD_2026"])
	assert.Equal(t, 2, q.calls)
}

func TestGetNextNumber_DefaultOptions(t *testing.T) {
	q := newMockQuerier()
	svc := New(q).WithDefaults(&corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 5})
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig(corenumerator.PrefixSale)

	for i := 0; i < 3; i++ {
		_, err := svc.GetNextNumber(ctx, cfg, nil, period)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, q.calls)
	assert.Equal(t, int64(5), q.values["RCP_2026"])
}

func TestSetNextNumber_InvalidatesCache(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("INV")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 10}

	_, err := svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)

	require.NoError(t, svc.SetNextNumber(ctx, cfg, period, 100))

	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00101", num)
	assert.Equal(t, int64(110), q.values["INV_2026"])
}

func TestGetNextNumber_QueryError(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("connection refused")
	svc := New(q)

	_, err := svc.GetNextNumber(context.Background(), corenumerator.DefaultConfig("RCP"), nil, period)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RCP_2026")
}
