package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenceflow/internal/infrastructure/config"
)

func TestOpen_Memory(t *testing.T) {
	t.Setenv("EF_DATABASE_DRIVER", config.DriverMemory)
	cfg, err := config.Load()
	require.NoError(t, err)

	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close()

	assert.Nil(t, b.DB)
	assert.Nil(t, b.Pool)
	assert.NotNil(t, b.Inventory)
	assert.NotNil(t, b.Users)
	assert.NotNil(t, b.Numerator)

	called := false
	err = b.TxManager.RunInTransaction(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
