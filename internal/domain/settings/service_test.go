package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenceflow/internal/domain/settings"
	"essenceflow/internal/infrastructure/storage/memory"
)

func TestSettings_DefaultsThenPartialUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := settings.NewService(store.Settings(), store)

	current, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EssenceFlow", current.Name)

	caption := "Handmade perfumes"
	updated, err := svc.Update(ctx, settings.UpdateRequest{Caption: &caption})
	require.NoError(t, err)
	assert.Equal(t, "EssenceFlow", updated.Name)
	assert.Equal(t, caption, updated.Caption)
	assert.Len(t, updated.Categories, 3)

	name := "Maison Oud"
	_, err = svc.Update(ctx, settings.UpdateRequest{
		Name:       &name,
		Categories: []settings.Category{{Name: "OIL", Unit: "ml"}},
	})
	require.NoError(t, err)

	current, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Maison Oud", current.Name)
	assert.Equal(t, caption, current.Caption)
	assert.Equal(t, []settings.Category{{Name: "OIL", Unit: "ml"}}, current.Categories)
}

func TestSettings_RejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := settings.NewService(store.Settings(), store)

	empty := "  "
	_, err := svc.Update(ctx, settings.UpdateRequest{Name: &empty})
	require.Error(t, err)

	_, err = svc.Update(ctx, settings.UpdateRequest{Categories: []settings.Category{{Name: "oil"}, {Name: "OIL"}}})
	require.Error(t, err)

	current, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EssenceFlow", current.Name)
}
