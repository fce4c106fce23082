package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/repository"
	"github.com/alexanderramin/pcam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPillarFixture(t *testing.T) (PillarService, *repository.SQLiteKVStore) {
	t.Helper()
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteKVStore(database, testutil.NewTestUoW(database), "4pcam_")
	return NewPillarService(store, nil), store
}

func TestPillarService_DefaultsToZero(t *testing.T) {
	svc, _ := newPillarFixture(t)

	progress, err := svc.Progress(context.Background())
	require.NoError(t, err)
	assert.Len(t, progress, 4)
	assert.Equal(t, 0.0, progress.Overall())
	assert.Equal(t, 0, progress.CompletedCount())
}

func TestPillarService_SetProgress(t *testing.T) {
	svc, store := newPillarFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SetProgress(ctx, domain.PillarAgni, 100))
	require.NoError(t, svc.SetProgress(ctx, domain.PillarDosha, 50))

	progress, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, progress[domain.PillarAgni])
	assert.Equal(t, 50, progress[domain.PillarDosha])
	assert.Equal(t, 37.5, progress.Overall())
	assert.Equal(t, 1, progress.CompletedCount())

	raw, err := store.Get(ctx, KeyPillarProgress)
	require.NoError(t, err)
	assert.JSONEq(t, `{"agni":100,"dosha":50,"dhatu":0,"srota":0}`, string(raw))
}

func TestPillarService_RejectsInvalidInput(t *testing.T) {
	svc, _ := newPillarFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetProgress(ctx, domain.Pillar("prana"), 10), domain.ErrInvalidArgument)
	assert.ErrorIs(t, svc.SetProgress(ctx, domain.PillarAgni, 101), domain.ErrInvalidArgument)
	assert.ErrorIs(t, svc.SetProgress(ctx, domain.PillarAgni, -1), domain.ErrInvalidArgument)
}

func TestPillarService_IgnoresUnreadableRecord(t *testing.T) {
	svc, store := newPillarFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyPillarProgress, json.RawMessage(`[1,2,3]`)))
	progress, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.NewPillarProgress(), progress)

	require.NoError(t, store.Set(ctx, KeyPillarProgress, json.RawMessage(`{"agni":250,"dhatu":40}`)))
	progress, err = svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, progress[domain.PillarAgni], "out-of-range values are dropped")
	assert.Equal(t, 40, progress[domain.PillarDhatu])
}
