package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteResultRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	at := time.Date(2026, 4, 2, 14, 5, 6, 789, time.UTC)
	rec := testutil.NewTestRecord(
		testutil.WithCompletedAt(at),
		testutil.WithClassification(domain.CategoryTikshna, domain.SeverityModerate, 6),
		testutil.WithCatalogName("classic"),
	)
	rec.Payload = []byte(`{"completed":true}`)
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "classic", got.Catalog)
	assert.True(t, at.Equal(got.CompletedAt))
	assert.Equal(t, domain.CategoryTikshna, got.Dominant)
	assert.Equal(t, domain.SeverityModerate, got.Severity)
	assert.Equal(t, 6, got.ImbalanceScore)
	assert.Equal(t, 8, got.ParameterCount)
	assert.JSONEq(t, `{"completed":true}`, string(got.Payload))
}

func TestResultRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteResultRepo(testutil.NewTestDB(t))
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResultRepo_ListNewestFirst(t *testing.T) {
	repo := NewSQLiteResultRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	// Sub-second offsets check that stored timestamps sort as text.
	offsets := []time.Duration{0, 500 * time.Millisecond, 2 * time.Second}
	var ids []string
	for _, off := range offsets {
		rec := testutil.NewTestRecord(testutil.WithCompletedAt(base.Add(off)))
		require.NoError(t, repo.Create(ctx, rec))
		ids = append(ids, rec.ID)
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})

	top, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, ids[2], top[0].ID)
}

func TestResultRepo_DefaultsCatalogName(t *testing.T) {
	repo := NewSQLiteResultRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	rec := testutil.NewTestRecord(testutil.WithCatalogName(""))
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "default", got.Catalog)
}
