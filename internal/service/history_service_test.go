package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/repository"
	"github.com/alexanderramin/pcam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_ListAndGet(t *testing.T) {
	repo := repository.NewSQLiteResultRepo(testutil.NewTestDB(t))
	svc := NewHistoryService(repo)
	ctx := context.Background()

	older := testutil.NewTestRecord(testutil.WithCompletedAt(svcEpoch.Add(-time.Hour)))
	newer := testutil.NewTestRecord(
		testutil.WithCompletedAt(svcEpoch),
		testutil.WithClassification(domain.CategoryVishama, domain.SeverityMild, 3),
	)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	list, err := svc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	got, err := svc.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityBalanced, got.Severity)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
