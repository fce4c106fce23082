package repository

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/pcam/internal/db"
	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kvEpoch = time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)

func newKVStore(t *testing.T, namespace string, opts ...KVOption) (*SQLiteKVStore, db.DBTX) {
	t.Helper()
	database := testutil.NewTestDB(t)
	opts = append([]KVOption{WithKVClock(testutil.SteppingClock(kvEpoch, time.Second))}, opts...)
	return NewSQLiteKVStore(database, testutil.NewTestUoW(database), namespace, opts...), database
}

func TestKVStore_SetGetRemove(t *testing.T) {
	store, _ := newKVStore(t, "4pcam_")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "assessmentProgress", json.RawMessage(`{"agni":50}`)))

	got, err := store.Get(ctx, "assessmentProgress")
	require.NoError(t, err)
	assert.JSONEq(t, `{"agni":50}`, string(got))

	require.NoError(t, store.Set(ctx, "assessmentProgress", json.RawMessage(`{"agni":75}`)))
	got, err = store.Get(ctx, "assessmentProgress")
	require.NoError(t, err)
	assert.JSONEq(t, `{"agni":75}`, string(got))

	require.NoError(t, store.Remove(ctx, "assessmentProgress"))
	_, err = store.Get(ctx, "assessmentProgress")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVStore_RejectsInvalidJSON(t *testing.T) {
	store, _ := newKVStore(t, "4pcam_")
	err := store.Set(context.Background(), "k", json.RawMessage(`{not json`))
	assert.ErrorContains(t, err, "not valid JSON")
}

func TestKVStore_WritesUnderNamespace(t *testing.T) {
	store, conn := newKVStore(t, "4pcam_")
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "agniAssessmentData", json.RawMessage(`{}`)))

	var key string
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT key FROM kv_entries`).Scan(&key))
	assert.Equal(t, "4pcam_agniAssessmentData", key)
}

func TestKVStore_NamespacesAreIsolated(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	ctx := context.Background()

	clinic := NewSQLiteKVStore(database, uow, "clinic_")
	// An underscore in the namespace must not act as a wildcard.
	other := NewSQLiteKVStore(database, uow, "clinicX")

	require.NoError(t, clinic.Set(ctx, "a", json.RawMessage(`1`)))
	require.NoError(t, other.Set(ctx, "a", json.RawMessage(`2`)))
	require.NoError(t, other.Set(ctx, "b", json.RawMessage(`3`)))

	keys, err := clinic.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys)

	require.NoError(t, clinic.ClearAll(ctx))
	keys, err = clinic.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	all, err := other.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.JSONEq(t, `2`, string(all["a"]))
}

func TestKVStore_AutoSaveLatestAndPrune(t *testing.T) {
	store, _ := newKVStore(t, "4pcam_")
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		v, _ := json.Marshal(map[string]int{"n": i})
		require.NoError(t, store.AutoSave(ctx, "agniAssessmentData", v))
	}
	require.NoError(t, store.AutoSave(ctx, "other", json.RawMessage(`{"n":99}`)))

	latest, err := store.LatestAutoSave(ctx, "agniAssessmentData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":5}`, string(latest))

	removed, err := store.PruneAutoSaves(ctx, "agniAssessmentData", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	var mine int
	for _, k := range keys {
		if strings.HasPrefix(k, "agniAssessmentData_autosave_") {
			mine++
		}
	}
	assert.Equal(t, 2, mine)

	latest, err = store.LatestAutoSave(ctx, "agniAssessmentData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":5}`, string(latest))

	_, err = store.LatestAutoSave(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVStore_QuotaRemediatesOldestHalf(t *testing.T) {
	store, _ := newKVStore(t, "4pcam_", WithQuota(400))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.AutoSave(ctx, "agniAssessmentData", json.RawMessage(`{"pad":"xxxxxxxxxx"}`)))
	}
	before, err := store.Usage(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, before.AutoSaves)

	big := json.RawMessage(`{"pad":"` + strings.Repeat("y", 300) + `"}`)
	err = store.Set(ctx, "agniAssessmentData", big)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	after, err := store.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, after.AutoSaves, "ceil(5/2) oldest auto-saves removed")
	assert.Less(t, after.NamespaceBytes, before.NamespaceBytes)

	_, err = store.Get(ctx, "agniAssessmentData")
	assert.ErrorIs(t, err, ErrNotFound, "rejected write must not land")

	latest, err := store.LatestAutoSave(ctx, "agniAssessmentData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"pad":"xxxxxxxxxx"}`, string(latest))
}

func TestKVStore_QuotaCountsReplacedValueOnce(t *testing.T) {
	store, _ := newKVStore(t, "4pcam_", WithQuota(120))
	ctx := context.Background()
	value := json.RawMessage(`{"pad":"` + strings.Repeat("z", 80) + `"}`)

	require.NoError(t, store.Set(ctx, "k", value))
	require.NoError(t, store.Set(ctx, "k", value), "overwriting the same key must not double count")
}

func TestKVStore_Usage(t *testing.T) {
	store, _ := newKVStore(t, "ns_", WithQuota(1024))
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "ab", json.RawMessage(`"xy"`)))
	require.NoError(t, store.AutoSave(ctx, "ab", json.RawMessage(`1`)))

	u, err := store.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Entries)
	assert.Equal(t, 1, u.AutoSaves)
	assert.Equal(t, int64(1024), u.QuotaBytes)
	// "ns_ab" + `"xy"` = 5 + 4
	assert.GreaterOrEqual(t, u.NamespaceBytes, int64(9))
	assert.Equal(t, u.TotalBytes, u.NamespaceBytes)
}

func TestKVStore_BackupRestore(t *testing.T) {
	store, _ := newKVStore(t, "4pcam_")
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "agniAssessmentData", json.RawMessage(`{"completed":true}`)))
	require.NoError(t, store.Set(ctx, "assessmentProgress", json.RawMessage(`{"agni":100}`)))

	backup, err := store.Backup(ctx)
	require.NoError(t, err)

	var doc BackupDocument
	require.NoError(t, json.Unmarshal(backup, &doc))
	assert.Equal(t, BackupVersion, doc.Version)
	assert.Len(t, doc.Data, 2)

	require.NoError(t, store.Set(ctx, "stray", json.RawMessage(`1`)))

	n, err := store.Restore(ctx, backup)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"agniAssessmentData", "assessmentProgress"}, keys)
}

func TestKVStore_RestoreRejectsMalformed(t *testing.T) {
	store, _ := newKVStore(t, "4pcam_")
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "keep", json.RawMessage(`1`)))

	for _, doc := range []string{`{`, `{"version":"1.0"}`, `{"data":null}`} {
		_, err := store.Restore(ctx, []byte(doc))
		assert.ErrorIs(t, err, domain.ErrMalformedImport, doc)
	}

	_, err := store.Get(ctx, "keep")
	assert.NoError(t, err)
}

func TestKVStore_RestoreRollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	seed := NewSQLiteKVStore(database, nil, "4pcam_")
	require.NoError(t, seed.Set(ctx, "keep", json.RawMessage(`1`)))

	// Exec 1 clears the namespace, exec 2 inserts the first entry.
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2}
	store := NewSQLiteKVStore(database, uow, "4pcam_")

	_, err := store.Restore(ctx, []byte(`{"version":"1.0","data":{"a":1,"b":2}}`))
	assert.ErrorIs(t, err, testutil.ErrInjected)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, keys)
}
