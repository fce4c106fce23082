package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/alexanderramin/pcam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentAccess_ReadDuringDebouncedWrites mirrors the debounced
// writer: one goroutine keeps rewriting the assessment blob and its
// auto-saves while readers poll it. WAL mode lets readers proceed without
// seeing a torn value.
func TestConcurrentAccess_ReadDuringDebouncedWrites(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	store := NewSQLiteKVStore(database, testutil.NewTestUoW(database), "4pcam_")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "agniAssessmentData", json.RawMessage(`{"n":0}`)))

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 30; i++ {
			v := json.RawMessage(fmt.Sprintf(`{"n":%d}`, i))
			if err := store.Set(ctx, "agniAssessmentData", v); err != nil {
				errs <- fmt.Errorf("set %d: %w", i, err)
				return
			}
			if err := store.AutoSave(ctx, "agniAssessmentData", v); err != nil {
				errs <- fmt.Errorf("autosave %d: %w", i, err)
				return
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 30; i++ {
				raw, err := store.Get(ctx, "agniAssessmentData")
				if err != nil {
					errs <- err
					return
				}
				var doc struct{ N int }
				if err := json.Unmarshal(raw, &doc); err != nil {
					errs <- fmt.Errorf("torn read %q: %w", raw, err)
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	raw, err := store.Get(ctx, "agniAssessmentData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":30}`, string(raw))

	removed, err := store.PruneAutoSaves(ctx, "agniAssessmentData", 10)
	require.NoError(t, err)
	assert.Equal(t, 20, removed)
}
