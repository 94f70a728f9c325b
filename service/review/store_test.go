package review

import (
	"context"
	"fmt"
	"inspection-review-service/service/models"
	"inspection-review-service/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *testutil.TestDB) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	return NewStore(tdb.DB), tdb
}

func checklistItem(storeID, itemName string, hasFieldResult bool) models.ChecklistItem {
	return models.ChecklistItem{
		ID:             models.ChecklistItemID(storeID, itemName),
		StoreID:        storeID,
		StoreName:      "门店" + storeID,
		Area:           "前厅",
		ItemName:       itemName,
		HasFieldResult: hasFieldResult,
	}
}

func TestStoreUpsertIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	store.now = func() time.Time { return first }
	item := checklistItem("7", "door_check", true)
	require.NoError(t, store.Upsert(ctx, NewDecision(item, models.ReviewFail, "地面脏")))

	second := first.Add(time.Hour)
	store.now = func() time.Time { return second }
	require.NoError(t, store.Upsert(ctx, NewDecision(item, models.ReviewPass, "")))
	require.NoError(t, store.Upsert(ctx, NewDecision(item, models.ReviewPass, "")))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := store.Get(ctx, "7_door_check")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPass, got.ReviewResult)
	assert.Equal(t, "", got.ProblemNote)
	assert.True(t, got.ReviewTime.Equal(second))

	has, err := store.Has(ctx, "7_door_check")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStoreGetNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	has, err := store.Has(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = store.UpdateNote(ctx, "missing", "备注")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStoreConcurrentUpserts(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			item := checklistItem(fmt.Sprint(100+i), "door_check", true)
			assert.NoError(t, store.Upsert(ctx, NewDecision(item, models.ReviewPass, "")))
		}(i)
		go func(i int) {
			defer wg.Done()
			item := checklistItem("7", "kitchen", true)
			assert.NoError(t, store.Upsert(ctx, NewDecision(item, models.ReviewFail, fmt.Sprint("第", i, "次"))))
		}(i)
	}
	wg.Wait()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(21), count)

	got, err := store.Get(ctx, "7_kitchen")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewFail, got.ReviewResult)
}

func TestStoreAutoFailIsNonDestructive(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	reviewed := checklistItem("7", "door_check", false)
	require.NoError(t, store.Upsert(ctx, NewDecision(reviewed, models.ReviewPass, "")))

	items := []models.ChecklistItem{
		reviewed,
		checklistItem("7", "kitchen", false),
		checklistItem("8", "door_check", true),
	}
	written, err := store.AutoFailMissing(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	kept, err := store.Get(ctx, "7_door_check")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPass, kept.ReviewResult)

	failed, err := store.Get(ctx, "7_kitchen")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewFail, failed.ReviewResult)
	assert.Equal(t, models.NoFieldResultNote, failed.ProblemNote)

	has, err := store.Has(ctx, "8_door_check")
	require.NoError(t, err)
	assert.False(t, has)

	again, err := store.AutoFailMissing(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 0, again)
}

func TestStoreRestartClearsAndUpdateNote(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, NewDecision(checklistItem("7", "door_check", true), models.ReviewFail, "")))
	require.NoError(t, store.Upsert(ctx, NewDecision(checklistItem("8", "door_check", true), models.ReviewPass, "")))

	updated, err := store.UpdateNote(ctx, "7_door_check", "招牌破损")
	require.NoError(t, err)
	assert.Equal(t, "招牌破损", updated.ProblemNote)
	assert.Equal(t, models.ReviewFail, updated.ReviewResult)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cleared, written, err := store.Restart(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
	assert.Zero(t, written)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStoreRestartRollsBackClearOnFailure(t *testing.T) {
	store, tdb := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, NewDecision(checklistItem("7", "door_check", true), models.ReviewPass, "")))

	items := []models.ChecklistItem{
		checklistItem("7", "door_check", true),
		checklistItem("7", "kitchen", false),
	}
	cleared, written, err := store.Restart(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)
	assert.Equal(t, 1, written)

	tdb.FailCreates("store_inspection_reviews")
	_, _, err = store.Restart(ctx, items)
	require.Error(t, err)

	kept, err := store.Get(ctx, "7_kitchen")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewFail, kept.ReviewResult)
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
