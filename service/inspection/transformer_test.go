package inspection

import (
	"bytes"
	"context"
	"errors"
	"inspection-review-service/service/models"
	"inspection-review-service/service/sheet"
	"inspection-review-service/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inspectionHeaders = []string{ColItemName, ColStoreName, ColStoreID, ColArea, ColItemCategory, ColFieldResult}

type staticRoster models.RosterIndex

func (s staticRoster) RosterIndex(ctx context.Context) (models.RosterIndex, error) {
	return models.RosterIndex(s), nil
}

type failingRoster struct{}

func (failingRoster) RosterIndex(ctx context.Context) (models.RosterIndex, error) {
	return nil, errors.New("db down")
}

func TestTransform(t *testing.T) {
	content := testutil.BuildXLSX(t, inspectionHeaders,
		[]interface{}{"door_check", "人民广场店", 7, "前厅", "卫生", `["https://img.example.com/7.jpg"]`},
		[]interface{}{"kitchen", "徐家汇店", 8.0, "后厨", nil, nil},
		[]interface{}{"bar", "坏编号店", "8-1", "前厅", "卫生", "https://img.example.com/x.jpg"},
		[]interface{}{"door_check", "人民广场店", 7, "前厅", "安全", `<img src="https://img.example.com/7b.jpg">`},
	)
	table, err := sheet.ReadXLSX(bytes.NewReader(content))
	require.NoError(t, err)

	roster := models.RosterIndex{
		"7": {StoreID: "7", TempOperator: "Zhao", CityOperator: "Zhang"},
	}
	result, err := Transform(table, roster)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedRows)
	require.Len(t, result.Items, 2)

	door := result.Items[0]
	assert.Equal(t, "7_door_check", door.ID)
	assert.Equal(t, "安全", door.ItemCategory)
	assert.Equal(t, "https://img.example.com/7b.jpg", door.EvidenceImageURL)
	assert.True(t, door.HasFieldResult)
	assert.Equal(t, "Zhao", door.AssignedOperator)

	kitchen := result.Items[1]
	assert.Equal(t, "8_kitchen", kitchen.ID)
	assert.Equal(t, "8", kitchen.StoreID)
	assert.Equal(t, "", kitchen.ItemCategory)
	assert.False(t, kitchen.HasFieldResult)
	assert.Equal(t, models.OperatorUnassigned, kitchen.AssignedOperator)
}

func TestTransformMissingColumns(t *testing.T) {
	content := testutil.BuildXLSX(t, []string{ColItemName, ColStoreName},
		[]interface{}{"door_check", "人民广场店"},
	)
	table, err := sheet.ReadXLSX(bytes.NewReader(content))
	require.NoError(t, err)

	_, err = Transform(table, nil)
	require.Error(t, err)
	assert.Equal(t, models.ErrorTypeValidation, models.ErrorTypeOf(err))
	assert.ErrorIs(t, err, sheet.ErrMissingColumns)
	assert.Contains(t, err.Error(), ColStoreID)
	assert.Contains(t, err.Error(), ColArea)
}

func TestItemCacheReload(t *testing.T) {
	cache := NewItemCache(staticRoster{"1001": {StoreID: "1001", CityOperator: "Li"}})
	assert.Equal(t, 0, cache.CurrentSnapshot().Len())

	content := testutil.BuildXLSX(t, inspectionHeaders,
		[]interface{}{"kitchen", "B店", 1002, "后厨", "卫生", nil},
		[]interface{}{"door_check", "A店", 1001, "前厅", "卫生", "https://img.example.com/1.jpg"},
		[]interface{}{"bar", "C店", "SH01", "吧台", "卫生", nil},
	)
	snapshot, err := cache.Reload(context.Background(), bytes.NewReader(content), "检查项记录.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.Len())
	assert.Same(t, snapshot, cache.CurrentSnapshot())

	item, ok := snapshot.Get("1001_door_check")
	require.True(t, ok)
	assert.Equal(t, "Li", item.AssignedOperator)
	_, ok = snapshot.Get("missing")
	assert.False(t, ok)

	all := snapshot.FilterByOperator("全部")
	require.Len(t, all, 3)
	assert.Equal(t, []string{"SH01", "1001", "1002"}, []string{all[0].StoreID, all[1].StoreID, all[2].StoreID})

	mine := snapshot.FilterByOperator("Li")
	require.Len(t, mine, 1)
	assert.Equal(t, "1001_door_check", mine[0].ID)

	assert.Equal(t, []string{"Li"}, snapshot.Operators())
}

func TestItemCacheReloadKeepsOldSnapshotOnFailure(t *testing.T) {
	cache := NewItemCache(nil)
	content := testutil.BuildXLSX(t, inspectionHeaders,
		[]interface{}{"door_check", "A店", 1001, "前厅", "卫生", nil},
	)
	first, err := cache.Reload(context.Background(), bytes.NewReader(content), "items.xlsx")
	require.NoError(t, err)

	bad := testutil.BuildXLSX(t, []string{ColItemName}, []interface{}{"x"})
	_, err = cache.Reload(context.Background(), bytes.NewReader(bad), "items.xlsx")
	require.Error(t, err)
	assert.Same(t, first, cache.CurrentSnapshot())

	_, err = cache.Reload(context.Background(), bytes.NewReader([]byte("x")), "items.txt")
	require.Error(t, err)
	assert.Equal(t, models.ErrorTypeParse, models.ErrorTypeOf(err))
}

func TestItemCacheRosterFailure(t *testing.T) {
	cache := NewItemCache(failingRoster{})
	content := testutil.BuildXLSX(t, inspectionHeaders,
		[]interface{}{"door_check", "A店", 1001, "前厅", "卫生", nil},
	)
	_, err := cache.Reload(context.Background(), bytes.NewReader(content), "items.xlsx")
	require.Error(t, err)
	assert.Equal(t, models.ErrorTypeStorage, models.ErrorTypeOf(err))
}
