package whitelist

import (
	"bytes"
	"context"
	"encoding/json"
	"inspection-review-service/service/models"
	"inspection-review-service/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryQueries(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	ctx := context.Background()

	factory.CreateStore("1001", testutil.WithOperators("Zhao", "Zhang"))
	factory.CreateStore("1002", testutil.WithOperators("", "Li"))
	factory.CreateStore("1003", testutil.WithOperators("", "Li"))
	factory.CreateStore("1004")

	repo := NewRepository(tdb.DB)

	store, err := repo.Get(ctx, "1002")
	require.NoError(t, err)
	assert.Equal(t, "Li", store.CityOperator)

	_, err = repo.Get(ctx, "9999")
	assert.ErrorIs(t, err, models.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	index, err := repo.RosterIndex(ctx)
	require.NoError(t, err)
	assert.Len(t, index, 4)
	_, ok := index.Lookup("1004")
	assert.True(t, ok)

	operators, err := repo.Operators(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Li", "Zhao"}, operators)

	ids, err := repo.StoresByOperator(ctx, "Li")
	require.NoError(t, err)
	assert.Equal(t, []string{"1002", "1003"}, ids)

	ids, err = repo.StoresByOperator(ctx, models.OperatorUnassigned)
	require.NoError(t, err)
	assert.Equal(t, []string{"1004"}, ids)
}

func TestRepositoryDumpJSON(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	factory := testutil.NewTestDataFactory(tdb.DB)
	factory.CreateStore("1001", func(s *models.StoreWhitelist) { s.RegionalManager = "Wu" })
	factory.CreateStore("1002")

	var buf bytes.Buffer
	n, err := NewRepository(tdb.DB).DumpJSON(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var out []StoreSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "1001", out[0].StoreID)
	assert.Equal(t, "Wu", out[0].RegionalManager)
	assert.Equal(t, "上海市", out[0].City)
}
