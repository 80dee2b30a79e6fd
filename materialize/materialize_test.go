package materialize_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colblock/materialize"
	"github.com/hupe1980/colblock/page"
	"github.com/hupe1980/colblock/testutil"
	"github.com/hupe1980/colblock/types"
)

func TestMaterialize(t *testing.T) {
	price, err := types.NewDecimal(10, 2)
	require.NoError(t, err)
	unscaled, err := price.Unscaled(decimal.RequireFromString("19.99"))
	require.NoError(t, err)

	p, err := page.New(
		testutil.MustBuild(t, types.Bigint, int64(1), int64(2)),
		testutil.MustBuild(t, types.Varchar, "apple", nil),
		testutil.MustBuild(t, price, unscaled, nil),
		testutil.MustBuild(t, types.NewArray(types.Varchar), []any{"red", nil}, []any{}),
	)
	require.NoError(t, err)

	res, err := materialize.Materialize(types.DefaultSession(), []string{"id", "name", "price", "tags"}, p, p)
	require.NoError(t, err)
	require.Len(t, res.Rows, 4)
	assert.Equal(t, "decimal(10,2)", res.Columns[2].Type)

	row := res.Rows[0]
	assert.Equal(t, int64(1), row[0])
	assert.Equal(t, "apple", row[1])
	assert.True(t, decimal.RequireFromString("19.99").Equal(row[2].(decimal.Decimal)))
	assert.Equal(t, []any{"red", nil}, row[3])

	assert.Equal(t, []any{int64(2), nil, nil, []any{}}, res.Rows[1])
}

func TestMarshalJSON(t *testing.T) {
	p, err := page.New(
		testutil.MustBuild(t, types.Bigint, int64(7), nil),
		testutil.MustBuild(t, types.Boolean, true, false),
	)
	require.NoError(t, err)

	res, err := materialize.Materialize(types.DefaultSession(), []string{"n", "ok"}, p)
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"columns": [{"name": "n", "type": "bigint"}, {"name": "ok", "type": "boolean"}],
		"rows": [[7, true], [null, false]]
	}`, string(data))
}

func TestTimestampUsesSessionZone(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	p, err := page.New(testutil.MustBuild(t, types.Timestamp, int64(0)))
	require.NoError(t, err)

	res, err := materialize.Materialize(types.NewSession(zone, "de-DE"), []string{"ts"}, p)
	require.NoError(t, err)

	ts, ok := res.Rows[0][0].(time.Time)
	require.True(t, ok)
	assert.Equal(t, zone, ts.Location())
	assert.Equal(t, 2, ts.Hour())
}

func TestAppendRejectsChannelMismatch(t *testing.T) {
	p, err := page.New(testutil.MustBuild(t, types.Bigint, int64(1)))
	require.NoError(t, err)

	_, err = materialize.Materialize(types.DefaultSession(), []string{"a", "b"}, p)
	assert.Error(t, err)
}
