package types_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colblock/block"
	"github.com/hupe1980/colblock/testutil"
	"github.com/hupe1980/colblock/types"
)

func TestScalarContract(t *testing.T) {
	tests := []struct {
		typ         block.Type
		small, big  any
		kind        block.Kind
		fixedSize   int
		objectSmall any
	}{
		{types.Boolean, false, true, block.KindBoolean, 1, false},
		{types.Integer, int64(-5), int64(7), block.KindLong, 4, int64(-5)},
		{types.Bigint, int64(math.MinInt64), int64(math.MaxInt64), block.KindLong, 8, int64(math.MinInt64)},
		{types.Double, -1.5, 2.25, block.KindDouble, 8, -1.5},
		{types.Varchar, "abc", "abd", block.KindSlice, 0, "abc"},
		{types.Varbinary, []byte{1}, []byte{1, 0}, block.KindSlice, 0, []byte{1}},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.typ.Kind())
			assert.Equal(t, tt.fixedSize, tt.typ.FixedSize())
			assert.True(t, tt.typ.Orderable())

			b := testutil.MustBuild(t, tt.typ, tt.small, tt.big, tt.small)

			eq, err := tt.typ.EqualTo(b, 0, b, 2)
			require.NoError(t, err)
			assert.True(t, eq)

			eq, err = tt.typ.EqualTo(b, 0, b, 1)
			require.NoError(t, err)
			assert.False(t, eq)

			h0, err := tt.typ.Hash(b, 0)
			require.NoError(t, err)
			h2, err := tt.typ.Hash(b, 2)
			require.NoError(t, err)
			assert.Equal(t, h0, h2)

			c, err := tt.typ.Compare(b, 0, b, 1)
			require.NoError(t, err)
			assert.Negative(t, c)
			c, err = tt.typ.Compare(b, 1, b, 0)
			require.NoError(t, err)
			assert.Positive(t, c)

			v, err := tt.typ.ObjectValue(types.DefaultSession(), b, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.objectSmall, v)

			bb := tt.typ.NewBuilder(1)
			require.NoError(t, tt.typ.AppendTo(b, 1, bb))
			copied, err := bb.Build()
			require.NoError(t, err)
			eq, err = tt.typ.EqualTo(copied, 0, b, 1)
			require.NoError(t, err)
			assert.True(t, eq)
		})
	}
}

func TestNullAccessFails(t *testing.T) {
	b := testutil.MustBuild(t, types.Bigint, nil)

	_, err := types.Bigint.Hash(b, 0)
	assert.ErrorIs(t, err, block.ErrNullValue)

	v, err := b.ObjectValue(types.DefaultSession(), 0)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDoubleSpecialValues(t *testing.T) {
	b := testutil.MustBuild(t, types.Double, math.NaN(), math.NaN(), 0.0, math.Copysign(0, -1), math.Inf(-1))

	eq, err := types.Double.EqualTo(b, 0, b, 1)
	require.NoError(t, err)
	assert.True(t, eq, "NaN equals NaN")

	h0, _ := types.Double.Hash(b, 0)
	h1, _ := types.Double.Hash(b, 1)
	assert.Equal(t, h0, h1)

	eq, err = types.Double.EqualTo(b, 2, b, 3)
	require.NoError(t, err)
	assert.True(t, eq, "-0 equals +0")

	h2, _ := types.Double.Hash(b, 2)
	h3, _ := types.Double.Hash(b, 3)
	assert.Equal(t, h2, h3)

	c, err := types.Double.Compare(b, 0, b, 4)
	require.NoError(t, err)
	assert.Negative(t, c, "NaN sorts first")
}

func TestIntegerRejectsOverflow(t *testing.T) {
	bb := types.Integer.NewBuilder(1)
	assert.ErrorIs(t, bb.AppendLong(math.MaxInt32+1), block.ErrInvalidEntry)
	require.NoError(t, bb.AppendLong(math.MinInt32))

	b, err := bb.Build()
	require.NoError(t, err)
	v, err := b.Long(0)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt32), v)
}

func TestTimestampUsesSessionZone(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*3600)
	b := testutil.MustBuild(t, types.Timestamp, int64(0))

	v, err := types.Timestamp.ObjectValue(types.NewSession(zone, ""), b, 0)
	require.NoError(t, err)
	ts := v.(time.Time)
	assert.Equal(t, 19, ts.Hour())
	assert.True(t, ts.Equal(time.UnixMilli(0)))

	v, err = types.Timestamp.ObjectValue(nil, b, 0)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, v.(time.Time).Location())
}

func TestSession(t *testing.T) {
	s := types.DefaultSession()
	assert.Equal(t, time.UTC, s.TimeZone())
	assert.Equal(t, "en-US", s.Locale())

	s = types.NewSession(time.UTC, "de-DE")
	assert.Equal(t, "de-DE", s.Locale())
}

func TestDecimal(t *testing.T) {
	typ, err := types.NewDecimal(5, 2)
	require.NoError(t, err)
	assert.Equal(t, "decimal(5,2)", typ.Name())
	assert.Equal(t, 5, typ.Precision())
	assert.Equal(t, 2, typ.Scale())

	u, err := typ.Unscaled(decimal.RequireFromString("123.456"))
	require.NoError(t, err)
	assert.Equal(t, int64(12346), u)

	_, err = typ.Unscaled(decimal.RequireFromString("1000"))
	assert.ErrorIs(t, err, block.ErrInvalidEntry)

	b := testutil.MustBuild(t, typ, u, int64(-5))
	v, err := typ.ObjectValue(nil, b, 0)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("123.46").Equal(v.(decimal.Decimal)))

	c, err := typ.Compare(b, 1, b, 0)
	require.NoError(t, err)
	assert.Negative(t, c)

	for _, bad := range [][2]int{{0, 0}, {19, 2}, {5, 6}, {5, -1}} {
		_, err := types.NewDecimal(bad[0], bad[1])
		assert.ErrorIs(t, err, types.ErrInvalidSignature, "decimal(%d,%d)", bad[0], bad[1])
	}
}

func TestArrayType(t *testing.T) {
	typ := types.NewArray(types.Bigint)
	assert.Equal(t, "array(bigint)", typ.Name())
	assert.Equal(t, block.KindArray, typ.Kind())
	assert.Equal(t, types.Bigint, typ.Element())

	b := testutil.MustBuild(t, typ,
		[]any{int64(1), int64(2)},
		[]any{int64(1), int64(2)},
		[]any{int64(1), nil},
		[]any{int64(1)},
		[]any{},
	)

	eq, err := typ.EqualTo(b, 0, b, 1)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = typ.EqualTo(b, 0, b, 2)
	require.NoError(t, err)
	assert.False(t, eq)

	h0, _ := typ.Hash(b, 0)
	h1, _ := typ.Hash(b, 1)
	assert.Equal(t, h0, h1)

	c, err := typ.Compare(b, 0, b, 2)
	require.NoError(t, err)
	assert.Negative(t, c, "null elements sort last")

	c, err = typ.Compare(b, 3, b, 0)
	require.NoError(t, err)
	assert.Negative(t, c, "prefix sorts first")

	c, err = typ.Compare(b, 4, b, 3)
	require.NoError(t, err)
	assert.Negative(t, c)

	v, err := typ.ObjectValue(nil, b, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), nil}, v)

	bb := typ.NewBuilder(1)
	require.NoError(t, typ.AppendTo(b, 0, bb))
	copied, err := bb.Build()
	require.NoError(t, err)
	eq, err = typ.EqualTo(copied, 0, b, 0)
	require.NoError(t, err)
	assert.True(t, eq)

	err = typ.AppendTo(b, 0, types.Bigint.NewBuilder(1))
	assert.ErrorIs(t, err, block.ErrTypeMismatch)
}

func TestRegistryResolve(t *testing.T) {
	r := types.NewRegistry()

	tests := []struct {
		signature string
		name      string
	}{
		{"bigint", "bigint"},
		{" VARCHAR ", "varchar"},
		{"array(double)", "array(double)"},
		{"array(array(boolean))", "array(array(boolean))"},
		{"decimal(10, 2)", "decimal(10,2)"},
		{"array(decimal(3,1))", "array(decimal(3,1))"},
	}
	for _, tt := range tests {
		typ, err := r.Resolve(tt.signature)
		require.NoError(t, err, tt.signature)
		assert.Equal(t, tt.name, typ.Name())
	}

	_, err := r.Resolve("uuid")
	assert.ErrorIs(t, err, types.ErrUnknownType)

	_, err = r.Resolve("map(varchar)")
	assert.ErrorIs(t, err, types.ErrUnknownType)

	for _, bad := range []string{"", "array(", "decimal(1)", "decimal(a,b)", "(bigint)", "bigint)"} {
		_, err := r.Resolve(bad)
		assert.ErrorIs(t, err, types.ErrInvalidSignature, bad)
	}

	r.Register(aliasType{types.Bigint})
	typ, err := r.Resolve("long")
	require.NoError(t, err)
	assert.Equal(t, "long", typ.Name())

	_, err = types.Default().Resolve("long")
	assert.ErrorIs(t, err, types.ErrUnknownType)
}

type aliasType struct{ block.Type }

func (aliasType) Name() string { return "long" }
