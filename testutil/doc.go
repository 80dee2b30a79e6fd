// Package testutil provides testing utilities for colblock.
//
// This package is intended for use in tests and benchmarks only.
//
// # Building Blocks From Values
//
//	b := testutil.MustBuild(t, types.Bigint, int64(10), nil, int64(30))
//	arr := testutil.MustBuild(t, types.NewArray(types.Varchar), []any{"a", nil}, nil)
//
// # Random Values
//
//	rng := testutil.NewRNG(seed)
//	values := rng.Longs(1000, 0.1)    // 10% nulls
//	strs := rng.Strings(1000, 16, 0)  // no nulls
package testutil
