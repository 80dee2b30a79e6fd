// Package types provides concrete block.Type implementations and a
// Registry that resolves type signatures written by serialized blocks.
//
// Scalar types are fixed-width (boolean, integer, bigint, double,
// timestamp, decimal) or variable-width (varchar, varbinary). Array types
// nest any element type:
//
//	t, err := types.Default().Resolve("array(decimal(10,2))")
//	bb := t.NewBuilder(16)
package types
