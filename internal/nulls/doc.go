// Package nulls stores the null indicator of a block as a Roaring bitmap of
// null positions.
//
// A Set is an immutable view: regions of a block share the bitmap of their
// source and only move the view's offset. A nil bitmap means the view holds
// no nulls, which keeps the common all-non-null case allocation free.
package nulls
