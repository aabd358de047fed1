// Package frame provides the in-memory tabular container the cleansing
// pipeline operates on: an ordered set of named, equal-length columns of
// loosely-typed cell values.
//
// A Frame is owned by the caller and passed by reference through each
// pipeline stage. Stages may rewrite cell content and claim a column for a
// semantic type, but never change the frame's shape: row count, column
// count, and ordering are fixed for the lifetime of a run.
package frame
