// Package ir models the report document IR as dynamic JSON.
//
// A document is a tree of chapters and typed content blocks. Chart and table
// blocks arrive from an upstream generative process and are frequently
// malformed (missing fields, wrong JSON types, table cells nested inside
// cells), so blocks are kept as map-backed JSON objects rather than rigid
// structs: a struct cannot hold the defective shapes the repair engine has
// to inspect and rewrite.
//
// The package provides the generic tree walker used by every traversal
// (review, metadata stripping, rendering), typed accessors over the dynamic
// maps, and the embedded review-outcome bookkeeping. All review bookkeeping
// lives under keys with the "_review" prefix and is removed by Strip before
// a document is persisted.
package ir
