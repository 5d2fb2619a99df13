// Package cache provides an in-memory cache for backend repair results.
//
// Entries are keyed by a SHA-256 hash of the widget identity and the block's
// serialized content, so two blocks with identical content share one backend
// call even across documents reviewed in the same session. Concurrent lookups
// of the same key are collapsed through singleflight: one caller performs the
// repair while the rest wait for its result.
//
// Terminal outcomes are cached in both directions. A successful repair is
// reused as-is, and an exhausted backend chain is remembered so a rerun does
// not pay for the same failures again.
package cache
