// Package repair fixes malformed chart and table blocks. Deterministic local
// rules run first and handle the common structural defects; blocks the local
// pass cannot fix go through an ordered chain of external repair backends,
// with results cached per block content so a rerun never pays twice.
package repair
