// Package review orchestrates document review: validation, local repair,
// backend escalation, and bookkeeping.
//
// ReviewDocument walks the tree once, dispatching each chart and table block
// through validate -> local repair -> backend chain, and embeds a terminal
// outcome in the block. Outcomes make review idempotent on a tree instance:
// a second pass tallies the embedded outcomes without re-running validation
// or calling any backend.
//
// Stats are per session. BuildReport turns a reviewed tree plus its Stats
// into the serializable Report the output writers and HTTP API share.
package review
