// Irmend validates and repairs chart and table blocks in report document
// trees produced by LLM writers.
//
// It validates each block against its grammar, applies deterministic local
// repairs, escalates unfixable blocks to an ordered chain of external repair
// backends, and emits a review report with deterministic exit codes suitable
// for pipeline gating.
//
// Usage:
//
//	irmend review report.json            # review a document tree
//	irmend review report.json --save     # review and persist repairs
//	irmend render report.json            # render a tree to Markdown
//	irmend serve                         # run the HTTP review API
//	irmend config init                   # write a default config file
package main
