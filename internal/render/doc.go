// Package render converts a document tree to Markdown.
//
// Rendering never fails and never drops a block silently: widgets that a
// review marked non-renderable become an explicit quoted placeholder naming
// the failure reason, charts degrade to pipe tables, and word clouds to
// keyword/weight tables. Unknown block types fall back to their extractable
// text.
package render
