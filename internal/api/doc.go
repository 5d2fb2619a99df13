// Package api exposes document review and rendering over HTTP.
//
// Endpoints:
//   - GET  /health      — liveness probe, unauthenticated
//   - POST /api/review  — review a document tree, returns stats and the tree
//   - POST /api/render  — render a document tree to Markdown
//
// When an API key is configured, the /api routes require a Bearer token.
package api
