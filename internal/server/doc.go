// Package server exposes the template registry and imports over HTTP.
//
// Routes:
//
//	GET    /healthz                 liveness
//	GET    /metrics                 Prometheus metrics
//	GET    /api/templates           template metadata
//	GET    /api/templates/{name}    one template's config
//	DELETE /api/templates/{name}    remove a template
//	GET    /api/imports/ws          websocket import
//
// A websocket import starts with the client sending an importer.Request as
// JSON, for example {"source": "https://github.com/acme/shop.git", "name":
// "shop"}. The server answers with "progress" messages, one per stage, and
// then a single "result" or "error" message before closing the connection.
package server
