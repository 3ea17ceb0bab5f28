// Package http implements the read-only HTTP handlers of the delivery web
// service. Handlers are thin: they parse and validate the request with the
// v1 API contract, call into the exporter or services layer and render the
// result with chi/render.
//
// # Endpoints
//
//	GET /healthz                    liveness
//	GET /readyz                     readiness, 503 until a clean table exists
//	GET /metrics                    Prometheus exposition
//	GET /api/v1/version             build information
//	GET /api/v1/delivery            clean tables on disk, newest first
//	GET /api/v1/delivery/{date}     one clean table, ?series= filters
//	GET /api/v1/top10/{date}        stored or computed ranking, ?top= limits
//
// {date} accepts YYYY-MM-DD, TODAY or latest.
//
// # Errors
//
// Application errors are mapped by errors.FromError: a missing artifact is
// 404, an unreadable stored file 422, a bad parameter 400.
package http
