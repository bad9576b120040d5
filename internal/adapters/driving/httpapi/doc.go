// Package httpapi is the HTTP driving adapter. It serves the game API, the
// regeneration trigger, health and Prometheus metrics on a chi router.
//
// # Routes
//
//	GET|POST /api/cron          run regeneration (Bearer secret)
//	GET      /api/game          today's game identity
//	POST     /api/game          submit a guess (rate limited per client IP)
//	GET      /api/ranking       full ranking, ?date=YYYY-MM-DD
//	GET      /api/yesterday-answer
//	GET      /api/names
//	GET      /healthz
//	GET      /metrics
//
// Errors are JSON objects with a single "message" field. Domain errors are
// mapped to status codes with errors.Is.
package httpapi
