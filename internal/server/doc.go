// Package server provides HTTP routing, middleware, and an in-memory cinema backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method-aware patterns internally.
//
// # Middleware
//
// [RequestID] tags every request with an X-Request-ID header and [Logging] writes one structured
// log line per request.
//
// # Backend
//
// [Backend] serves the REST surface the client in internal/services talks to:
//
//	GET  /api/movies          movie summaries
//	GET  /api/movies/{id}     one movie with its schedules, ordered by show time
//	POST /api/movies          create a movie (admin)
//	PUT  /api/movies/{id}     update a movie (admin)
//	GET  /api/schedules       all schedules
//	POST /api/schedules       create a schedule (admin)
//	POST /api/login           exchange credentials for a bearer token
//
// Errors are JSON objects with a "message" key. Admin routes answer 401 without a known bearer
// token and 403 when the token belongs to a non-admin user.
//
// The backend keeps everything in memory and is used by the dev-server command and by tests.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
