// Package services implements the HTTP client for the cinema REST backend.
//
// # API Interface
//
// [API] is the contract views and commands depend on; [Client] implements it over JSON/HTTP.
//
//	GET  /api/movies           list movies
//	GET  /api/movies/{id}      movie detail with nested schedules
//	POST /api/movies           create movie (bearer)
//	PUT  /api/movies/{id}      update movie (bearer)
//	GET  /api/schedules        list schedules
//	POST /api/schedules        create schedule (bearer)
//	POST /api/login            exchange credentials for a session
//
// Write operations take the bearer token as an argument so callers capture it at call time.
// The header is set with [oauth2.Token.SetAuthHeader].
//
// # Error Handling
//
// Every failure is an [*APIError] with a [Kind]:
//   - [KindNetwork] : backend unreachable, unwraps to [shared.ErrServiceUnavailable]
//   - [KindAuth] : 401/403, unwraps to [shared.ErrAuthFailed]
//   - [KindValidation] : 400/422, unwraps to [shared.ErrValidation]
//   - [KindNotFound] : 404, unwraps to [shared.ErrNotFound]
//   - [KindServer] : other statuses and undecodable bodies, unwraps to [shared.ErrAPIRequest]
//
// [Message] reduces any error to the single display-ready string views show, preferring the backend's message.
//
// There are no retries. A client-side rate limit can be configured with [golang.org/x/time/rate].
package services
