// Package models defines the records exchanged with the cinema backend and the client-side types built on them.
//
// The package contains three categories of types:
//
// 1. Backend records: treated as opaque values owned by the REST backend
//   - [Movie] : Catalog entry; carries [Schedule] values only on detail fetches
//   - [Schedule] : A showing of a movie with its price
//   - [User] : The authenticated account as reported by the login endpoint
//
// 2. Client state
//   - [Session] : The authenticated user plus bearer token; at most one exists at a time
//
// 3. Write payloads and form drafts
//   - [MoviePayload], [SchedulePayload] : JSON bodies for admin writes
//   - [MovieDraft], [ScheduleDraft] : In-progress form input, converted to payloads on submit
package models
