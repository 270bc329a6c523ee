// Package session owns the client's authenticated identity.
//
// A [Store] holds at most one [models.Session] and writes every change through to a [Storage] synchronously,
// so a restart reconstructs the same state via [Store.Load]. The store is created once by the shell and injected
// into every view or command that needs it; [Store.Set] and [Store.Clear] are the only writers.
//
// Corrupt or invalid persisted data is treated as "logged out", never as a fatal error.
// Tokens are never refreshed or revalidated: a rejected token surfaces as an ordinary request failure.
//
// The store is not safe for concurrent use. The TUI touches it only from its update loop and captures
// the token when a request command is built.
package session
