// Package repositories implements SQLite persistence for durable client-side state.
//
// The client keeps very little locally: the authenticated session is the only record that must survive a restart.
// It is stored through [KVRepository], a string-keyed blob table that satisfies session.Storage.
//
// Writes are synchronous; a successful Put or Delete is visible to the next process that opens the same database.
package repositories
