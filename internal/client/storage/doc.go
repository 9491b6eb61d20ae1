// Package storage is the persistence adapter of the vault: it stores whole
// JSON-encoded collections under a handful of fixed keys in a kv.Repository.
//
// Every Save replaces the full value of its key. Loads of absent keys report
// found == false and leave the destination untouched, so callers start from
// their own empty defaults (see LoadSlice and LoadProfile). Failures are
// wrapped and returned; nothing is retried.
package storage
