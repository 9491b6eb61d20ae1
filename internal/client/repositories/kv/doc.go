// Package kv provides the key/value substrate underneath the vault's
// persistence adapter.
//
// # Overview
//
// The package defines a Repository interface (Get/Set/Delete/List/Clear over
// string keys and opaque byte values) and several implementations:
//
//   - SQLiteRepository:   default, local database file (modernc.org/sqlite)
//   - PostgresRepository: shared database (pgx stdlib driver)
//   - FileRepository:     one file per key, atomic replace via rename
//   - S3Repository:       one object per key in an S3-compatible bucket
//   - MemoryRepository:   process-local map, mainly for tests
//
// Backends that can group writes (SQL and memory) also implement Transactor.
//
// # Semantics
//
// Get on an absent key returns (nil, nil). Set is an upsert that replaces the
// entire value. Delete is idempotent. No backend retries or batches on its own.
//
// Typical Usage
//
//	repo, closer, err := kv.Open(ctx, cfg, logger)
//	defer closer.Close()
//	_ = repo.Set(ctx, "vault_notes", []byte(`[]`))
//	v, _ := repo.Get(ctx, "vault_notes")
package kv
