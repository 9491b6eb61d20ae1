package dbx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openKV(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return db
}

func keys(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	return n
}

func insert(ctx context.Context, tx DBTX, key string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES (?, ?)`, key, []byte(`[]`))
	return err
}

func TestWithTx_CommitsBatch(t *testing.T) {
	db := openKV(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if err := insert(ctx, tx, "vault_folders"); err != nil {
			return err
		}
		return insert(ctx, tx, "vault_notes")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, keys(t, db))
}

func TestWithTx_RollsBackBatchOnError(t *testing.T) {
	db := openKV(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insert(ctx, tx, "vault_folders"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, keys(t, db), "first write of the batch is undone")
}

func TestWithTx_RollsBackAndRepanics(t *testing.T) {
	db := openKV(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, insert(ctx, tx, "vault_notes"))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, keys(t, db))
}

func TestWithTx_BeginError(t *testing.T) {
	db := openKV(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.ErrorContains(t, err, "begin tx")
	assert.False(t, called)
}

func TestWithTx_CommitAndRollbackErrors(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("disk full"))

		err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error { return nil })
		require.ErrorContains(t, err, "commit: disk full")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("conn lost"))

		err = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error { return boom })
		require.ErrorIs(t, err, boom)
		require.ErrorContains(t, err, "rollback: conn lost")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
