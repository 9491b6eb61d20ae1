package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophvault/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophvault/internal/client/storage"
)

var errInjected = errors.New("injected write failure")

// faultyRepo fails every Set while fail is true.
type faultyRepo struct {
	kv.Repository
	fail bool
}

func (r *faultyRepo) Set(ctx context.Context, key string, value []byte) error {
	if r.fail {
		return errInjected
	}
	return r.Repository.Set(ctx, key, value)
}

// seqIDs yields "id-1", "id-2", ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// stepClock advances one second per call.
func stepClock() func() time.Time {
	t := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestVault(t *testing.T, repo kv.Repository) VaultStore {
	t.Helper()
	v, err := NewVaultStore(context.Background(), storage.NewAdapter(repo),
		WithIDGenerator(seqIDs()), WithClock(stepClock()))
	require.NoError(t, err)
	return v
}
