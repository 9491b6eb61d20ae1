package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// DefaultQuota is the byte budget shared by all keys unless WithQuota says
// otherwise.
const DefaultQuota int64 = 5 << 20

// Entry is one key/value pair of a batch write.
type Entry struct {
	Key   Key
	Value any
}

// Adapter serializes values to JSON and writes them through a kv.Repository.
type Adapter struct {
	repo  kv.Repository
	quota int64
	log   logging.Logger
}

type Option func(*Adapter)

// WithQuota sets the total byte budget; n <= 0 disables the check.
func WithQuota(n int64) Option {
	return func(a *Adapter) { a.quota = n }
}

func WithLogger(l logging.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

func NewAdapter(repo kv.Repository, opts ...Option) *Adapter {
	a := &Adapter{repo: repo, quota: DefaultQuota, log: logging.Nop()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Save replaces the value stored under key.
func (a *Adapter) Save(ctx context.Context, key Key, value any) error {
	return a.SaveBatch(ctx, []Entry{{Key: key, Value: value}})
}

// SaveBatch writes several keys. Nothing is written if any value fails to
// encode or the batch would grow storage past the quota. Backends
// implementing kv.Transactor apply the check and the batch atomically;
// others write key by key.
func (a *Adapter) SaveBatch(ctx context.Context, entries []Entry) error {
	encoded := make(map[string][]byte, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		b, err := json.Marshal(e.Value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Key, err)
		}
		if _, dup := encoded[string(e.Key)]; !dup {
			order = append(order, string(e.Key))
		}
		encoded[string(e.Key)] = b
	}

	write := func(ctx context.Context, repo kv.Repository) error {
		if err := a.checkQuota(ctx, repo, encoded); err != nil {
			return err
		}
		for _, k := range order {
			if err := repo.Set(ctx, k, encoded[k]); err != nil {
				return err
			}
		}
		return nil
	}

	// quota check and writes share one transaction when the backend has one
	var err error
	if tx, ok := a.repo.(kv.Transactor); ok && (len(order) > 1 || a.quota > 0) {
		err = tx.InTx(ctx, write)
	} else {
		err = write(ctx, a.repo)
	}
	if errors.Is(err, common.ErrQuotaExceeded) {
		return err
	}
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	for _, k := range order {
		a.log.Debug(ctx, "key saved", "key", k, "bytes", len(encoded[k]))
	}
	return nil
}

// Load decodes the value stored under key into out. It reports false and
// leaves out untouched when the key is absent.
func (a *Adapter) Load(ctx context.Context, key Key, out any) (bool, error) {
	b, err := a.repo.Get(ctx, string(key))
	if err != nil {
		return false, fmt.Errorf("load: %w", err)
	}
	if b == nil {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Remove deletes key. Removing an absent key is not an error.
func (a *Adapter) Remove(ctx context.Context, key Key) error {
	if err := a.repo.Delete(ctx, string(key)); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	a.log.Debug(ctx, "key removed", "key", string(key))
	return nil
}

// LoadSlice loads a collection, defaulting to an empty non-nil slice.
func LoadSlice[T any](ctx context.Context, a *Adapter, key Key) ([]T, error) {
	out := []T{}
	if _, err := a.Load(ctx, key, &out); err != nil {
		return nil, err
	}
	if out == nil {
		// a stored JSON null
		out = []T{}
	}
	return out, nil
}

// LoadProfile loads the persisted user profile, or nil when there is none.
func (a *Adapter) LoadProfile(ctx context.Context) (*models.UserProfile, error) {
	var p *models.UserProfile
	if _, err := a.Load(ctx, KeyUser, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// Usage returns the number of bytes currently stored, counting keys and values.
func (a *Adapter) Usage(ctx context.Context) (int64, error) {
	sizes, err := keySizes(ctx, a.repo)
	if err != nil {
		return 0, fmt.Errorf("usage: %w", err)
	}
	var n int64
	for k, v := range sizes {
		n += int64(len(k)) + v
	}
	return n, nil
}

// Quota returns the configured byte budget; 0 or less means unlimited.
func (a *Adapter) Quota() int64 {
	return a.quota
}

// checkQuota rejects pending writes that leave storage over budget and
// larger than it was. Shrinking writes always pass.
func (a *Adapter) checkQuota(ctx context.Context, repo kv.Repository, pending map[string][]byte) error {
	if a.quota <= 0 {
		return nil
	}

	sizes, err := keySizes(ctx, repo)
	if err != nil {
		return fmt.Errorf("quota check: %w", err)
	}

	var current int64
	for k, v := range sizes {
		current += int64(len(k)) + v
	}
	total := current
	for k, v := range pending {
		if old, ok := sizes[k]; ok {
			total -= int64(len(k)) + old
		}
		total += int64(len(k) + len(v))
	}

	if total > a.quota && total > current {
		return fmt.Errorf("%w: %d of %d bytes", common.ErrQuotaExceeded, total, a.quota)
	}
	return nil
}

// keySizes reports the value size per key, without reading values when the
// backend can tell sizes on its own.
func keySizes(ctx context.Context, repo kv.Repository) (map[string]int64, error) {
	if s, ok := repo.(kv.Sizer); ok {
		return s.Sizes(ctx)
	}
	all, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sizes := make(map[string]int64, len(all))
	for k, v := range all {
		sizes[k] = int64(len(v))
	}
	return sizes, nil
}
