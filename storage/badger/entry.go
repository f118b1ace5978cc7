// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/finsight/core"
	"github.com/poiesic/finsight/storage"
)

// EntryRepository implements storage.EntryRepository for BadgerDB.
//
// Tenant isolation is structural: every key embeds the tenant ID, and
// every read iterates under a tenant prefix. There is no operation that
// scans across tenants.
type EntryRepository struct {
	backend *Backend
}

var _ storage.EntryRepository = (*EntryRepository)(nil)

// NewEntryRepository creates a new EntryRepository on the given backend.
func NewEntryRepository(backend *Backend) (*EntryRepository, error) {
	return &EntryRepository{backend: backend}, nil
}

// Close is a no-op. The backend is owned and closed by the caller.
func (r *EntryRepository) Close() error {
	return nil
}

// AddEntries stores one or more indexed entries.
// Entries are validated before any write; an entry with an existing ID
// overwrites the previous value.
func (r *EntryRepository) AddEntries(ctx context.Context, entries ...*core.IndexedEntry) error {
	for _, entry := range entries {
		if err := core.ValidateEntry(entry); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			value, err := storage.MarshalEntry(entry)
			if err != nil {
				return err
			}
			key := makeEntryKey(entry.TenantID, entry.Id)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// TenantEntries retrieves all entries belonging to a tenant, in key order.
func (r *EntryRepository) TenantEntries(ctx context.Context, tenantID string) ([]*core.IndexedEntry, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}

	var entries []*core.IndexedEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.scanTenant(tx, tenantID, func(entry *core.IndexedEntry) {
			entries = append(entries, entry)
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteTenantEntries removes every entry belonging to a tenant.
// Returns the number of entries removed.
func (r *EntryRepository) DeleteTenantEntries(ctx context.Context, tenantID string) (int, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return 0, err
	}

	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantPrefix(tenantID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}

	if len(keys) == 0 {
		return 0, nil
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// FindSimilar finds the tenant's entries most similar to the given vector.
// Only the named tenant's keyspace is scanned.
func (r *EntryRepository) FindSimilar(ctx context.Context, tenantID string, vector []float32, limit int) ([]*core.ScoredEntry, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if len(vector) == 0 || limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.ScoredEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.scanTenant(tx, tenantID, func(entry *core.IndexedEntry) {
			if len(entry.Vector) == 0 {
				return
			}
			results = append(results, &core.ScoredEntry{
				Entry: entry,
				Score: cosineSimilarity(vector, entry.Vector),
			})
		})
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.ScoredEntry) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scanTenant iterates the tenant's keyspace, decoding each entry.
func (r *EntryRepository) scanTenant(tx *badger.Txn, tenantID string, visit func(*core.IndexedEntry)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeTenantPrefix(tenantID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		var entry *core.IndexedEntry
		err := item.Value(func(val []byte) error {
			var err error
			entry, err = storage.UnmarshalEntry(val)
			return err
		})
		if err != nil {
			return err
		}
		if entry != nil {
			visit(entry)
		}
	}
	return nil
}

// cosineSimilarity calculates the cosine similarity of two vectors.
// Accumulates in float64 to limit rounding drift over long vectors.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
