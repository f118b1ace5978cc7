package storage

import (
	"context"

	"github.com/poiesic/finsight/core"
)

// EntryRepository provides operations for managing indexed entries.
// Implementations must be thread-safe and support concurrent access.
//
// All operations are tenant-scoped: an implementation must make it
// impossible for one tenant's entries to appear in another tenant's
// reads, regardless of query contents.
type EntryRepository interface {
	// AddEntries stores one or more indexed entries.
	// Entries must carry a valid tenant ID, text, metadata, and vector.
	// Writing an entry with an existing ID overwrites it.
	AddEntries(ctx context.Context, entries ...*core.IndexedEntry) error

	// TenantEntries retrieves all entries belonging to a tenant,
	// in key order. Returns an empty slice when the tenant has none.
	TenantEntries(ctx context.Context, tenantID string) ([]*core.IndexedEntry, error)

	// DeleteTenantEntries removes every entry belonging to a tenant.
	// Returns the number of entries removed. Deleting a tenant with
	// no entries is not an error.
	DeleteTenantEntries(ctx context.Context, tenantID string) (int, error)

	// FindSimilar finds the tenant's entries most similar to the given
	// vector. Returns up to limit results ordered by similarity score
	// (highest first). Only the named tenant's entries are scanned.
	FindSimilar(ctx context.Context, tenantID string, vector []float32, limit int) ([]*core.ScoredEntry, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
