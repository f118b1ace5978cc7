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


package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/finsight/ai"
	"github.com/poiesic/finsight/core"
	"github.com/poiesic/finsight/storage"
)

const defaultBatchSize = 16

// Index is the tenant-scoped vector index. It embeds chunks, stores them
// per tenant, and answers similarity queries that never cross tenant
// boundaries.
//
// Writes take the exclusive lock; searches take the shared lock. A search
// therefore observes either the state before a concurrent add/delete or
// the state after it, never a partial write.
type Index struct {
	entries   storage.EntryRepository
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	mu        sync.RWMutex
	logger    *slog.Logger
}

// Option configures an Index.
type Option func(*Index) error

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(idx *Index) error {
		if size < 1 {
			size = 1
		}

		if idx.pool != nil {
			idx.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		idx.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunk texts are embedded per batch request.
// Default is 16.
func WithBatchSize(size int) Option {
	return func(idx *Index) error {
		if size < 1 {
			size = 1
		}
		idx.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
		return nil
	}
}

// New creates a vector index over the given repository and AI provider.
// The returned index is ready to serve adds and searches; before this
// constructor returns there is no usable index state.
func New(entries storage.EntryRepository, provider ai.AIProvider, opts ...Option) (*Index, error) {
	if entries == nil {
		return nil, ErrEntryRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		entries:   entries,
		embedder:  provider.Embedder(),
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(idx); optErr != nil {
			idx.Release()
			return nil, optErr
		}
	}

	return idx, nil
}

// Add embeds the chunks and stores them under the tenant. Returns the
// number of entries stored. Embedding failures abort the whole add: no
// partial batch is written.
//
// Entry IDs are derived from tenant and chunk text, so re-adding the
// same chunk for the same tenant overwrites rather than duplicates.
func (idx *Index) Add(ctx context.Context, tenantID string, chunks []core.Chunk) (int, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return 0, err
	}
	for i := range chunks {
		if err := core.ValidateChunk(&chunks[i]); err != nil {
			return 0, err
		}
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := idx.embedChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	entries := make([]*core.IndexedEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = &core.IndexedEntry{
			Id:         core.EntryIDFor(tenantID, chunk.Text),
			TenantID:   tenantID,
			Chunk:      chunk,
			Vector:     vectors[i],
			InsertedAt: now,
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if err := idx.entries.AddEntries(ctx, entries...); err != nil {
		return 0, err
	}

	idx.logger.Debug("indexed chunks", "tenant", tenantID, "entries", len(entries))
	return len(entries), nil
}

// embedChunks embeds chunk texts in batches on the worker pool.
// The first batch error aborts the result.
func (idx *Index) embedChunks(ctx context.Context, chunks []core.Chunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors := make([][]float32, len(texts))

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	for start := 0; start < len(texts); start += idx.batchSize {
		end := start + idx.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]
		offset := start

		wg.Add(1)
		submitErr := idx.pool.Submit(func() {
			defer wg.Done()

			embedded, err := idx.embedder.EmbedTexts(ctx, batch)
			if err == nil && len(embedded) != len(batch) {
				err = fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(batch), len(embedded))
			}
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			for i, vector := range embedded {
				vectors[offset+i] = vector
			}
		})
		if submitErr != nil {
			wg.Done()
			return nil, submitErr
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, firstErr)
	}
	return vectors, nil
}

// DeleteTenant removes all of the tenant's entries. Failures are logged
// and swallowed: deletion is best-effort from the caller's point of view,
// and a tenant with no entries is not an error.
func (idx *Index) DeleteTenant(ctx context.Context, tenantID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	removed, err := idx.entries.DeleteTenantEntries(ctx, tenantID)
	if err != nil {
		idx.logger.Error("error deleting tenant entries", "tenant", tenantID, "err", err)
		return
	}
	if removed > 0 {
		idx.logger.Debug("deleted tenant entries", "tenant", tenantID, "entries", removed)
	}
}

// Search embeds the query and returns the tenant's most similar entries,
// highest score first. All failures are absorbed: embedding errors,
// storage errors, and unknown tenants alike yield an empty result, with
// the cause logged. Retrieval degrades to "no context" rather than
// failing the caller's request.
func (idx *Index) Search(ctx context.Context, tenantID, query string, topK int) []core.ScoredEntry {
	if err := core.ValidateTenantID(tenantID); err != nil {
		idx.logger.Warn("search with invalid tenant", "err", err)
		return nil
	}
	if query == "" || topK <= 0 {
		return nil
	}

	vector, err := idx.embedder.EmbedText(ctx, query)
	if err != nil {
		idx.logger.Error("error embedding query", "tenant", tenantID, "err", err)
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	scored, err := idx.entries.FindSimilar(ctx, tenantID, vector, topK)
	if err != nil {
		idx.logger.Error("error searching entries", "tenant", tenantID, "err", err)
		return nil
	}

	results := make([]core.ScoredEntry, len(scored))
	for i, s := range scored {
		results[i] = *s
	}
	return results
}

// Release releases the worker pool.
// The index should not be used after calling Release.
func (idx *Index) Release() {
	if idx.pool != nil {
		idx.pool.Release()
	}
}
