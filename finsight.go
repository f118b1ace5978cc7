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


// Package finsight is a tenant-scoped retrieval pipeline for financial
// dialogue. It turns a tenant's raw financial records into retrievable
// text chunks and answers questions grounded on them.
package finsight

import (
	"context"
	"log/slog"

	"github.com/poiesic/finsight/ai"
	"github.com/poiesic/finsight/ai/openai"
	"github.com/poiesic/finsight/chunk"
	"github.com/poiesic/finsight/core"
	"github.com/poiesic/finsight/dialog"
	"github.com/poiesic/finsight/index"
	"github.com/poiesic/finsight/storage"
	badgerstore "github.com/poiesic/finsight/storage/badger"
)

// Assistant composes the full pipeline: storage backend, vector index,
// AI provider, and dialogue router. It is the single entry point for
// syncing a tenant's records and chatting over them.
type Assistant struct {
	backend  *badgerstore.Backend
	entries  storage.EntryRepository
	idx      *index.Index
	provider ai.AIProvider
	router   *dialog.Router
	logger   *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig     *ai.Config
	databasePath string
	provider     ai.AIProvider
	topK         int
}

// WithAIConfig sets the AI service configuration.
// Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.aiConfig = config
	}
}

// WithDatabasePath stores entries on disk at the given path.
// Default is an in-memory database.
func WithDatabasePath(path string) AssistantOption {
	return func(o *assistantOptions) {
		o.databasePath = path
	}
}

// WithProvider supplies a pre-built AI provider, bypassing the
// OpenAI-compatible default. The assistant takes ownership and closes it.
func WithProvider(provider ai.AIProvider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithTopK sets how many entries retrieval requests per chat turn.
func WithTopK(topK int) AssistantOption {
	return func(o *assistantOptions) {
		o.topK = topK
	}
}

// NewAssistant creates a fully wired assistant. Nothing is usable before
// this returns; afterwards Sync and Chat may be called concurrently.
func NewAssistant(opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
		topK:     0, // router default applies
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badgerstore.OpenBackend(options.databasePath, options.databasePath == "")
	if err != nil {
		return nil, err
	}

	entries, err := badgerstore.NewEntryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			entries.Close()
			backend.Close()
			return nil, err
		}
	}

	idx, err := index.New(entries, provider)
	if err != nil {
		provider.Close()
		entries.Close()
		backend.Close()
		return nil, err
	}

	routerOpts := []dialog.Option{}
	if options.topK > 0 {
		routerOpts = append(routerOpts, dialog.WithTopK(options.topK))
	}
	router, err := dialog.NewRouter(idx, provider.Generator(), routerOpts...)
	if err != nil {
		idx.Release()
		provider.Close()
		entries.Close()
		backend.Close()
		return nil, err
	}

	return &Assistant{
		backend:  backend,
		entries:  entries,
		idx:      idx,
		provider: provider,
		router:   router,
		logger:   slog.Default(),
	}, nil
}

// Sync replaces a tenant's indexed data with chunks built from the given
// records. Existing entries are deleted first, so a sync is a full
// snapshot, not an append. Returns the number of entries stored.
//
// Empty inputs are a valid sync: they clear the tenant.
func (a *Assistant) Sync(ctx context.Context, tenantID string, transactions []core.Transaction, budgets []core.Budget, sheets []core.BalanceSheet) (int, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return 0, err
	}

	chunks := chunk.BuildChunks(transactions, budgets, sheets)

	a.idx.DeleteTenant(ctx, tenantID)

	stored, err := a.idx.Add(ctx, tenantID, chunks)
	if err != nil {
		return 0, err
	}

	a.logger.Info("tenant data synced", "tenant", tenantID, "entries", stored)
	return stored, nil
}

// Chat answers a single dialogue turn for a tenant.
func (a *Assistant) Chat(ctx context.Context, tenantID, message string) (string, error) {
	return a.router.HandleTurn(ctx, tenantID, message)
}

// Index exposes the vector index for direct retrieval.
func (a *Assistant) Index() *index.Index {
	return a.idx
}

// EntryRepository exposes the underlying entry repository.
func (a *Assistant) EntryRepository() storage.EntryRepository {
	return a.entries
}

// Close releases all resources in reverse construction order.
func (a *Assistant) Close() error {
	a.idx.Release()

	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.entries.Close(); err != nil {
		a.logger.Error("error closing entry repository", "err", err)
		return err
	}

	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
