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


// Package storage provides the storage abstraction layer for finsight.
//
// This package defines the repository interface that decouples storage
// implementation from business logic. It allows for different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructors
//
// Consumers hold the storage.EntryRepository interface; the badger
// sub-package provides the implementation:
//
//	backend, err := badger.OpenBackend(path, false)
//	repo, err := badger.NewEntryRepository(backend)
//
// Tests use badger.NewMemoryRepository, which returns the interface
// directly over an in-memory backend.
//
// # Tenant Scoping
//
// Every repository operation names a tenant. Implementations must scope
// reads and writes so that a tenant can never observe another tenant's
// entries, regardless of query contents. The BadgerDB backend enforces
// this through key prefixes.
//
// # Serialization
//
// Entries are serialized with the MUS binary format. Chunk metadata is a
// tagged variant: a kind tag precedes the kind-specific fields so the
// decoder reconstructs the concrete metadata type.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
