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


package core

import (
	"fmt"
	"strings"
)

// ValidateTenantID validates a tenant identifier.
//
// Validation rules:
//   - must not be empty or whitespace-only
//   - must not contain ':' or control characters (tenant IDs participate
//     in storage key prefixes, so a separator inside the ID could let one
//     tenant's prefix shadow another's)
func ValidateTenantID(tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTenantID)
	}
	for _, r := range tenantID {
		if r == ':' || r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: illegal character %q", ErrInvalidTenantID, r)
		}
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Meta must be present
//
// NOT validated here: text normalization. The chunker is responsible for
// emitting whitespace-collapsed text.
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}
	if chunk.Meta == nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrMissingChunkMeta)
	}
	return nil
}

// ValidateEntry validates an IndexedEntry before it is persisted.
// An entry without a tenant ID must never reach the index.
func ValidateEntry(entry *IndexedEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}
	if err := ValidateTenantID(entry.TenantID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	if err := ValidateChunk(&entry.Chunk); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	return nil
}
