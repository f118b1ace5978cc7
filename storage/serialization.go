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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/finsight/core"
)

// vectorMUS serializes embedding vectors as length-prefixed float32 slices.
var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	return core.ID(v), err
}

// MarshalEntry serializes an IndexedEntry to bytes.
//
// Layout: id, tenant, text, meta kind tag, kind-specific meta fields,
// vector, inserted-at as unix micros. Metadata is written as a tagged
// variant so the decoder reconstructs the concrete ChunkMeta type.
func MarshalEntry(entry *core.IndexedEntry) ([]byte, error) {
	kind := entry.Chunk.Meta.Kind()
	micros := entry.InsertedAt.UnixMicro()

	size := varint.Uint64.Size(uint64(entry.Id)) +
		ord.String.Size(entry.TenantID) +
		ord.String.Size(entry.Chunk.Text) +
		varint.Uint64.Size(uint64(kind)) +
		metaSize(entry.Chunk.Meta) +
		vectorMUS.Size(entry.Vector) +
		varint.Int64.Size(micros)

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(entry.Id), buf)
	n += ord.String.Marshal(entry.TenantID, buf[n:])
	n += ord.String.Marshal(entry.Chunk.Text, buf[n:])
	n += varint.Uint64.Marshal(uint64(kind), buf[n:])
	n += marshalMeta(entry.Chunk.Meta, buf[n:])
	n += vectorMUS.Marshal(entry.Vector, buf[n:])
	varint.Int64.Marshal(micros, buf[n:])
	return buf, nil
}

// UnmarshalEntry deserializes an IndexedEntry from bytes.
func UnmarshalEntry(data []byte) (*core.IndexedEntry, error) {
	entry := &core.IndexedEntry{}

	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	entry.Id = core.ID(id)

	tenant, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: tenant: %w", ErrSerializationFailed, err)
	}
	n += m
	entry.TenantID = tenant

	text, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: text: %w", ErrSerializationFailed, err)
	}
	n += m
	entry.Chunk.Text = text

	kind, m, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: kind: %w", ErrSerializationFailed, err)
	}
	n += m

	meta, m, err := unmarshalMeta(core.ChunkKind(kind), data[n:])
	if err != nil {
		return nil, err
	}
	n += m
	entry.Chunk.Meta = meta

	vector, m, err := vectorMUS.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: vector: %w", ErrSerializationFailed, err)
	}
	n += m
	entry.Vector = vector

	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: inserted at: %w", ErrSerializationFailed, err)
	}
	entry.InsertedAt = time.UnixMicro(micros).UTC()

	return entry, nil
}

func metaSize(meta core.ChunkMeta) int {
	switch m := meta.(type) {
	case core.MonthlyTransactionMeta:
		return ord.String.Size(m.Month) + ord.String.Size(m.Year)
	case core.MonthlySummaryMeta:
		return ord.String.Size(m.Month) + ord.String.Size(m.Year)
	case core.MonthlyBudgetMeta:
		return ord.String.Size(m.Month)
	case core.BalanceSheetMeta:
		return ord.String.Size(m.Date)
	default:
		return 0
	}
}

func marshalMeta(meta core.ChunkMeta, buf []byte) int {
	switch m := meta.(type) {
	case core.MonthlyTransactionMeta:
		n := ord.String.Marshal(m.Month, buf)
		return n + ord.String.Marshal(m.Year, buf[n:])
	case core.MonthlySummaryMeta:
		n := ord.String.Marshal(m.Month, buf)
		return n + ord.String.Marshal(m.Year, buf[n:])
	case core.MonthlyBudgetMeta:
		return ord.String.Marshal(m.Month, buf)
	case core.BalanceSheetMeta:
		return ord.String.Marshal(m.Date, buf)
	default:
		return 0
	}
}

func unmarshalMeta(kind core.ChunkKind, data []byte) (core.ChunkMeta, int, error) {
	switch kind {
	case core.ChunkMonthlyTransaction:
		month, n, err := ord.String.Unmarshal(data)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: meta month: %w", ErrSerializationFailed, err)
		}
		year, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: meta year: %w", ErrSerializationFailed, err)
		}
		return core.MonthlyTransactionMeta{Month: month, Year: year}, n + m, nil
	case core.ChunkMonthlySummary:
		month, n, err := ord.String.Unmarshal(data)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: meta month: %w", ErrSerializationFailed, err)
		}
		year, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: meta year: %w", ErrSerializationFailed, err)
		}
		return core.MonthlySummaryMeta{Month: month, Year: year}, n + m, nil
	case core.ChunkMonthlyBudget:
		month, n, err := ord.String.Unmarshal(data)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: meta month: %w", ErrSerializationFailed, err)
		}
		return core.MonthlyBudgetMeta{Month: month}, n, nil
	case core.ChunkBalanceSheet:
		date, n, err := ord.String.Unmarshal(data)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: meta date: %w", ErrSerializationFailed, err)
		}
		return core.BalanceSheetMeta{Date: date}, n, nil
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownChunkKind, kind)
	}
}
