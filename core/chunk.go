package core

import "time"

// ChunkKind identifies the shape of a chunk and which metadata it carries.
type ChunkKind int

const (
	// ChunkMonthlyTransaction is the detailed per-month transaction chunk.
	ChunkMonthlyTransaction ChunkKind = iota + 1
	// ChunkMonthlySummary is the short per-month totals chunk.
	ChunkMonthlySummary
	// ChunkMonthlyBudget is the per-month budget allocation chunk.
	ChunkMonthlyBudget
	// ChunkBalanceSheet is the per-snapshot balance sheet chunk.
	ChunkBalanceSheet
)

// String returns the wire name of the chunk kind.
func (k ChunkKind) String() string {
	switch k {
	case ChunkMonthlyTransaction:
		return "monthly_transaction"
	case ChunkMonthlySummary:
		return "monthly_summary"
	case ChunkMonthlyBudget:
		return "monthly_budget"
	case ChunkBalanceSheet:
		return "balance_sheet"
	default:
		return "unknown"
	}
}

// ChunkMeta is the tagged metadata variant attached to a chunk. Each kind
// carries only the fields that kind needs, so the metadata shape is
// checked at compile time instead of living in a loose string map.
type ChunkMeta interface {
	Kind() ChunkKind
}

// MonthlyTransactionMeta tags a detailed monthly transaction chunk.
type MonthlyTransactionMeta struct {
	Month string // year-month key, e.g. "2025-07", or "unknown"
	Year  string
}

// Kind implements ChunkMeta.
func (MonthlyTransactionMeta) Kind() ChunkKind { return ChunkMonthlyTransaction }

// MonthlySummaryMeta tags a short monthly totals chunk.
type MonthlySummaryMeta struct {
	Month string
	Year  string
}

// Kind implements ChunkMeta.
func (MonthlySummaryMeta) Kind() ChunkKind { return ChunkMonthlySummary }

// MonthlyBudgetMeta tags a monthly budget chunk.
type MonthlyBudgetMeta struct {
	Month string
}

// Kind implements ChunkMeta.
func (MonthlyBudgetMeta) Kind() ChunkKind { return ChunkMonthlyBudget }

// BalanceSheetMeta tags a balance sheet snapshot chunk.
type BalanceSheetMeta struct {
	Date string // raw source date string
}

// Kind implements ChunkMeta.
func (BalanceSheetMeta) Kind() ChunkKind { return ChunkBalanceSheet }

// Chunk is the unit of retrieval: normalized, self-describing text plus
// its tagged metadata. Chunks exist only as index entries; they are never
// stored independently of the index.
type Chunk struct {
	Text string
	Meta ChunkMeta
}

// IndexedEntry is a chunk bound to a tenant and an embedding vector. It is
// owned exclusively by the vector index for its lifetime: created on add,
// destroyed on tenant delete or index teardown. TenantID is mandatory and
// is the tenant-isolation boundary.
type IndexedEntry struct {
	Id         ID
	TenantID   string
	Chunk      Chunk
	Vector     []float32
	InsertedAt time.Time
}

// ScoredEntry is an indexed entry paired with its similarity score for a
// specific query.
type ScoredEntry struct {
	Entry *IndexedEntry
	Score float32
}
