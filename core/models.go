package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for indexed entries.
// It is generated using content-based hashing, so identical content
// produces identical IDs and re-indexing the same data is idempotent.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// EntryIDFor derives the index entry ID for a chunk owned by a tenant.
// The tenant ID participates in the hash so identical chunk text for two
// tenants never collides into one entry.
func EntryIDFor(tenantID, text string) ID {
	return IDFromContent(tenantID + "\x1f" + text)
}

// TransactionTypeIncome is the transaction type counted as income.
// Every other type value is treated as an expense when aggregating.
const TransactionTypeIncome = "income"

// Transaction is a single financial transaction as synced from the
// upstream record store. Date is kept as the raw source string; parsing
// happens during chunking and unparseable dates degrade gracefully.
type Transaction struct {
	Date          string
	Amount        float64
	Type          string // "income" or "expense"
	Category      string
	Status        string
	PaymentMethod string
	Notes         string
}

// Budget is a per-month, per-category budget allocation.
type Budget struct {
	Month        string // month key as provided upstream, e.g. "2025-07"
	Category     string
	BudgetAmount float64
	Notes        string
}

// BalanceSheet is a point-in-time snapshot of a user's financial position.
type BalanceSheet struct {
	Date               string
	CurrentAssets      float64
	CurrentLiabilities float64
	TotalLiabilities   float64
	TotalEquity        float64
	Notes              string
}
