package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "MONTHLY TRANSACTION OVERVIEW Month: July 2025 Total Income: 0 Total Expense: 200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestEntryIDFor_TenantScoped(t *testing.T) {
	text := "MONTH SUMMARY (FINANCIAL) Month: July 2025"

	if EntryIDFor("u1", text) == EntryIDFor("u2", text) {
		t.Errorf("EntryIDFor() produced same ID for different tenants")
	}
	if EntryIDFor("u1", text) != EntryIDFor("u1", text) {
		t.Errorf("EntryIDFor() is not deterministic")
	}
}

func TestChunkKind_String(t *testing.T) {
	tests := []struct {
		kind ChunkKind
		want string
	}{
		{ChunkMonthlyTransaction, "monthly_transaction"},
		{ChunkMonthlySummary, "monthly_summary"},
		{ChunkMonthlyBudget, "monthly_budget"},
		{ChunkBalanceSheet, "balance_sheet"},
		{ChunkKind(0), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("ChunkKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChunkMeta_Kinds(t *testing.T) {
	metas := []ChunkMeta{
		MonthlyTransactionMeta{Month: "2025-07", Year: "2025"},
		MonthlySummaryMeta{Month: "2025-07", Year: "2025"},
		MonthlyBudgetMeta{Month: "2025-07"},
		BalanceSheetMeta{Date: "2025-07-05"},
	}
	wants := []ChunkKind{
		ChunkMonthlyTransaction,
		ChunkMonthlySummary,
		ChunkMonthlyBudget,
		ChunkBalanceSheet,
	}

	for i, meta := range metas {
		if meta.Kind() != wants[i] {
			t.Errorf("meta %T reports kind %v, want %v", meta, meta.Kind(), wants[i])
		}
	}
}
