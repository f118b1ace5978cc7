package core

import (
	"errors"
	"testing"
)

func TestValidateTenantID(t *testing.T) {
	tests := []struct {
		name     string
		tenantID string
		wantErr  error
	}{
		{
			name:     "valid id",
			tenantID: "u1",
			wantErr:  nil,
		},
		{
			name:     "valid object id",
			tenantID: "64b7f3a2e4b0c8a1d2f3e4b5",
			wantErr:  nil,
		},
		{
			name:     "empty",
			tenantID: "",
			wantErr:  ErrInvalidTenantID,
		},
		{
			name:     "whitespace only",
			tenantID: "   ",
			wantErr:  ErrInvalidTenantID,
		},
		{
			name:     "contains colon",
			tenantID: "u1:u2",
			wantErr:  ErrInvalidTenantID,
		},
		{
			name:     "contains control character",
			tenantID: "u1\x00",
			wantErr:  ErrInvalidTenantID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTenantID(tt.tenantID)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTenantID(%q) = %v, want nil", tt.tenantID, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTenantID(%q) = %v, want %v", tt.tenantID, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &Chunk{
				Text: "MONTH SUMMARY (FINANCIAL) Month: July 2025",
				Meta: MonthlySummaryMeta{Month: "2025-07", Year: "2025"},
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "empty text",
			chunk: &Chunk{
				Meta: MonthlySummaryMeta{Month: "2025-07", Year: "2025"},
			},
			wantErr: ErrEmptyChunkText,
		},
		{
			name: "missing metadata",
			chunk: &Chunk{
				Text: "some text",
			},
			wantErr: ErrMissingChunkMeta,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEntry(t *testing.T) {
	valid := &IndexedEntry{
		Id:       1,
		TenantID: "u1",
		Chunk: Chunk{
			Text: "BALANCE SHEET SNAPSHOT Date: 05 July 2025",
			Meta: BalanceSheetMeta{Date: "2025-07-05"},
		},
	}
	if err := ValidateEntry(valid); err != nil {
		t.Errorf("ValidateEntry(valid) = %v, want nil", err)
	}

	if err := ValidateEntry(nil); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("ValidateEntry(nil) = %v, want %v", err, ErrInvalidEntry)
	}

	missingTenant := &IndexedEntry{Chunk: valid.Chunk}
	if err := ValidateEntry(missingTenant); !errors.Is(err, ErrInvalidTenantID) {
		t.Errorf("ValidateEntry(missing tenant) = %v, want %v", err, ErrInvalidTenantID)
	}

	badChunk := &IndexedEntry{TenantID: "u1"}
	if err := ValidateEntry(badChunk); !errors.Is(err, ErrEmptyChunkText) {
		t.Errorf("ValidateEntry(bad chunk) = %v, want %v", err, ErrEmptyChunkText)
	}
}
