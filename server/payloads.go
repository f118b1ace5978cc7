package server

import "github.com/poiesic/finsight/core"

// transactionPayload mirrors the upstream record shape. Field names are
// part of the wire contract with existing clients.
type transactionPayload struct {
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Category      string  `json:"category"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         string  `json:"notes"`
}

type budgetPayload struct {
	Month        string  `json:"month"`
	Category     string  `json:"category"`
	BudgetAmount float64 `json:"budgetAmount"`
	Notes        string  `json:"notes"`
}

type balanceSheetPayload struct {
	Date               string  `json:"date"`
	CurrentAssets      float64 `json:"currentAssets"`
	CurrentLiabilities float64 `json:"currentLiabilities"`
	TotalLiabilities   float64 `json:"totalLiabilities"`
	TotalEquity        float64 `json:"totalEquity"`
	Notes              string  `json:"notes"`
}

type syncRequest struct {
	UserID        string                `json:"user_id"`
	Transactions  []transactionPayload  `json:"transactions"`
	Budgets       []budgetPayload       `json:"budgets"`
	BalanceSheets []balanceSheetPayload `json:"balance_sheets"`
}

type syncResponse struct {
	Status        string `json:"status"`
	VectorsStored int    `json:"vectors_stored"`
}

type chatRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Model   string `json:"model"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (p transactionPayload) toDomain() core.Transaction {
	return core.Transaction{
		Date:          p.Date,
		Amount:        p.Amount,
		Type:          p.Type,
		Category:      p.Category,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
	}
}

func (p budgetPayload) toDomain() core.Budget {
	return core.Budget{
		Month:        p.Month,
		Category:     p.Category,
		BudgetAmount: p.BudgetAmount,
		Notes:        p.Notes,
	}
}

func (p balanceSheetPayload) toDomain() core.BalanceSheet {
	return core.BalanceSheet{
		Date:               p.Date,
		CurrentAssets:      p.CurrentAssets,
		CurrentLiabilities: p.CurrentLiabilities,
		TotalLiabilities:   p.TotalLiabilities,
		TotalEquity:        p.TotalEquity,
		Notes:              p.Notes,
	}
}
