package chunk

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/finsight/core"
)

// unknownBucket collects records whose month cannot be determined.
const unknownBucket = "unknown"

// BuildChunks converts a tenant's financial records into an ordered sequence
// of semantic chunks. It never fails: malformed records degrade into the
// unknown bucket or a raw-string rendering instead of aborting the batch.
func BuildChunks(transactions []core.Transaction, budgets []core.Budget, sheets []core.BalanceSheet) []core.Chunk {
	var chunks []core.Chunk

	txMonths, txByMonth := groupTransactions(transactions)
	for _, month := range txMonths {
		chunks = append(chunks, monthlyTransactionChunk(month, txByMonth[month]))
	}
	for _, month := range txMonths {
		chunks = append(chunks, monthlySummaryChunk(month, txByMonth[month]))
	}

	budgetMonths, budgetsByMonth := groupBudgets(budgets)
	for _, month := range budgetMonths {
		chunks = append(chunks, monthlyBudgetChunk(month, budgetsByMonth[month]))
	}

	for _, sheet := range sheets {
		chunks = append(chunks, balanceSheetChunk(sheet))
	}

	return chunks
}

// groupTransactions buckets transactions by year-month key in first-seen
// order. Unparseable dates go to the unknown bucket rather than being
// dropped.
func groupTransactions(transactions []core.Transaction) ([]string, map[string][]core.Transaction) {
	var months []string
	byMonth := make(map[string][]core.Transaction)
	for _, tx := range transactions {
		key := unknownBucket
		if d, ok := parseDate(tx.Date); ok {
			key = d.Format("2006-01")
		}
		if _, seen := byMonth[key]; !seen {
			months = append(months, key)
		}
		byMonth[key] = append(byMonth[key], tx)
	}
	return months, byMonth
}

// groupBudgets buckets budgets by their month key verbatim, in first-seen
// order. No date parsing: the upstream month string is the key.
func groupBudgets(budgets []core.Budget) ([]string, map[string][]core.Budget) {
	var months []string
	byMonth := make(map[string][]core.Budget)
	for _, b := range budgets {
		key := b.Month
		if key == "" {
			key = unknownBucket
		}
		if _, seen := byMonth[key]; !seen {
			months = append(months, key)
		}
		byMonth[key] = append(byMonth[key], b)
	}
	return months, byMonth
}

func monthlyTransactionChunk(month string, transactions []core.Transaction) core.Chunk {
	label, year := monthLabel(month)

	var totalIncome, totalExpense float64
	var categories []string
	categoryTotals := make(map[string]float64)
	var lines []string

	for _, tx := range transactions {
		if tx.Type == core.TransactionTypeIncome {
			totalIncome += tx.Amount
		} else {
			totalExpense += tx.Amount
		}

		if _, seen := categoryTotals[tx.Category]; !seen {
			categories = append(categories, tx.Category)
		}
		categoryTotals[tx.Category] += tx.Amount

		lines = append(lines, fmt.Sprintf("- [%s] %s | %s | Category: %s | Status: %s | Payment: %s",
			readableDate(tx.Date),
			strings.ToUpper(tx.Type),
			formatAmount(tx.Amount),
			tx.Category,
			tx.Status,
			tx.PaymentMethod))
	}

	var categoryLines []string
	for _, cat := range categories {
		categoryLines = append(categoryLines, fmt.Sprintf("- %s: %s", cat, formatAmount(categoryTotals[cat])))
	}

	text := fmt.Sprintf(`MONTHLY TRANSACTION OVERVIEW
		Month: %s

		Total Income: %s
		Total Expense: %s
		Net Savings: %s

		Category Summary:
		%s

		All Transactions:
		%s

		Meaning:
		This chunk summarizes ALL transactions of %s.`,
		label,
		formatAmount(totalIncome),
		formatAmount(totalExpense),
		formatAmount(totalIncome-totalExpense),
		strings.Join(categoryLines, "\n"),
		strings.Join(lines, "\n"),
		label)

	return core.Chunk{
		Text: normalize(text),
		Meta: core.MonthlyTransactionMeta{Month: month, Year: year},
	}
}

func monthlySummaryChunk(month string, transactions []core.Transaction) core.Chunk {
	label, year := monthLabel(month)

	var totalIncome, totalExpense float64
	for _, tx := range transactions {
		if tx.Type == core.TransactionTypeIncome {
			totalIncome += tx.Amount
		} else {
			totalExpense += tx.Amount
		}
	}

	text := fmt.Sprintf(`MONTH SUMMARY (FINANCIAL)
		Month: %s
		Total Income: %s
		Total Expense: %s
		Net Flow: %s

		Meaning: Use this for fast monthly financial questions.`,
		label,
		formatAmount(totalIncome),
		formatAmount(totalExpense),
		formatAmount(totalIncome-totalExpense))

	return core.Chunk{
		Text: normalize(text),
		Meta: core.MonthlySummaryMeta{Month: month, Year: year},
	}
}

func monthlyBudgetChunk(month string, budgets []core.Budget) core.Chunk {
	var lines []string
	for _, b := range budgets {
		lines = append(lines, fmt.Sprintf("- %s -> Budget: %s | Notes: %s",
			b.Category, formatAmount(b.BudgetAmount), notesOrNone(b.Notes)))
	}

	text := fmt.Sprintf(`MONTHLY BUDGET OVERVIEW
		Month: %s

		Budgets:
		%s

		Meaning:
		This contains ALL budget allocations for %s.`,
		month,
		strings.Join(lines, "\n"),
		month)

	return core.Chunk{
		Text: normalize(text),
		Meta: core.MonthlyBudgetMeta{Month: month},
	}
}

func balanceSheetChunk(sheet core.BalanceSheet) core.Chunk {
	date := readableDate(sheet.Date)

	text := fmt.Sprintf(`BALANCE SHEET SNAPSHOT
		Date: %s
		Current Assets: %s
		Current Liabilities: %s
		Total Liabilities: %s
		Total Equity: %s
		Notes: %s

		Meaning:
		This represents the user's financial position on %s.`,
		date,
		formatAmount(sheet.CurrentAssets),
		formatAmount(sheet.CurrentLiabilities),
		formatAmount(sheet.TotalLiabilities),
		formatAmount(sheet.TotalEquity),
		notesOrNone(sheet.Notes),
		date)

	return core.Chunk{
		Text: normalize(text),
		Meta: core.BalanceSheetMeta{Date: sheet.Date},
	}
}

// dateLayouts are tried in order when parsing record dates. Upstream sends
// either bare dates or ISO timestamps.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// readableDate renders a date in long form ("05 July 2025"). Unparseable
// dates fall back to the raw string so a bad date never fails a chunk.
func readableDate(raw string) string {
	if d, ok := parseDate(raw); ok {
		return d.Format("02 January 2006")
	}
	if strings.TrimSpace(raw) == "" {
		return "Unknown date"
	}
	return raw
}

// monthLabel renders a year-month key as a human-readable label plus its
// year component. The unknown bucket renders as-is.
func monthLabel(month string) (label, year string) {
	if d, err := time.Parse("2006-01", month); err == nil {
		return d.Format("January 2006"), d.Format("2006")
	}
	return month, unknownBucket
}

// formatAmount renders a monetary amount without a trailing ".0" for whole
// values.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func notesOrNone(notes string) string {
	if strings.TrimSpace(notes) == "" {
		return "None"
	}
	return notes
}

// normalize collapses every run of whitespace, newlines included, into a
// single space.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
