/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the ledger's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Amounts are rendered as JSON numbers. The ledger keeps exact decimals;
  conversion to float happens only here, at the edge.

VALIDATION:
  Validation is done in validate.go, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - validate.go: TransactionRequest checks
  - factory/budget.go: BudgetPlanJSON (setup request body)
*/
package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// TransactionRequest is the body of POST /transactions. Amount stays raw so
// validation can tell a missing amount from a malformed one.
type TransactionRequest struct {
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date,omitempty"`
	Type        string          `json:"type"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// SessionDTO is returned when a session is created.
type SessionDTO struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	UndoDepth int    `json:"undo_depth,omitempty"`
}

// TransactionDTO represents a ledger transaction.
type TransactionDTO struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	IsIncome    bool    `json:"is_income"`
}

// TransactionResponse is returned by add and undo.
type TransactionResponse struct {
	Transaction   TransactionDTO `json:"transaction"`
	Balance       float64        `json:"balance"`
	UndoAvailable int            `json:"undo_available"`
}

// TransactionListResponse is the recent-history view.
type TransactionListResponse struct {
	Transactions []TransactionDTO `json:"transactions"`
	Total        int              `json:"total"`
}

// BalanceDTO is the running balance plus its history.
type BalanceDTO struct {
	Balance        float64   `json:"balance"`
	History        []float64 `json:"history"`
	Transactions   int       `json:"transactions"`
	UndoAvailable  int       `json:"undo_available"`
	FormattedTotal string    `json:"formatted"`
}

// CategoryDTO is one category's aggregate.
type CategoryDTO struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
	Average  float64 `json:"average"`
}

// MonthlyAverageDTO is the average monthly spend.
type MonthlyAverageDTO struct {
	Average   float64 `json:"average"`
	Formatted string  `json:"formatted"`
}

// UsageDTO is one category's spending as a share of a budget.
type UsageDTO struct {
	Category string  `json:"category"`
	Budget   float64 `json:"budget"`
	Spent    float64 `json:"spent"`
	Percent  float64 `json:"percent"`
	Level    string  `json:"level"`
}

// BudgetDTO is the savings projection and per-line usage.
type BudgetDTO struct {
	Income       float64    `json:"income"`
	Budgeted     float64    `json:"budgeted"`
	Savings      float64    `json:"savings"`
	Overspending bool       `json:"overspending"`
	Lines        []UsageDTO `json:"lines"`
}

// SetupResponse is returned after a budget plan is applied.
type SetupResponse struct {
	Transactions []TransactionDTO `json:"transactions"`
	Budget       BudgetDTO        `json:"budget"`
	Balance      float64          `json:"balance"`
}

// DuplicateDTO is one repeated (amount, category, date) pattern.
type DuplicateDTO struct {
	Pattern  string  `json:"pattern"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Count    int     `json:"count"`
}

// OutlierDTO is one unusually large expense.
type OutlierDTO struct {
	Transaction TransactionDTO `json:"transaction"`
	Median      float64        `json:"median"`
	Threshold   float64        `json:"threshold"`
}

// FraudReportDTO is the fraud-scan result.
type FraudReportDTO struct {
	Clean      bool           `json:"clean"`
	Duplicates []DuplicateDTO `json:"duplicates"`
	Outliers   []OutlierDTO   `json:"outliers"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func toTransactionDTO(tx ledger.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          int64(tx.ID),
		Amount:      money(tx.Amount),
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.String(),
		Type:        string(tx.Kind()),
		IsIncome:    tx.IsIncome,
	}
}

func toTransactionDTOs(txs []ledger.Transaction) []TransactionDTO {
	out := make([]TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionDTO(tx))
	}
	return out
}

func toCategoryDTOs(cats []ledger.CategoryTotal) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryDTO{
			Category: c.Category,
			Total:    money(c.Total),
			Count:    c.Count,
			Average:  money(c.Average()),
		})
	}
	return out
}

func toBudgetDTO(plan ledger.BudgetPlan, usage []ledger.LineUsage) BudgetDTO {
	p := plan.Projection()
	dto := BudgetDTO{
		Income:       money(p.Income),
		Budgeted:     money(p.Budgeted),
		Savings:      money(p.Savings),
		Overspending: p.Overspending(),
		Lines:        make([]UsageDTO, 0, len(usage)),
	}
	for _, u := range usage {
		dto.Lines = append(dto.Lines, UsageDTO{
			Category: u.Category,
			Budget:   money(u.Budgeted),
			Spent:    money(u.Spent),
			Percent:  money(u.Percent),
			Level:    string(u.Level),
		})
	}
	return dto
}

func toFraudReportDTO(r ledger.FraudReport) FraudReportDTO {
	dto := FraudReportDTO{
		Clean:      r.Clean(),
		Duplicates: make([]DuplicateDTO, 0, len(r.Duplicates)),
		Outliers:   make([]OutlierDTO, 0, len(r.Outliers)),
	}
	for _, d := range r.Duplicates {
		dto.Duplicates = append(dto.Duplicates, DuplicateDTO{
			Pattern:  d.String(),
			Amount:   money(d.Amount),
			Category: d.Category,
			Date:     d.Date.String(),
			Count:    d.Count,
		})
	}
	for _, o := range r.Outliers {
		dto.Outliers = append(dto.Outliers, OutlierDTO{
			Transaction: toTransactionDTO(o.Transaction),
			Median:      money(o.Median),
			Threshold:   money(o.Threshold),
		})
	}
	return dto
}
