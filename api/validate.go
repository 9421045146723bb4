package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/ledger-engine/ledger"
)

// ErrInvalidInput is the sentinel behind every request validation failure.
var ErrInvalidInput = errors.New("invalid input")

// FieldError is a problem with one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InvalidInputError collects every field problem found in a request.
type InvalidInputError struct {
	Fields []FieldError
}

func (e *InvalidInputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("invalid input: %s", strings.Join(parts, "; "))
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

func (e *InvalidInputError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *InvalidInputError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidTransaction is a TransactionRequest that passed validation.
type ValidTransaction struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        ledger.Date // zero means today
	IsIncome    bool
}

// Validate checks the request and converts it. Amount may be a JSON number
// or a decimal string; it must be finite and strictly positive.
func (r TransactionRequest) Validate() (ValidTransaction, error) {
	var v ValidTransaction
	problems := &InvalidInputError{}

	amount, msg := parseAmount(r.Amount)
	if msg != "" {
		problems.add("amount", msg)
	}
	v.Amount = amount

	v.Category = strings.TrimSpace(r.Category)
	if v.Category == "" {
		problems.add("category", "is required")
	}
	v.Description = strings.TrimSpace(r.Description)
	if v.Description == "" {
		problems.add("description", "is required")
	}

	if d := strings.TrimSpace(r.Date); d != "" {
		date, err := ledger.ParseDate(d)
		if err != nil {
			problems.add("date", "must be YYYY-MM-DD")
		}
		v.Date = date
	}

	switch strings.ToLower(strings.TrimSpace(r.Type)) {
	case string(ledger.KindIncome):
		v.IsIncome = true
	case string(ledger.KindExpense):
	default:
		problems.add("type", "must be income or expense")
	}

	return v, problems.orNil()
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, "is required"
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, "must be a number"
		}
	} else {
		s = string(raw)
	}

	// decimal.NewFromString rejects NaN and Inf, so anything parsed is finite.
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, "must be a number"
	}
	if !d.IsPositive() {
		return decimal.Zero, "must be positive"
	}
	return d, ""
}

// parseUsageQuery validates the category and budget query parameters.
func parseUsageQuery(category, budget string) (string, decimal.Decimal, error) {
	problems := &InvalidInputError{}
	category = strings.TrimSpace(category)
	if category == "" {
		problems.add("category", "is required")
	}
	b, err := decimal.NewFromString(strings.TrimSpace(budget))
	if err != nil {
		problems.add("budget", "must be a number")
	}
	return category, b, problems.orNil()
}
