package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRequest_Validate(t *testing.T) {
	req := TransactionRequest{
		Amount:      json.RawMessage(`"12.345"`),
		Category:    " Food ",
		Description: "Lunch",
		Type:        "Expense",
	}

	v, err := req.Validate()

	require.NoError(t, err)
	assert.Equal(t, "12.345", v.Amount.String())
	assert.Equal(t, "Food", v.Category)
	assert.False(t, v.IsIncome)
	assert.True(t, v.Date.IsZero())
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{``, "is required"},
		{`null`, "is required"},
		{`0`, "must be positive"},
		{`-1`, "must be positive"},
		{`"NaN"`, "must be a number"},
		{`"Infinity"`, "must be a number"},
		{`"abc"`, "must be a number"},
		{`true`, "must be a number"},
		{`1e2`, ""},
		{`"0.01"`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			_, msg := parseAmount(json.RawMessage(tc.raw))
			assert.Equal(t, tc.want, msg)
		})
	}
}

func TestInvalidInputError_Unwrap(t *testing.T) {
	_, err := TransactionRequest{}.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Len(t, invalid.Fields, 4)
	assert.Contains(t, err.Error(), "amount: is required")
}
