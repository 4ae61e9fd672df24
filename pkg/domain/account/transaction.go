package account

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether a transaction increases or decreases the balance.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Credit || t == Debit
}

// ParseTransactionType parses "credit" or "debit".
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// Transaction is a single immutable statement line.
type Transaction struct {
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Type        TransactionType `json:"type"`
}

// NewCredit builds a credit transaction stamped at createdAt.
func NewCredit(description string, amount decimal.Decimal, createdAt time.Time) Transaction {
	return Transaction{
		Description: description,
		Amount:      amount,
		CreatedAt:   createdAt,
		Type:        Credit,
	}
}

// NewDebit builds a debit transaction stamped at createdAt. Debits carry no description.
func NewDebit(amount decimal.Decimal, createdAt time.Time) Transaction {
	return Transaction{
		Amount:    amount,
		CreatedAt: createdAt,
		Type:      Debit,
	}
}

// Signed returns the amount with the sign it contributes to a balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}
