package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountEvent carries the identity shared by all account events.
type AccountEvent struct {
	AccountID uuid.UUID `json:"account_id"`
	CPF       string    `json:"cpf"`
	Timestamp time.Time `json:"timestamp"`
}

// AccountRegistered is emitted after a new account is stored.
type AccountRegistered struct {
	AccountEvent
	Name string `json:"name"`
}

func (AccountRegistered) Type() string { return EventTypeAccountRegistered.String() }

// AccountRenamed is emitted after the holder name changes.
type AccountRenamed struct {
	AccountEvent
	Name string `json:"name"`
}

func (AccountRenamed) Type() string { return EventTypeAccountRenamed.String() }

// AccountRemoved is emitted after an account is deleted.
type AccountRemoved struct {
	AccountEvent
}

func (AccountRemoved) Type() string { return EventTypeAccountRemoved.String() }

// DepositMade is emitted after a credit is appended.
type DepositMade struct {
	AccountEvent
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

func (DepositMade) Type() string { return EventTypeDepositMade.String() }

// WithdrawalMade is emitted after a debit is appended.
type WithdrawalMade struct {
	AccountEvent
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
}

func (WithdrawalMade) Type() string { return EventTypeWithdrawalMade.String() }
