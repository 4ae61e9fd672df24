package account

import (
	"time"

	"github.com/amirasaad/cpfledger/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterRequest represents the request body for registering a customer.
type RegisterRequest struct {
	CPF  string `json:"cpf" validate:"required,max=32"`
	Name string `json:"name" validate:"required,max=128"`
}

// UpdateNameRequest represents the request body for renaming a customer.
type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,max=128"`
}

// DepositRequest represents the request body for depositing funds. Amount
// accepts a JSON number or a numeric string.
type DepositRequest struct {
	Description string           `json:"description" validate:"omitempty,max=255"`
	Amount      *decimal.Decimal `json:"amount" validate:"required" swaggertype:"number"`
}

// WithdrawRequest represents the request body for withdrawing funds.
type WithdrawRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required" swaggertype:"number"`
}

// AccountResponse is the API representation of an account with its balance.
type AccountResponse struct {
	ID        uuid.UUID             `json:"id"`
	CPF       string                `json:"cpf"`
	Name      string                `json:"name"`
	Balance   decimal.Decimal       `json:"balance" swaggertype:"string"`
	Statement []account.Transaction `json:"statement"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// BalanceResponse is the body of GET /balance.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance" swaggertype:"string"`
}

func toAccountResponse(a *account.Account, balance decimal.Decimal) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		CPF:       a.CPF,
		Name:      a.Name,
		Balance:   balance,
		Statement: a.Statement,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
