package account

import (
	"log/slog"

	"github.com/amirasaad/cpfledger/pkg/date"
	accountsvc "github.com/amirasaad/cpfledger/pkg/service/account"
	"github.com/amirasaad/cpfledger/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers HTTP routes for customer and ledger operations.
// The customer is identified by the cpf header, except for registration
// (body) and the statement alias (path).
//
// Routes:
//   - POST   /account          : Register a customer.
//   - GET    /account          : Fetch the customer with its balance.
//   - PUT    /account          : Rename the customer.
//   - DELETE /account          : Remove the customer.
//   - POST   /deposit          : Credit the account.
//   - POST   /withdraw         : Debit the account.
//   - GET    /statement        : List every transaction.
//   - GET    /statement/date   : List the transactions of one day.
//   - GET    /statement/:cpf   : List every transaction, cpf in the path.
//   - GET    /balance          : Current balance.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{svc: accountSvc, logger: logger.With("handler", "account")}

	app.Post("/account", h.Register)
	app.Get("/account", h.GetAccount)
	app.Put("/account", h.UpdateName)
	app.Delete("/account", h.Remove)
	app.Post("/deposit", h.Deposit)
	app.Post("/withdraw", h.Withdraw)
	app.Get("/statement", h.Statement)
	app.Get("/statement/date", h.StatementByDate)
	app.Get("/statement/:cpf", h.StatementByPath)
	app.Get("/balance", h.Balance)
}

type handlers struct {
	svc    *accountsvc.Service
	logger *slog.Logger
}

// resolve reads the cpf header and checks that the customer exists. On
// failure the problem response is already written and ok is false.
func (h *handlers) resolve(c *fiber.Ctx) (cpf string, ok bool, err error) {
	cpf, err = common.CPF(c)
	if err != nil {
		return "", false, common.ProblemDetailsJSON(c, "Missing customer identifier", err)
	}
	if _, err = h.svc.ResolveAccount(c.UserContext(), cpf); err != nil {
		return "", false, common.ProblemDetailsJSON(c, "Customer not found", err)
	}
	return cpf, true, nil
}

// Register returns a Fiber handler for registering a new customer.
// @Summary Register a customer
// @Description Creates an account for the given CPF with an empty statement.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Customer"
// @Success 201 "Account created"
// @Failure 400 {object} common.ProblemDetails "Invalid request or customer already exists"
// @Failure 429 {object} common.ProblemDetails "Too many requests"
// @Router /account [post]
func (h *handlers) Register(c *fiber.Ctx) error {
	input, err := common.BindAndValidate[RegisterRequest](c)
	if input == nil {
		return err // error response already written
	}
	if _, err := h.svc.Register(c.UserContext(), input.CPF, input.Name); err != nil {
		return common.ProblemDetailsJSON(c, "Failed to register customer", err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// GetAccount returns a Fiber handler for fetching the customer account.
// @Summary Get account
// @Description Returns the account, its statement and the computed balance.
// @Tags accounts
// @Produce json
// @Param cpf header string true "Customer CPF"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} common.ProblemDetails "Missing cpf header"
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /account [get]
func (h *handlers) GetAccount(c *fiber.Ctx) error {
	cpf, err := common.CPF(c)
	if err != nil {
		return common.ProblemDetailsJSON(c, "Missing customer identifier", err)
	}
	acc, err := h.svc.ResolveAccount(c.UserContext(), cpf)
	if err != nil {
		return common.ProblemDetailsJSON(c, "Customer not found", err)
	}
	return c.JSON(toAccountResponse(acc, h.svc.BalanceOf(acc)))
}

// UpdateName returns a Fiber handler for renaming the customer.
// @Summary Rename customer
// @Tags accounts
// @Accept json
// @Param cpf header string true "Customer CPF"
// @Param request body UpdateNameRequest true "New name"
// @Success 201 "Account updated"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /account [put]
func (h *handlers) UpdateName(c *fiber.Ctx) error {
	cpf, ok, err := h.resolve(c)
	if !ok {
		return err
	}
	input, err := common.BindAndValidate[UpdateNameRequest](c)
	if input == nil {
		return err
	}
	if _, err := h.svc.UpdateName(c.UserContext(), cpf, input.Name); err != nil {
		return common.ProblemDetailsJSON(c, "Failed to update customer", err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Remove returns a Fiber handler for deleting the customer.
// @Summary Remove customer
// @Tags accounts
// @Param cpf header string true "Customer CPF"
// @Success 204 "Account removed"
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /account [delete]
func (h *handlers) Remove(c *fiber.Ctx) error {
	cpf, ok, err := h.resolve(c)
	if !ok {
		return err
	}
	if err := h.svc.Remove(c.UserContext(), cpf); err != nil {
		return common.ProblemDetailsJSON(c, "Failed to remove customer", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Deposit returns a Fiber handler for crediting the account.
// @Summary Deposit funds
// @Description Appends a credit transaction to the statement.
// @Tags ledger
// @Accept json
// @Param cpf header string true "Customer CPF"
// @Param request body DepositRequest true "Deposit details"
// @Success 201 "Deposit successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /deposit [post]
func (h *handlers) Deposit(c *fiber.Ctx) error {
	cpf, ok, err := h.resolve(c)
	if !ok {
		return err
	}
	input, err := common.BindAndValidate[DepositRequest](c)
	if input == nil {
		return err
	}
	if _, err := h.svc.Deposit(c.UserContext(), cpf, input.Description, *input.Amount); err != nil {
		return common.ProblemDetailsJSON(c, "Failed to deposit", err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Withdraw returns a Fiber handler for debiting the account.
// @Summary Withdraw funds
// @Description Appends a debit transaction when the balance covers the amount.
// @Tags ledger
// @Accept json
// @Param cpf header string true "Customer CPF"
// @Param request body WithdrawRequest true "Withdrawal details"
// @Success 201 "Withdrawal successful"
// @Failure 400 {object} common.ProblemDetails "Invalid request or insufficient funds"
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /withdraw [post]
func (h *handlers) Withdraw(c *fiber.Ctx) error {
	cpf, ok, err := h.resolve(c)
	if !ok {
		return err
	}
	input, err := common.BindAndValidate[WithdrawRequest](c)
	if input == nil {
		return err
	}
	if _, err := h.svc.Withdraw(c.UserContext(), cpf, *input.Amount); err != nil {
		h.logger.Info("withdraw rejected", "cpf", cpf, "error", err)
		return common.ProblemDetailsJSON(c, "Failed to withdraw", err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Statement returns a Fiber handler listing every transaction.
// @Summary Statement
// @Tags ledger
// @Produce json
// @Param cpf header string true "Customer CPF"
// @Success 200 {array} account.Transaction
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /statement [get]
func (h *handlers) Statement(c *fiber.Ctx) error {
	cpf, ok, err := h.resolve(c)
	if !ok {
		return err
	}
	return h.writeStatement(c, cpf)
}

// StatementByPath returns a Fiber handler listing every transaction of the
// customer named in the path.
// @Summary Statement by path
// @Tags ledger
// @Produce json
// @Param cpf path string true "Customer CPF"
// @Success 200 {array} account.Transaction
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /statement/{cpf} [get]
func (h *handlers) StatementByPath(c *fiber.Ctx) error {
	return h.writeStatement(c, c.Params("cpf"))
}

func (h *handlers) writeStatement(c *fiber.Ctx, cpf string) error {
	statement, err := h.svc.Statement(c.UserContext(), cpf)
	if err != nil {
		return common.ProblemDetailsJSON(c, "Failed to load statement", err)
	}
	return c.JSON(statement)
}

// StatementByDate returns a Fiber handler listing the transactions of one day.
// @Summary Statement by date
// @Description Days are compared in the server's ledger timezone.
// @Tags ledger
// @Produce json
// @Param cpf header string true "Customer CPF"
// @Param date query string true "Day in YYYY-MM-DD"
// @Success 200 {array} account.Transaction
// @Failure 400 {object} common.ProblemDetails "Invalid date"
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /statement/date [get]
func (h *handlers) StatementByDate(c *fiber.Ctx) error {
	cpf, ok, err := h.resolve(c)
	if !ok {
		return err
	}
	day, err := date.Parse(c.Query("date"))
	if err != nil {
		return common.ProblemDetailsJSON(c, "Invalid date", common.ErrInvalidDate, err.Error())
	}
	statement, err := h.svc.StatementByDate(c.UserContext(), cpf, day)
	if err != nil {
		return common.ProblemDetailsJSON(c, "Failed to load statement", err)
	}
	return c.JSON(statement)
}

// Balance returns a Fiber handler for the current balance.
// @Summary Balance
// @Tags ledger
// @Produce json
// @Param cpf header string true "Customer CPF"
// @Success 200 {object} BalanceResponse
// @Failure 404 {object} common.ProblemDetails "Customer not found"
// @Router /balance [get]
func (h *handlers) Balance(c *fiber.Ctx) error {
	cpf, ok, err := h.resolve(c)
	if !ok {
		return err
	}
	balance, err := h.svc.Balance(c.UserContext(), cpf)
	if err != nil {
		return common.ProblemDetailsJSON(c, "Failed to compute balance", err)
	}
	return c.JSON(BalanceResponse{Balance: balance})
}
