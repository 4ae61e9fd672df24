// Package client is a small HTTP client for the ledger API built on the
// Fiber agent.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/amirasaad/cpfledger/pkg/date"
	"github.com/amirasaad/cpfledger/pkg/domain"
	"github.com/amirasaad/cpfledger/pkg/domain/account"
	accountweb "github.com/amirasaad/cpfledger/webapi/account"
	"github.com/amirasaad/cpfledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 10 * time.Second

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Problem common.ProblemDetails
}

func (e *APIError) Error() string {
	if e.Problem.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Problem.Title, e.Problem.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Problem.Title)
}

// Unwrap maps the response back to the domain error it was rendered from so
// callers can use errors.Is.
func (e *APIError) Unwrap() error {
	if e.Status == fiber.StatusNotFound {
		return domain.ErrAccountNotFound
	}
	for _, known := range []error{domain.ErrDuplicateAccount, domain.ErrInsufficientFunds, domain.ErrNegativeAmount} {
		if strings.Contains(e.Problem.Detail, known.Error()) {
			return known
		}
	}
	return nil
}

// Client talks to a running ledger server.
type Client struct {
	baseURL string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New returns a client for the server at baseURL, e.g. http://localhost:3000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates a customer.
func (c *Client) Register(ctx context.Context, cpf, name string) error {
	return c.do(ctx, fiber.MethodPost, "/account", "", accountweb.RegisterRequest{CPF: cpf, Name: name}, nil)
}

// Account fetches a customer with its balance.
func (c *Client) Account(ctx context.Context, cpf string) (*accountweb.AccountResponse, error) {
	var out accountweb.AccountResponse
	if err := c.do(ctx, fiber.MethodGet, "/account", cpf, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Rename changes the customer name.
func (c *Client) Rename(ctx context.Context, cpf, name string) error {
	return c.do(ctx, fiber.MethodPut, "/account", cpf, accountweb.UpdateNameRequest{Name: name}, nil)
}

// Remove deletes the customer.
func (c *Client) Remove(ctx context.Context, cpf string) error {
	return c.do(ctx, fiber.MethodDelete, "/account", cpf, nil, nil)
}

// Deposit credits amount.
func (c *Client) Deposit(ctx context.Context, cpf, description string, amount decimal.Decimal) error {
	body := accountweb.DepositRequest{Description: description, Amount: &amount}
	return c.do(ctx, fiber.MethodPost, "/deposit", cpf, body, nil)
}

// Withdraw debits amount.
func (c *Client) Withdraw(ctx context.Context, cpf string, amount decimal.Decimal) error {
	return c.do(ctx, fiber.MethodPost, "/withdraw", cpf, accountweb.WithdrawRequest{Amount: &amount}, nil)
}

// Statement lists every transaction.
func (c *Client) Statement(ctx context.Context, cpf string) ([]account.Transaction, error) {
	var out []account.Transaction
	if err := c.do(ctx, fiber.MethodGet, "/statement", cpf, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StatementByDate lists the transactions of one day.
func (c *Client) StatementByDate(ctx context.Context, cpf string, day date.Date) ([]account.Transaction, error) {
	var out []account.Transaction
	path := "/statement/date?date=" + url.QueryEscape(day.String())
	if err := c.do(ctx, fiber.MethodGet, path, cpf, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Balance returns the current balance.
func (c *Client) Balance(ctx context.Context, cpf string) (decimal.Decimal, error) {
	var out accountweb.BalanceResponse
	if err := c.do(ctx, fiber.MethodGet, "/balance", cpf, nil, &out); err != nil {
		return decimal.Zero, err
	}
	return out.Balance, nil
}

func (c *Client) do(ctx context.Context, method, path, cpf string, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	agent.Timeout(timeout)
	if cpf != "" {
		agent.Set(common.CPFHeader, cpf)
	}
	if in != nil {
		agent.JSON(in)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if status >= fiber.StatusBadRequest {
		apiErr := &APIError{Status: status}
		if err := json.Unmarshal(body, &apiErr.Problem); err != nil {
			apiErr.Problem.Title = strings.TrimSpace(string(body))
		}
		return apiErr
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
