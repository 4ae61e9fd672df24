package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/amirasaad/cpfledger/pkg/client"
	"github.com/amirasaad/cpfledger/pkg/config"
	"github.com/amirasaad/cpfledger/pkg/date"
	"github.com/amirasaad/cpfledger/pkg/domain"
	"github.com/amirasaad/cpfledger/pkg/domain/account"
	"github.com/fatih/color"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	errColor  = color.New(color.FgRed, color.Bold)
	credColor = color.New(color.FgGreen)
	debColor  = color.New(color.FgRed)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// globals holds the flags shared by every command.
type globals struct {
	url     string
	timeout time.Duration
	out     io.Writer
	errOut  io.Writer
}

func newGlobals(f *flag.FlagSet) *globals {
	g := &globals{out: color.Output, errOut: color.Error}
	f.StringVar(&g.url, "url", config.GetEnv("CPFLEDGER_URL", "http://localhost:3000"), "ledger server base URL")
	f.DurationVar(&g.timeout, "timeout", config.GetEnvAsDuration("CPFLEDGER_TIMEOUT", 10*time.Second), "request timeout")
	return g
}

func (g *globals) client() *client.Client {
	return client.New(g.url, client.WithTimeout(g.timeout))
}

// fail prints err and picks the exit status.
func (g *globals) fail(err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		errColor.Fprintln(g.errOut, "Error: customer not found") //nolint:errcheck
	case errors.Is(err, domain.ErrInsufficientFunds):
		errColor.Fprintln(g.errOut, "Error: insufficient funds") //nolint:errcheck
	default:
		errColor.Fprintf(g.errOut, "Error: %v\n", err) //nolint:errcheck
	}
	return subcommands.ExitFailure
}

func (g *globals) usage(msg string) subcommands.ExitStatus {
	errColor.Fprintln(g.errOut, "Error:", msg) //nolint:errcheck
	return subcommands.ExitUsageError
}

func register(commander *subcommands.Commander, g *globals) {
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&registerCmd{g: g}, "accounts")
	commander.Register(&showCmd{g: g}, "accounts")
	commander.Register(&renameCmd{g: g}, "accounts")
	commander.Register(&removeCmd{g: g}, "accounts")
	commander.Register(&depositCmd{g: g}, "ledger")
	commander.Register(&withdrawCmd{g: g}, "ledger")
	commander.Register(&statementCmd{g: g}, "ledger")
	commander.Register(&balanceCmd{g: g}, "ledger")
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("-amount is required")
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

type registerCmd struct {
	g    *globals
	cpf  string
	name string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "register a new customer" }
func (*registerCmd) Usage() string {
	return `register -cpf <cpf> -name <name>

  Creates an account with an empty statement.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cpf, "cpf", "", "customer CPF (required)")
	f.StringVar(&c.name, "name", "", "customer name (required)")
}

func (c *registerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.cpf == "" || c.name == "" {
		return c.g.usage("-cpf and -name are required")
	}
	if err := c.g.client().Register(ctx, c.cpf, c.name); err != nil {
		return c.g.fail(err)
	}
	okColor.Fprintf(c.g.out, "Registered %s (%s)\n", c.name, c.cpf) //nolint:errcheck
	return subcommands.ExitSuccess
}

type showCmd struct {
	g   *globals
	cpf string
}

func (*showCmd) Name() string             { return "show" }
func (*showCmd) Synopsis() string         { return "show a customer account" }
func (*showCmd) Usage() string            { return "show -cpf <cpf>\n" }
func (c *showCmd) SetFlags(f *flag.FlagSet) { f.StringVar(&c.cpf, "cpf", "", "customer CPF (required)") }

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.cpf == "" {
		return c.g.usage("-cpf is required")
	}
	acc, err := c.g.client().Account(ctx, c.cpf)
	if err != nil {
		return c.g.fail(err)
	}
	fmt.Fprintf(c.g.out, "CPF:          %s\n", acc.CPF)
	fmt.Fprintf(c.g.out, "Name:         %s\n", acc.Name)
	fmt.Fprintf(c.g.out, "ID:           %s\n", acc.ID)
	fmt.Fprintf(c.g.out, "Transactions: %d\n", len(acc.Statement))
	fmt.Fprintf(c.g.out, "Balance:      %s\n", acc.Balance.StringFixed(2))
	return subcommands.ExitSuccess
}

type renameCmd struct {
	g    *globals
	cpf  string
	name string
}

func (*renameCmd) Name() string     { return "rename" }
func (*renameCmd) Synopsis() string { return "change a customer name" }
func (*renameCmd) Usage() string    { return "rename -cpf <cpf> -name <name>\n" }
func (c *renameCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cpf, "cpf", "", "customer CPF (required)")
	f.StringVar(&c.name, "name", "", "new name (required)")
}

func (c *renameCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.cpf == "" || c.name == "" {
		return c.g.usage("-cpf and -name are required")
	}
	if err := c.g.client().Rename(ctx, c.cpf, c.name); err != nil {
		return c.g.fail(err)
	}
	okColor.Fprintf(c.g.out, "Renamed %s to %s\n", c.cpf, c.name) //nolint:errcheck
	return subcommands.ExitSuccess
}

type removeCmd struct {
	g   *globals
	cpf string
}

func (*removeCmd) Name() string             { return "remove" }
func (*removeCmd) Synopsis() string         { return "remove a customer" }
func (*removeCmd) Usage() string            { return "remove -cpf <cpf>\n" }
func (c *removeCmd) SetFlags(f *flag.FlagSet) { f.StringVar(&c.cpf, "cpf", "", "customer CPF (required)") }

func (c *removeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.cpf == "" {
		return c.g.usage("-cpf is required")
	}
	if err := c.g.client().Remove(ctx, c.cpf); err != nil {
		return c.g.fail(err)
	}
	okColor.Fprintf(c.g.out, "Removed %s\n", c.cpf) //nolint:errcheck
	return subcommands.ExitSuccess
}

type depositCmd struct {
	g           *globals
	cpf         string
	amount      string
	description string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "credit an account" }
func (*depositCmd) Usage() string {
	return `deposit -cpf <cpf> -amount <amount> [-description <text>]
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cpf, "cpf", "", "customer CPF (required)")
	f.StringVar(&c.amount, "amount", "", "amount to deposit (required)")
	f.StringVar(&c.description, "description", "", "optional description")
}

func (c *depositCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.cpf == "" {
		return c.g.usage("-cpf is required")
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.g.usage(err.Error())
	}
	cl := c.g.client()
	if err := cl.Deposit(ctx, c.cpf, c.description, amount); err != nil {
		return c.g.fail(err)
	}
	balance, err := cl.Balance(ctx, c.cpf)
	if err != nil {
		return c.g.fail(err)
	}
	okColor.Fprintf(c.g.out, "Deposited %s. New balance: %s\n", amount.StringFixed(2), balance.StringFixed(2)) //nolint:errcheck
	return subcommands.ExitSuccess
}

type withdrawCmd struct {
	g      *globals
	cpf    string
	amount string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "debit an account" }
func (*withdrawCmd) Usage() string    { return "withdraw -cpf <cpf> -amount <amount>\n" }
func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cpf, "cpf", "", "customer CPF (required)")
	f.StringVar(&c.amount, "amount", "", "amount to withdraw (required)")
}

func (c *withdrawCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.cpf == "" {
		return c.g.usage("-cpf is required")
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.g.usage(err.Error())
	}
	cl := c.g.client()
	if err := cl.Withdraw(ctx, c.cpf, amount); err != nil {
		return c.g.fail(err)
	}
	balance, err := cl.Balance(ctx, c.cpf)
	if err != nil {
		return c.g.fail(err)
	}
	okColor.Fprintf(c.g.out, "Withdrew %s. New balance: %s\n", amount.StringFixed(2), balance.StringFixed(2)) //nolint:errcheck
	return subcommands.ExitSuccess
}

type statementCmd struct {
	g   *globals
	cpf string
	on  string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "list account transactions" }
func (*statementCmd) Usage() string {
	return `statement -cpf <cpf> [-date YYYY-MM-DD]

  Lists every transaction, or only those of one day when -date is given.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cpf, "cpf", "", "customer CPF (required)")
	f.StringVar(&c.on, "date", "", "only transactions of this day")
}

func (c *statementCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.cpf == "" {
		return c.g.usage("-cpf is required")
	}
	var (
		txs []account.Transaction
		err error
	)
	if c.on != "" {
		day, perr := date.Parse(c.on)
		if perr != nil {
			return c.g.usage(perr.Error())
		}
		txs, err = c.g.client().StatementByDate(ctx, c.cpf, day)
	} else {
		txs, err = c.g.client().Statement(ctx, c.cpf)
	}
	if err != nil {
		return c.g.fail(err)
	}
	if len(txs) == 0 {
		fmt.Fprintln(c.g.out, "No transactions.")
		return subcommands.ExitSuccess
	}
	for _, tx := range txs {
		line := credColor
		sign := "+"
		if tx.Type == account.Debit {
			line, sign = debColor, "-"
		}
		line.Fprintf(c.g.out, "%s %-6s %s%12s  %s\n", //nolint:errcheck
			tx.CreatedAt.Format(time.RFC3339), tx.Type, sign, tx.Amount.StringFixed(2), tx.Description)
	}
	return subcommands.ExitSuccess
}

type balanceCmd struct {
	g   *globals
	cpf string
}

func (*balanceCmd) Name() string             { return "balance" }
func (*balanceCmd) Synopsis() string         { return "print the account balance" }
func (*balanceCmd) Usage() string            { return "balance -cpf <cpf>\n" }
func (c *balanceCmd) SetFlags(f *flag.FlagSet) { f.StringVar(&c.cpf, "cpf", "", "customer CPF (required)") }

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.cpf == "" {
		return c.g.usage("-cpf is required")
	}
	balance, err := c.g.client().Balance(ctx, c.cpf)
	if err != nil {
		return c.g.fail(err)
	}
	fmt.Fprintf(c.g.out, "Balance for %s: %s\n", c.cpf, balance.StringFixed(2))
	return subcommands.ExitSuccess
}
