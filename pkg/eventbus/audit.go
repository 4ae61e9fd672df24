package eventbus

import (
	"context"
	"log/slog"

	"github.com/amirasaad/cpfledger/pkg/domain/events"
)

// AuditHandler returns a handler that logs every event it receives.
func AuditHandler(logger *slog.Logger) HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("handler", "audit")
	return func(ctx context.Context, event events.Event) error {
		attrs := []any{"type", event.Type()}
		switch e := events.Value(event).(type) {
		case events.AccountRegistered:
			attrs = append(attrs, "cpf", e.CPF, "account_id", e.AccountID, "name", e.Name)
		case events.AccountRenamed:
			attrs = append(attrs, "cpf", e.CPF, "account_id", e.AccountID, "name", e.Name)
		case events.AccountRemoved:
			attrs = append(attrs, "cpf", e.CPF, "account_id", e.AccountID)
		case events.DepositMade:
			attrs = append(attrs, "cpf", e.CPF, "amount", e.Amount.String(), "balance", e.Balance.String())
		case events.WithdrawalMade:
			attrs = append(attrs, "cpf", e.CPF, "amount", e.Amount.String(), "balance", e.Balance.String())
		}
		logger.InfoContext(ctx, "📒 ledger event", attrs...)
		return nil
	}
}

// RegisterAll registers handler for every known event type.
func RegisterAll(bus Bus, handler HandlerFunc) {
	for eventType := range events.EventTypes {
		bus.Register(eventType, handler)
	}
}
