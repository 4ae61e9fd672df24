package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	EventTypeAccountRegistered EventType = "Account.Registered"
	EventTypeAccountRenamed    EventType = "Account.Renamed"
	EventTypeAccountRemoved    EventType = "Account.Removed"
	EventTypeDepositMade       EventType = "Deposit.Made"
	EventTypeWithdrawalMade    EventType = "Withdrawal.Made"
)

func (t EventType) String() string { return string(t) }

// Event is implemented by every domain event.
type Event interface {
	Type() string
}
