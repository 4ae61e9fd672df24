package events

// EventTypes maps an event type name to a constructor of its zero value, used
// when decoding events off the wire.
var EventTypes = map[EventType]func() Event{
	EventTypeAccountRegistered: func() Event { return &AccountRegistered{} },
	EventTypeAccountRenamed:    func() Event { return &AccountRenamed{} },
	EventTypeAccountRemoved:    func() Event { return &AccountRemoved{} },
	EventTypeDepositMade:       func() Event { return &DepositMade{} },
	EventTypeWithdrawalMade:    func() Event { return &WithdrawalMade{} },
}

// Value dereferences a decoded event so consumers see the same value types
// the service emits. Other events are returned unchanged.
func Value(e Event) Event {
	switch v := e.(type) {
	case *AccountRegistered:
		return *v
	case *AccountRenamed:
		return *v
	case *AccountRemoved:
		return *v
	case *DepositMade:
		return *v
	case *WithdrawalMade:
		return *v
	}
	return e
}
