package events_test

import (
	"testing"

	"github.com/amirasaad/cpfledger/pkg/domain/events"
	"github.com/stretchr/testify/assert"
)

func TestEventTypes(t *testing.T) {
	cases := []struct {
		event events.Event
		want  events.EventType
	}{
		{events.AccountRegistered{}, events.EventTypeAccountRegistered},
		{events.AccountRenamed{}, events.EventTypeAccountRenamed},
		{events.AccountRemoved{}, events.EventTypeAccountRemoved},
		{events.DepositMade{}, events.EventTypeDepositMade},
		{events.WithdrawalMade{}, events.EventTypeWithdrawalMade},
	}
	for _, tc := range cases {
		t.Run(tc.want.String(), func(t *testing.T) {
			assert.Equal(t, tc.want.String(), tc.event.Type())
		})
	}
}

func TestEventTypesRegistryCoversAllEvents(t *testing.T) {
	for typ, ctor := range events.EventTypes {
		evt := ctor()
		assert.NotNil(t, evt)
		assert.Equal(t, typ.String(), evt.Type())
	}
	assert.Len(t, events.EventTypes, 5)
}

func TestValueDereferencesDecodedEvents(t *testing.T) {
	for _, ctor := range events.EventTypes {
		evt := events.Value(ctor())
		assert.NotNil(t, evt)
		switch evt.(type) {
		case events.AccountRegistered, events.AccountRenamed, events.AccountRemoved,
			events.DepositMade, events.WithdrawalMade:
		default:
			t.Errorf("unexpected %T", evt)
		}
	}

	dep := events.DepositMade{Description: "pix"}
	assert.Equal(t, dep, events.Value(dep))
}
